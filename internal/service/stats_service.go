package service

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"paarth-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IStatsService consumes turn/session events and exposes running totals for
// the stats endpoints.
type IStatsService interface {
	Consume(ctx context.Context) error
	Totals() StatsTotals
}

type StatsTotals struct {
	TotalTurns        int64 `json:"totalConversations"`
	TotalAudioTurns   int64 `json:"totalAudioTurns"`
	TotalTextTurns    int64 `json:"totalTextTurns"`
	SessionsEnded     int64 `json:"sessionsEnded"`
	StartedAt         int64 `json:"startedAt"`
	AvgProcessingMs   int64 `json:"avgProcessingMs"`
	totalProcessingMs int64
}

type statsService struct {
	pubSub    *gochannel.GoChannel
	topicName string

	mu     sync.Mutex
	totals StatsTotals
}

func NewStatsService(pubSub *gochannel.GoChannel, topicName string) IStatsService {
	return &statsService{
		pubSub:    pubSub,
		topicName: topicName,
		totals:    StatsTotals{StartedAt: time.Now().Unix()},
	}
}

func (ss *statsService) Consume(ctx context.Context) error {
	messages, err := ss.pubSub.Subscribe(ctx, ss.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ss.processMessage(msg)
		}
	}()

	return nil
}

func (ss *statsService) processMessage(msg *message.Message) {
	var envelope struct {
		Type string                 `json:"type"`
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		log.Printf("[ERROR] Failed to unmarshal event: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	ss.mu.Lock()
	switch envelope.Type {
	case events.TypeTurnRecorded:
		ss.totals.TotalTurns++
		if kind, _ := envelope.Data["kind"].(string); kind == "audio" {
			ss.totals.TotalAudioTurns++
		} else {
			ss.totals.TotalTextTurns++
		}
		if ms, ok := envelope.Data["processing_ms"].(float64); ok {
			ss.totals.totalProcessingMs += int64(ms)
			ss.totals.AvgProcessingMs = ss.totals.totalProcessingMs / ss.totals.TotalTurns
		}
	case events.TypeSessionEnded:
		ss.totals.SessionsEnded++
	}
	ss.mu.Unlock()

	msg.Ack()
}

func (ss *statsService) Totals() StatsTotals {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.totals
}
