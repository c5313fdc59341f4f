package service

import (
	"encoding/json"
	"log"

	"paarth-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IPublisherService publishes domain events onto the in-process bus.
type IPublisherService interface {
	Publish(event events.Event)
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

type eventEnvelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt int64                  `json:"occurred_at"`
}

func (ps *publisherService) Publish(event events.Event) {
	payload, err := json.Marshal(eventEnvelope{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp().Unix(),
	})
	if err != nil {
		log.Printf("[ERROR] Failed to marshal event %s: %v", event.EventType(), err)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := ps.pubSub.Publish(ps.topicName, msg); err != nil {
		log.Printf("[ERROR] Failed to publish event %s: %v", event.EventType(), err)
	}
}
