package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"paarth-be/internal/constant"
	"paarth-be/internal/dto"
	"paarth-be/internal/pkg/logger"
	"paarth-be/pkg/events"
	"paarth-be/pkg/knowledge"
	"paarth-be/pkg/relay/gateway"
	"paarth-be/pkg/relay/prompt"
	"paarth-be/pkg/relay/request"
	"paarth-be/pkg/relay/session"
	"paarth-be/pkg/store"

	"github.com/google/uuid"
)

const (
	audioTopK = 3
	textTopK  = 2
)

// IAssistantService orchestrates one question/answer round: retrieval,
// prompt assembly, generation, history bookkeeping.
type IAssistantService interface {
	RespondText(ctx context.Context, sess *store.Session, question string) (*dto.AnswerResult, error)
	RespondAudio(ctx context.Context, sess *store.Session, audio []byte, mimeType string) (*dto.AnswerResult, error)
	Interrupt(sess *store.Session) int
	EndSession(sess *store.Session) dto.SessionStats
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AnswerResult, error)
	Search(ctx context.Context, req *dto.SearchRequest) []*knowledge.Verse
	AdvancedSearch(ctx context.Context, req *dto.AdvancedSearchRequest) []*knowledge.Verse
	AddVerse(ctx context.Context, req *dto.AddVerseRequest) (*knowledge.Verse, error)
	RandomVerse() (*knowledge.Verse, error)
	Verses(chapter *int, limit int) []*knowledge.Verse
	Stats() *StatsResponse
	Sessions() []dto.SessionInfo
}

type StatsResponse struct {
	Knowledge      knowledge.Stats `json:"knowledgeBase"`
	ActiveSessions int             `json:"activeSessions"`
	Turns          StatsTotals     `json:"turns"`
	UptimeSeconds  int64           `json:"uptimeSeconds"`
}

type assistantService struct {
	index       *knowledge.Index
	gateway     *gateway.Gateway
	coordinator *request.Coordinator
	registry    *session.Registry
	publisher   IPublisherService
	stats       IStatsService
	log         logger.ILogger
	startedAt   time.Time
}

func NewAssistantService(
	index *knowledge.Index,
	gw *gateway.Gateway,
	coordinator *request.Coordinator,
	registry *session.Registry,
	publisher IPublisherService,
	stats IStatsService,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		index:       index,
		gateway:     gw,
		coordinator: coordinator,
		registry:    registry,
		publisher:   publisher,
		stats:       stats,
		log:         log,
		startedAt:   time.Now(),
	}
}

func (s *assistantService) RespondText(ctx context.Context, sess *store.Session, question string) (*dto.AnswerResult, error) {
	requestID, reqCtx := s.coordinator.Start(ctx, sess.ID)
	defer s.coordinator.Complete(sess.ID, requestID)

	return s.answer(reqCtx, sess, question, "", store.TurnKindText, textTopK)
}

func (s *assistantService) RespondAudio(ctx context.Context, sess *store.Session, audio []byte, mimeType string) (*dto.AnswerResult, error) {
	requestID, reqCtx := s.coordinator.Start(ctx, sess.ID)
	defer s.coordinator.Complete(sess.ID, requestID)

	transcription, err := s.gateway.SubmitWithAudio(reqCtx, constant.TranscribeInstruction, audio, mimeType)
	if err != nil {
		if errors.Is(err, gateway.ErrInterrupted) {
			return nil, err
		}
		s.log.Error("AssistantService", "Transcription failed", map[string]interface{}{
			"session_id": sess.ID,
			"error":      err.Error(),
		})
		return &dto.AnswerResult{Text: constant.ApologyAudio, Degraded: true}, nil
	}

	transcription = strings.TrimSpace(transcription)
	if transcription == "" {
		return &dto.AnswerResult{Text: constant.ApologyAudio, Degraded: true}, nil
	}

	return s.answer(reqCtx, sess, transcription, transcription, store.TurnKindAudio, audioTopK)
}

// answer runs the retrieval/generation round on an already coordinated
// context. A generation failure degrades to a canned apology which still
// counts as the turn's reply; an interruption surfaces as an error so the
// caller can discard the round silently.
func (s *assistantService) answer(reqCtx context.Context, sess *store.Session, question, transcription, kind string, topK int) (*dto.AnswerResult, error) {
	started := time.Now()

	verses := s.index.Query(reqCtx, question, topK)
	built := prompt.NewBuilder(question, verses, sess.RecentTurns(prompt.HistoryWindow)).Build()

	text, err := s.gateway.Submit(reqCtx, built)
	degraded := false
	if err != nil {
		if errors.Is(err, gateway.ErrInterrupted) {
			return nil, err
		}
		s.log.Error("AssistantService", "Generation failed", map[string]interface{}{
			"session_id": sess.ID,
			"error":      err.Error(),
		})
		text = constant.ApologyGeneration
		degraded = true
	}

	ids := verseIDs(verses)
	sess.RecordTurn(store.Turn{
		Timestamp:     time.Now(),
		UserText:      question,
		AssistantText: text,
		VersesUsed:    ids,
		Kind:          kind,
	})

	elapsed := time.Since(started).Milliseconds()
	s.publisher.Publish(events.NewTurnRecorded(sess.ID, kind, len(ids), elapsed))

	return &dto.AnswerResult{
		Text:          text,
		Transcription: transcription,
		VersesUsed:    ids,
		ProcessingMs:  elapsed,
		Degraded:      degraded,
	}, nil
}

func (s *assistantService) Interrupt(sess *store.Session) int {
	cancelled := s.coordinator.CancelAll(sess.ID)
	count := sess.Interrupt()
	s.log.Info("AssistantService", "Session interrupted", map[string]interface{}{
		"session_id":         sess.ID,
		"cancelled_requests": cancelled,
		"interrupt_count":    count,
	})
	return count
}

func (s *assistantService) EndSession(sess *store.Session) dto.SessionStats {
	duration := time.Since(sess.CreatedAt)
	stats := dto.SessionStats{
		SessionID:  sess.ID,
		Turns:      sess.TurnCount(),
		DurationMs: duration.Milliseconds(),
		Interrupts: sess.InterruptCount(),
	}

	s.publisher.Publish(events.NewSessionEnded(sess.ID, stats.Turns, duration))
	s.registry.Destroy(sess.ID)

	return stats
}

// Ask serves the stateless REST endpoint. A sessionId continues an existing
// conversation; without one the round runs on a throwaway session.
func (s *assistantService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AnswerResult, error) {
	sess, ok := s.registry.Get(req.SessionID)
	if !ok {
		sess = store.NewSession(uuid.NewString(), nil, time.Now())
	}
	return s.RespondText(ctx, sess, req.Question)
}

func (s *assistantService) Search(ctx context.Context, req *dto.SearchRequest) []*knowledge.Verse {
	k := req.MaxResults
	if k <= 0 {
		k = 5
	}
	return s.index.Query(ctx, req.Query, k)
}

func (s *assistantService) AdvancedSearch(ctx context.Context, req *dto.AdvancedSearchRequest) []*knowledge.Verse {
	return s.index.AdvancedSearch(ctx, knowledge.Filter{
		Chapter:          req.Chapter,
		Themes:           req.Themes,
		EmotionalContext: req.EmotionalContext,
		LifeSituations:   req.LifeSituations,
		Query:            req.Query,
		MaxResults:       req.MaxResults,
	})
}

func (s *assistantService) AddVerse(ctx context.Context, req *dto.AddVerseRequest) (*knowledge.Verse, error) {
	verse := req.ToVerse()
	if err := s.index.AddVerse(ctx, verse); err != nil {
		return nil, err
	}
	s.log.Info("AssistantService", "Verse added", map[string]interface{}{
		"verse_id": verse.ID,
		"total":    s.index.Count(),
	})
	return verse, nil
}

func (s *assistantService) RandomVerse() (*knowledge.Verse, error) {
	verse := s.index.RandomVerse()
	if verse == nil {
		return nil, fmt.Errorf("knowledge base is empty")
	}
	return verse, nil
}

func (s *assistantService) Verses(chapter *int, limit int) []*knowledge.Verse {
	if chapter != nil {
		return s.index.VersesByChapter(*chapter)
	}
	return s.index.All(limit)
}

func (s *assistantService) Stats() *StatsResponse {
	return &StatsResponse{
		Knowledge:      s.index.Stats(),
		ActiveSessions: s.registry.Count(),
		Turns:          s.stats.Totals(),
		UptimeSeconds:  int64(time.Since(s.startedAt).Seconds()),
	}
}

func (s *assistantService) Sessions() []dto.SessionInfo {
	sessions := s.registry.Snapshot()
	out := make([]dto.SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, dto.SessionInfo{
			ID:             sess.ID,
			DurationMs:     time.Since(sess.CreatedAt).Milliseconds(),
			LastActivity:   sess.LastActivity().UnixMilli(),
			TurnCount:      sess.TurnCount(),
			InterruptCount: sess.InterruptCount(),
		})
	}
	return out
}

func verseIDs(verses []*knowledge.Verse) []string {
	if len(verses) == 0 {
		return nil
	}
	ids := make([]string, 0, len(verses))
	for _, v := range verses {
		ids = append(ids, v.ID)
	}
	return ids
}
