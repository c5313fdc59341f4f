package websocket

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	"paarth-be/internal/constant"
	"paarth-be/internal/dto"
	"paarth-be/internal/pkg/logger"
	"paarth-be/internal/service"
	"paarth-be/pkg/relay/session"
)

// Relay dispatches websocket messages to the assistant service and owns the
// session lifecycle of each connection. Generation rounds run in their own
// goroutines so a client can interrupt or supersede them mid flight.
type Relay struct {
	registry  *session.Registry
	assistant service.IAssistantService
	log       logger.ILogger
}

func NewRelay(registry *session.Registry, assistant service.IAssistantService, log logger.ILogger) *Relay {
	return &Relay{
		registry:  registry,
		assistant: assistant,
		log:       log,
	}
}

// Connect binds a fresh session to the client and greets it.
func (r *Relay) Connect(c *Client) {
	c.session = r.registry.Create(c)
	r.log.Info("Relay", "Session connected", map[string]interface{}{"session_id": c.session.ID})
	r.sendGreeting(c)
}

// Disconnect tears the session down after the read pump exits.
func (r *Relay) Disconnect(c *Client) {
	if c.session == nil {
		return
	}
	r.assistant.EndSession(c.session)
	r.log.Info("Relay", "Session disconnected", map[string]interface{}{"session_id": c.session.ID})
	c.session = nil
}

// Handle processes one inbound frame. Malformed or unknown messages answer
// with an error frame; the connection stays open.
func (r *Relay) Handle(c *Client, raw []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		r.sendError(c, "Invalid message format")
		return
	}

	if c.session != nil {
		r.registry.Touch(c.session.ID)
	}

	switch msg.Type {
	case TypeStartSession:
		r.handleStartSession(c)
	case TypeAudioData:
		r.handleAudio(c, &msg)
	case TypeTextQuery, TypeTextMessage:
		r.handleText(c, &msg)
	case TypeGetRandomVerse:
		r.handleRandomVerse(c)
	case TypeAdvancedSearch:
		r.handleAdvancedSearch(c, &msg)
	case TypeInterrupt:
		r.handleInterrupt(c)
	case TypeEndSession:
		r.handleEndSession(c)
	case TypePing:
		c.Send(pongMessage{Type: TypePong, Timestamp: time.Now().UnixMilli()})
	default:
		r.sendError(c, constant.ErrUnknownType)
	}
}

func (r *Relay) handleStartSession(c *Client) {
	if c.session == nil {
		c.session = r.registry.Create(c)
	} else {
		c.session.Reset(time.Now())
	}
	r.sendGreeting(c)
}

func (r *Relay) handleAudio(c *Client, msg *inboundMessage) {
	sess := c.session
	if sess == nil {
		r.sendError(c, "Session not started")
		return
	}

	audio, err := base64.StdEncoding.DecodeString(msg.Audio)
	if err != nil || len(audio) == 0 {
		r.sendError(c, "Invalid audio payload")
		return
	}

	mimeType := msg.MimeType
	if mimeType == "" {
		mimeType = "audio/webm"
	}

	go func() {
		result, err := r.assistant.RespondAudio(context.Background(), sess, audio, mimeType)
		if err != nil {
			// Superseded or interrupted rounds vanish without a reply.
			return
		}
		r.sendResponse(c, sess.ID, result)
	}()
}

func (r *Relay) handleText(c *Client, msg *inboundMessage) {
	sess := c.session
	if sess == nil {
		r.sendError(c, "Session not started")
		return
	}
	text := msg.Text
	if text == "" {
		text = msg.Query
	}
	if text == "" {
		r.sendError(c, constant.ApologyQuery)
		return
	}

	go func() {
		result, err := r.assistant.RespondText(context.Background(), sess, text)
		if err != nil {
			return
		}
		r.sendResponse(c, sess.ID, result)
	}()
}

func (r *Relay) handleRandomVerse(c *Client) {
	verse, err := r.assistant.RandomVerse()
	if err != nil {
		r.sendError(c, constant.ErrVerseFetch)
		return
	}
	c.Send(randomVerseMessage{Type: TypeRandomVerse, Verse: verse})
}

func (r *Relay) handleAdvancedSearch(c *Client, msg *inboundMessage) {
	results := r.assistant.AdvancedSearch(context.Background(), &dto.AdvancedSearchRequest{
		Query:            msg.Query,
		Chapter:          msg.Chapter,
		Themes:           msg.Themes,
		EmotionalContext: msg.EmotionalContext,
		LifeSituations:   msg.LifeSituations,
		MaxResults:       msg.MaxResults,
	})
	c.Send(searchResultsMessage{Type: TypeSearchResults, Results: results, Count: len(results)})
}

// handleInterrupt cancels whatever is generating. Idempotent: interrupting
// an idle session still answers, only the counter moves.
func (r *Relay) handleInterrupt(c *Client) {
	sess := c.session
	if sess == nil {
		r.sendError(c, "Session not started")
		return
	}
	count := r.assistant.Interrupt(sess)
	c.Send(interruptedMessage{Type: TypeInterrupted, SessionID: sess.ID, InterruptCount: count})
}

func (r *Relay) handleEndSession(c *Client) {
	sess := c.session
	if sess == nil {
		r.sendError(c, "Session not started")
		return
	}
	stats := r.assistant.EndSession(sess)
	c.session = nil
	c.Send(sessionEndedMessage{Type: TypeSessionEnded, SessionID: sess.ID, Stats: stats})
}

func (r *Relay) sendGreeting(c *Client) {
	c.Send(connectionEstablishedMessage{
		Type:      TypeConnectionEstablished,
		SessionID: c.session.ID,
		Message:   constant.Greeting,
		Stats:     r.assistant.Stats().Knowledge,
	})
}

func (r *Relay) sendResponse(c *Client, sessionID string, result *dto.AnswerResult) {
	c.Send(textResponseMessage{
		Type:           TypeTextResponse,
		SessionID:      sessionID,
		Text:           result.Text,
		Transcription:  result.Transcription,
		VersesUsed:     result.VersesUsed,
		ProcessingTime: result.ProcessingMs,
		Speaker:        constant.SpeakerName,
	})
}

func (r *Relay) sendError(c *Client, message string) {
	c.Send(errorMessage{Type: TypeError, Message: message})
}

// NotifyShutdown tells every live session the server is going away.
func (r *Relay) NotifyShutdown() {
	for _, sess := range r.registry.Snapshot() {
		if sess.Transport == nil {
			continue
		}
		sess.Transport.Send(serverShutdownMessage{
			Type:    TypeServerShutdown,
			Message: constant.ErrShutdown,
		})
	}
}
