package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g. "TURN_RECORDED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const (
	TypeTurnRecorded = "TURN_RECORDED"
	TypeSessionEnded = "SESSION_ENDED"
)

// NewTurnRecorded marks one completed question/answer exchange.
func NewTurnRecorded(sessionID, kind string, versesUsed int, processingMs int64) Event {
	return BaseEvent{
		Type: TypeTurnRecorded,
		Data: map[string]interface{}{
			"session_id":    sessionID,
			"kind":          kind,
			"verses_used":   versesUsed,
			"processing_ms": processingMs,
		},
		OccurredAt: time.Now(),
	}
}

// NewSessionEnded marks a session teardown, whatever triggered it.
func NewSessionEnded(sessionID string, turns int, duration time.Duration) Event {
	return BaseEvent{
		Type: TypeSessionEnded,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"turns":      turns,
			"duration_s": int(duration.Seconds()),
		},
		OccurredAt: time.Now(),
	}
}
