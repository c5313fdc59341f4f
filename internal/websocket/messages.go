package websocket

import (
	"paarth-be/internal/dto"
	"paarth-be/pkg/knowledge"
)

// Message types accepted from clients.
const (
	TypeStartSession   = "start_session"
	TypeAudioData      = "audio_data"
	TypeTextQuery      = "text_query"
	TypeTextMessage    = "text_message"
	TypeGetRandomVerse = "get_random_verse"
	TypeAdvancedSearch = "advanced_search"
	TypeInterrupt      = "interrupt"
	TypeEndSession     = "end_session"
	TypePing           = "ping"
)

// Message types sent to clients.
const (
	TypeConnectionEstablished = "connection_established"
	TypeTextResponse          = "text_response"
	TypeRandomVerse           = "random_verse"
	TypeSearchResults         = "search_results"
	TypeInterrupted           = "interrupted"
	TypeSessionEnded          = "session_ended"
	TypePong                  = "pong"
	TypeServerShutdown        = "server_shutdown"
	TypeError                 = "error"
)

// inboundMessage is the union of every client message shape; Type selects
// which fields matter.
type inboundMessage struct {
	Type             string   `json:"type"`
	Text             string   `json:"text"`
	Audio            string   `json:"audio"` // base64
	MimeType         string   `json:"mimeType"`
	Query            string   `json:"query"`
	Chapter          *int     `json:"chapter"`
	Themes           []string `json:"themes"`
	EmotionalContext []string `json:"emotional_context"`
	LifeSituations   []string `json:"life_situations"`
	MaxResults       int      `json:"maxResults"`
}

type connectionEstablishedMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Message   string          `json:"message"`
	Stats     knowledge.Stats `json:"stats"`
}

type textResponseMessage struct {
	Type           string   `json:"type"`
	SessionID      string   `json:"sessionId"`
	Text           string   `json:"text"`
	Transcription  string   `json:"transcription,omitempty"`
	VersesUsed     []string `json:"versesUsed,omitempty"`
	ProcessingTime int64    `json:"processingTime"`
	Speaker        string   `json:"speaker"`
}

type randomVerseMessage struct {
	Type  string           `json:"type"`
	Verse *knowledge.Verse `json:"verse"`
}

type searchResultsMessage struct {
	Type    string             `json:"type"`
	Results []*knowledge.Verse `json:"results"`
	Count   int                `json:"count"`
}

type interruptedMessage struct {
	Type           string `json:"type"`
	SessionID      string `json:"sessionId"`
	InterruptCount int    `json:"interruptCount"`
}

type sessionEndedMessage struct {
	Type      string           `json:"type"`
	SessionID string           `json:"sessionId"`
	Stats     dto.SessionStats `json:"stats"`
}

type pongMessage struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
}

type serverShutdownMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
