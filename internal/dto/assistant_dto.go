package dto

import "paarth-be/pkg/knowledge"

// --- REST request shapes ---

type SearchRequest struct {
	Query      string `json:"query" validate:"required"`
	MaxResults int    `json:"maxResults" validate:"omitempty,min=1,max=20"`
}

type AdvancedSearchRequest struct {
	Query            string   `json:"query"`
	Chapter          *int     `json:"chapter" validate:"omitempty,min=1,max=18"`
	Themes           []string `json:"themes"`
	EmotionalContext []string `json:"emotional_context"`
	LifeSituations   []string `json:"life_situations"`
	MaxResults       int      `json:"maxResults" validate:"omitempty,min=1,max=20"`
}

type AskRequest struct {
	Question  string `json:"question" validate:"required"`
	SessionID string `json:"sessionId"`
}

type AddVerseRequest struct {
	ID                  string   `json:"id" validate:"required"`
	Chapter             int      `json:"chapter" validate:"required,min=1,max=18"`
	Verse               int      `json:"verse" validate:"required,min=1"`
	Sanskrit            string   `json:"sanskrit" validate:"required"`
	Hindi               string   `json:"hindi" validate:"required"`
	Meaning             string   `json:"meaning" validate:"required"`
	DetailedExplanation string   `json:"detailed_explanation"`
	ContextTags         []string `json:"context_tags"`
	EmotionalContext    []string `json:"emotional_context"`
	Themes              []string `json:"themes"`
	LifeSituations      []string `json:"life_situations"`
}

func (r *AddVerseRequest) ToVerse() *knowledge.Verse {
	return &knowledge.Verse{
		ID:                  r.ID,
		Chapter:             r.Chapter,
		VerseNumber:         r.Verse,
		Sanskrit:            r.Sanskrit,
		Hindi:               r.Hindi,
		Meaning:             r.Meaning,
		DetailedExplanation: r.DetailedExplanation,
		ContextTags:         r.ContextTags,
		EmotionalContext:    r.EmotionalContext,
		Themes:              r.Themes,
		LifeSituations:      r.LifeSituations,
	}
}

// --- REST/relay response shapes ---

// AnswerResult is what one generation round produces.
type AnswerResult struct {
	Text          string   `json:"response"`
	Transcription string   `json:"transcription,omitempty"`
	VersesUsed    []string `json:"versesUsed"`
	ProcessingMs  int64    `json:"processingTime"`
	Degraded      bool     `json:"-"`
}

type SessionInfo struct {
	ID             string `json:"id"`
	DurationMs     int64  `json:"duration"`
	LastActivity   int64  `json:"lastActivity"`
	TurnCount      int    `json:"questionCount"`
	InterruptCount int    `json:"interruptCount"`
}

type SessionStats struct {
	SessionID  string `json:"sessionId"`
	Turns      int    `json:"questionCount"`
	DurationMs int64  `json:"duration"`
	Interrupts int    `json:"interrupts"`
}
