package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Verse is one corpus entry. Embedding is populated at initialization (or at
// ingest) and stays nil when the embedding provider could not produce one;
// such verses remain searchable through lexical scoring.
type Verse struct {
	ID                  string   `json:"id"`
	Chapter             int      `json:"chapter"`
	VerseNumber         int      `json:"verse"`
	Sanskrit            string   `json:"sanskrit"`
	Hindi               string   `json:"hindi"`
	Meaning             string   `json:"meaning"`
	DetailedExplanation string   `json:"detailed_explanation,omitempty"`
	ContextTags         []string `json:"context_tags,omitempty"`
	EmotionalContext    []string `json:"emotional_context,omitempty"`
	Themes              []string `json:"themes,omitempty"`
	LifeSituations      []string `json:"life_situations,omitempty"`

	Embedding []float32 `json:"-"`
}

// EmbeddingText composes the text that gets embedded for a verse: all
// semantic fields joined, tags flattened.
func (v *Verse) EmbeddingText() string {
	parts := []string{
		v.Hindi,
		v.Meaning,
		v.DetailedExplanation,
		strings.Join(v.ContextTags, " "),
		strings.Join(v.EmotionalContext, " "),
		strings.Join(v.Themes, " "),
		strings.Join(v.LifeSituations, " "),
	}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}

// Validate checks the fields required for ingest.
func (v *Verse) Validate() error {
	switch {
	case v.ID == "":
		return fmt.Errorf("%w: id", ErrMissingField)
	case v.Chapter == 0:
		return fmt.Errorf("%w: chapter", ErrMissingField)
	case v.VerseNumber == 0:
		return fmt.Errorf("%w: verse", ErrMissingField)
	case v.Sanskrit == "":
		return fmt.Errorf("%w: sanskrit", ErrMissingField)
	case v.Hindi == "":
		return fmt.Errorf("%w: hindi", ErrMissingField)
	case v.Meaning == "":
		return fmt.Errorf("%w: meaning", ErrMissingField)
	}
	return nil
}

// corpusFile is the on-disk shape of the knowledge base.
type corpusFile struct {
	Verses          []*Verse            `json:"verses"`
	ContextKeywords map[string][]string `json:"context_keywords"`
}

// LoadCorpus reads the verse corpus and the category keyword map from a
// static JSON file.
func LoadCorpus(path string) ([]*Verse, map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read corpus file: %w", err)
	}

	var file corpusFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("parse corpus file: %w", err)
	}

	if file.ContextKeywords == nil {
		file.ContextKeywords = map[string][]string{}
	}
	return file.Verses, file.ContextKeywords, nil
}
