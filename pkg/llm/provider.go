package llm

import (
	"context"
	"errors"
)

// ErrAudioUnsupported is returned by providers that cannot consume inline
// audio parts.
var ErrAudioUnsupported = errors.New("provider does not accept audio input")

// Message represents a chat message in a provider-agnostic format. Audio, if
// set, is an inline binary part accompanying the text (providers that cannot
// consume audio return ErrAudioUnsupported).
type Message struct {
	Role     string // "user", "assistant", "system"
	Content  string
	Audio    []byte
	MimeType string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// Provider defines the contract for any generation backend.
type Provider interface {
	// Chat sends a chat history to the model and returns the response.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method).
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
