package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"paarth-be/internal/pkg/logger"
	"paarth-be/pkg/llm"
)

var (
	// ErrGenerationFailed covers any transport or model error. Callers degrade
	// to a canned reply; the session stays alive.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrInterrupted means the request's cancel token fired before the model
	// answered. The result, if one ever arrives, is discarded.
	ErrInterrupted = errors.New("request interrupted")
)

// Gateway is the single boundary to the generation backend. It enforces the
// per-request timeout and translates context cancellation into the
// interrupted condition so stale results never reach a session.
type Gateway struct {
	provider llm.Provider
	timeout  time.Duration
	logger   logger.ILogger
}

func New(provider llm.Provider, timeout time.Duration, log logger.ILogger) *Gateway {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Gateway{
		provider: provider,
		timeout:  timeout,
		logger:   log,
	}
}

// Submit sends a prompt and suspends the caller until the model responds,
// the per-request timeout expires, or ctx is cancelled.
func (g *Gateway) Submit(ctx context.Context, prompt string) (string, error) {
	return g.send(ctx, []llm.Message{{Role: "user", Content: prompt}})
}

// SubmitWithAudio sends a prompt together with an inline binary payload.
func (g *Gateway) SubmitWithAudio(ctx context.Context, prompt string, audio []byte, mimeType string) (string, error) {
	return g.send(ctx, []llm.Message{{
		Role:     "user",
		Content:  prompt,
		Audio:    audio,
		MimeType: mimeType,
	}})
}

func (g *Gateway) send(ctx context.Context, history []llm.Message) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.provider.Chat(callCtx, history)

	// The cancel token wins over whatever the provider returned: a response
	// that arrives after cancellation is dropped, not delivered.
	if ctx.Err() != nil {
		return "", ErrInterrupted
	}
	if err != nil {
		g.logger.Error("Gateway", "Generation call failed", map[string]interface{}{"error": err.Error()})
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return text, nil
}
