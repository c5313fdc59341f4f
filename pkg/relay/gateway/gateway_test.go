package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"paarth-be/internal/pkg/logger"
	"paarth-be/pkg/llm"
)

type stubProvider struct {
	reply string
	err   error
	delay time.Duration
	got   []llm.Message
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	s.got = history
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
		}
	}
	return s.reply, s.err
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func TestSubmit(t *testing.T) {
	provider := &stubProvider{reply: "हे पार्थ"}
	g := New(provider, time.Second, logger.NewNopLogger())

	got, err := g.Submit(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got != "हे पार्थ" {
		t.Errorf("Submit() = %q", got)
	}
}

func TestSubmitProviderFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("upstream 500")}
	g := New(provider, time.Second, logger.NewNopLogger())

	_, err := g.Submit(context.Background(), "prompt")
	if !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("Submit() error = %v, want ErrGenerationFailed", err)
	}
}

func TestSubmitDiscardsResultAfterCancellation(t *testing.T) {
	provider := &stubProvider{reply: "too late", delay: 50 * time.Millisecond}
	g := New(provider, time.Second, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	got, err := g.Submit(ctx, "prompt")
	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("Submit() error = %v, want ErrInterrupted", err)
	}
	if got != "" {
		t.Errorf("Submit() leaked a post-cancellation result: %q", got)
	}
}

func TestSubmitWithAudioForwardsPayload(t *testing.T) {
	provider := &stubProvider{reply: "transcribed"}
	g := New(provider, time.Second, logger.NewNopLogger())

	audio := []byte{0x1a, 0x45, 0xdf, 0xa3}
	_, err := g.SubmitWithAudio(context.Background(), "transcribe", audio, "audio/webm")
	if err != nil {
		t.Fatalf("SubmitWithAudio() error = %v", err)
	}
	if len(provider.got) != 1 || provider.got[0].MimeType != "audio/webm" || len(provider.got[0].Audio) != 4 {
		t.Errorf("provider received %+v, want single message with audio payload", provider.got)
	}
}
