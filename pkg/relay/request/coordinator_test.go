package request

import (
	"context"
	"testing"
)

func TestStartSupersedesPredecessor(t *testing.T) {
	c := NewCoordinator()

	_, firstCtx := c.Start(context.Background(), "sess")
	if firstCtx.Err() != nil {
		t.Fatalf("first request cancelled at birth: %v", firstCtx.Err())
	}

	secondID, secondCtx := c.Start(context.Background(), "sess")

	if firstCtx.Err() == nil {
		t.Errorf("first request still live after second Start")
	}
	if secondCtx.Err() != nil {
		t.Errorf("second request cancelled: %v", secondCtx.Err())
	}
	if got := c.ActiveCount("sess"); got != 1 {
		t.Errorf("ActiveCount = %d, want 1", got)
	}

	c.Complete("sess", secondID)
	if got := c.ActiveCount("sess"); got != 0 {
		t.Errorf("ActiveCount after Complete = %d, want 0", got)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	c := NewCoordinator()

	_, aCtx := c.Start(context.Background(), "a")
	_, bCtx := c.Start(context.Background(), "b")

	if n := c.CancelAll("a"); n != 1 {
		t.Errorf("CancelAll(a) = %d, want 1", n)
	}
	if aCtx.Err() == nil {
		t.Errorf("session a request still live after CancelAll")
	}
	if bCtx.Err() != nil {
		t.Errorf("session b request cancelled by session a's CancelAll")
	}
}

func TestCancelAllIdempotent(t *testing.T) {
	c := NewCoordinator()

	if n := c.CancelAll("nobody"); n != 0 {
		t.Errorf("CancelAll on unknown session = %d, want 0", n)
	}

	reqID, _ := c.Start(context.Background(), "sess")
	if n := c.CancelAll("sess"); n != 1 {
		t.Errorf("first CancelAll = %d, want 1", n)
	}
	if n := c.CancelAll("sess"); n != 0 {
		t.Errorf("second CancelAll = %d, want 0", n)
	}

	// Completing a request that was already cancelled must be a no-op.
	c.Complete("sess", reqID)
	if got := c.ActiveCount("sess"); got != 0 {
		t.Errorf("ActiveCount = %d, want 0", got)
	}
}

func TestParentCancellationPropagates(t *testing.T) {
	c := NewCoordinator()

	parent, cancel := context.WithCancel(context.Background())
	_, reqCtx := c.Start(parent, "sess")

	cancel()
	if reqCtx.Err() == nil {
		t.Errorf("request outlived its parent context")
	}
}
