package request

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Coordinator tracks in-flight generation requests per session. Starting a
// request cancels every predecessor for the same session, which enforces at
// most one live generation per session and doubles as the interruption
// mechanism. The coordinator is the sole owner of the active-request sets.
type Coordinator struct {
	mu     sync.Mutex
	active map[string]map[string]context.CancelFunc // sessionID -> requestID -> cancel
}

func NewCoordinator() *Coordinator {
	return &Coordinator{
		active: make(map[string]map[string]context.CancelFunc),
	}
}

// Start registers a new request for the session after cancelling all of its
// currently active requests. The returned context is the request's cancel
// token; callers must pass it down to the gateway and call Complete (or the
// cancel func) when done.
func (c *Coordinator) Start(ctx context.Context, sessionID string) (string, context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelAllLocked(sessionID)

	requestID := uuid.NewString()
	reqCtx, cancel := context.WithCancel(ctx)

	if c.active[sessionID] == nil {
		c.active[sessionID] = make(map[string]context.CancelFunc)
	}
	c.active[sessionID][requestID] = cancel

	return requestID, reqCtx
}

// CancelAll triggers every active cancel token for the session and clears
// its set. Idempotent; returns how many requests were cancelled.
func (c *Coordinator) CancelAll(sessionID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelAllLocked(sessionID)
}

func (c *Coordinator) cancelAllLocked(sessionID string) int {
	requests := c.active[sessionID]
	for _, cancel := range requests {
		cancel()
	}
	delete(c.active, sessionID)
	return len(requests)
}

// Complete removes a finished request from the active set. A no-op when the
// request was already cancelled or superseded.
func (c *Coordinator) Complete(sessionID, requestID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	requests, ok := c.active[sessionID]
	if !ok {
		return
	}
	if cancel, ok := requests[requestID]; ok {
		cancel() // release the context resources
		delete(requests, requestID)
	}
	if len(requests) == 0 {
		delete(c.active, sessionID)
	}
}

// ActiveCount reports how many requests are in flight for a session.
func (c *Coordinator) ActiveCount(sessionID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.active[sessionID])
}
