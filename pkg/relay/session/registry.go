package session

import (
	"context"
	"sync"
	"time"

	"paarth-be/internal/pkg/logger"
	"paarth-be/pkg/store"

	"github.com/google/uuid"
)

// Registry owns every live session. No other component mutates session
// records; collaborators receive the hooks they need instead of reaching in.
type Registry struct {
	idleTimeout time.Duration
	onDestroy   func(sessionID string)
	logger      logger.ILogger

	mu       sync.RWMutex
	sessions map[string]*store.Session
}

// NewRegistry builds a registry. onDestroy runs for every destroyed session
// before it disappears from the map (the relay uses it to cancel in-flight
// generation requests).
func NewRegistry(idleTimeout time.Duration, onDestroy func(sessionID string), log logger.ILogger) *Registry {
	if onDestroy == nil {
		onDestroy = func(string) {}
	}
	return &Registry{
		idleTimeout: idleTimeout,
		onDestroy:   onDestroy,
		logger:      log,
		sessions:    make(map[string]*store.Session),
	}
}

// Create registers a fresh session bound to the given transport.
func (r *Registry) Create(transport store.Transport) *store.Session {
	s := store.NewSession(uuid.NewString(), transport, time.Now())

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.logger.Info("SessionRegistry", "Session created", map[string]interface{}{"session_id": s.ID})
	return s
}

func (r *Registry) Get(sessionID string) (*store.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sessionID]
	return s, ok
}

// Touch refreshes the session's activity clock.
func (r *Registry) Touch(sessionID string) {
	r.mu.RLock()
	s, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if ok {
		s.Touch(time.Now())
	}
}

// Destroy removes the session after running the destroy hook. Returns false
// when the session was already gone. The transport is not closed here;
// sweep and ping close it when they are the ones tearing the session down.
func (r *Registry) Destroy(sessionID string) bool {
	r.mu.Lock()
	s, ok := r.sessions[sessionID]
	if ok {
		delete(r.sessions, sessionID)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}

	r.onDestroy(sessionID)
	r.logger.Info("SessionRegistry", "Session destroyed", map[string]interface{}{
		"session_id": sessionID,
		"turns":      s.TurnCount(),
		"duration_s": int(time.Since(s.CreatedAt).Seconds()),
	})
	return true
}

// Sweep destroys every session idle longer than the threshold and closes its
// transport. Returns the destroyed session ids.
func (r *Registry) Sweep() []string {
	cutoff := time.Now().Add(-r.idleTimeout)

	r.mu.RLock()
	var stale []*store.Session
	for _, s := range r.sessions {
		if s.LastActivity().Before(cutoff) {
			stale = append(stale, s)
		}
	}
	r.mu.RUnlock()

	destroyed := make([]string, 0, len(stale))
	for _, s := range stale {
		if r.Destroy(s.ID) {
			s.Transport.Close()
			destroyed = append(destroyed, s.ID)
		}
	}

	if len(destroyed) > 0 {
		r.logger.Info("SessionRegistry", "Idle sweep", map[string]interface{}{"destroyed": len(destroyed)})
	}
	return destroyed
}

// ProbeAll pings every session's transport; unreachable sessions are
// destroyed immediately.
func (r *Registry) ProbeAll() {
	r.mu.RLock()
	all := make([]*store.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.mu.RUnlock()

	for _, s := range all {
		if err := s.Transport.Ping(); err != nil {
			r.logger.Warn("SessionRegistry", "Liveness probe failed, destroying session", map[string]interface{}{
				"session_id": s.ID,
				"error":      err.Error(),
			})
			if r.Destroy(s.ID) {
				s.Transport.Close()
			}
		}
	}
}

// Run drives the periodic idle sweep and liveness probe until ctx ends.
func (r *Registry) Run(ctx context.Context, sweepEvery, probeEvery time.Duration) {
	sweep := time.NewTicker(sweepEvery)
	probe := time.NewTicker(probeEvery)
	defer sweep.Stop()
	defer probe.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sweep.C:
			r.Sweep()
		case <-probe.C:
			r.ProbeAll()
		}
	}
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Snapshot returns the live sessions for the analytics endpoints.
func (r *Registry) Snapshot() []*store.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*store.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}
