package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/msomdec/discount-pro/internal/domain"
	"github.com/msomdec/discount-pro/internal/metrics"
)

// ClientSession is the live state of one browser client.
type ClientSession struct {
	ID string
	*SessionManager
	Toasts *ToastQueue

	// Guarded by the registry mutex.
	lastSeen time.Time
	inFlight int
}

// RegistryConfig holds the settings shared by every client session.
type RegistryConfig struct {
	IdleTTL    time.Duration
	ToastLimit int
	Options    []SessionOption
}

// SessionRegistry hands out one ClientSession per client ID, restoring
// persisted state on first access. Idle sessions are dropped from memory by
// Run; their state stays in storage. A session is never dropped between Get
// and the matching Release.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*ClientSession

	users   domain.UserRepository
	storage domain.KeyValueStore
	metrics metrics.Recorder
	cfg     RegistryConfig
	now     func() time.Time
}

func NewSessionRegistry(users domain.UserRepository, storage domain.KeyValueStore, rec metrics.Recorder, cfg RegistryConfig) *SessionRegistry {
	if rec == nil {
		rec = metrics.Nop{}
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	return &SessionRegistry{
		sessions: make(map[string]*ClientSession),
		users:    users,
		storage:  storage,
		metrics:  rec,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Get returns the session for clientID, creating and restoring it if needed.
// Every successful Get must be paired with Release.
func (r *SessionRegistry) Get(ctx context.Context, clientID string) (*ClientSession, error) {
	r.mu.Lock()
	if cs, ok := r.sessions[clientID]; ok {
		r.acquire(cs)
		r.mu.Unlock()
		return cs, nil
	}
	r.mu.Unlock()

	toasts := NewToastQueue(r.cfg.ToastLimit)
	opts := append([]SessionOption{WithMetrics(r.metrics)}, r.cfg.Options...)
	opts = append(opts, WithNotifier(toasts))
	mgr := NewSessionManager(r.users, r.storage, clientID, opts...)
	if err := mgr.Restore(ctx); err != nil {
		return nil, fmt.Errorf("restore client session: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another request for the same client may have restored it first.
	if cs, ok := r.sessions[clientID]; ok {
		r.acquire(cs)
		return cs, nil
	}

	cs := &ClientSession{ID: clientID, SessionManager: mgr, Toasts: toasts}
	r.acquire(cs)
	r.sessions[clientID] = cs
	r.metrics.SetActiveSessions(len(r.sessions))
	return cs, nil
}

// Release marks the end of a request on cs. The idle clock restarts here.
func (r *SessionRegistry) Release(cs *ClientSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cs.inFlight > 0 {
		cs.inFlight--
	}
	cs.lastSeen = r.now()
}

func (r *SessionRegistry) acquire(cs *ClientSession) {
	cs.inFlight++
	cs.lastSeen = r.now()
}

// Len returns the number of sessions held in memory.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Run evicts idle sessions until ctx is cancelled.
func (r *SessionRegistry) Run(ctx context.Context) error {
	interval := r.cfg.IdleTTL / 2
	if interval > 5*time.Minute {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.evictIdle(); n > 0 {
				slog.Debug("evicted idle client sessions", "count", n)
			}
		}
	}
}

func (r *SessionRegistry) evictIdle() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.cfg.IdleTTL)
	evicted := 0
	for id, cs := range r.sessions {
		if cs.inFlight == 0 && cs.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}
	r.metrics.SetActiveSessions(len(r.sessions))
	return evicted
}
