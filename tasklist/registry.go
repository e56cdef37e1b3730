package tasklist

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"taskmanager/session"
	"taskmanager/store"
)

const (
	DefaultIdleTTL  = 30 * time.Minute
	DefaultMaxUsers = 10000
)

type RegistryOption func(*Registry)

// WithIdleTTL drops a user's controller once it has not been used for d.
// Zero disables idle eviction.
func WithIdleTTL(d time.Duration) RegistryOption {
	return func(r *Registry) { r.idleTTL = d }
}

// WithMaxUsers caps how many controllers are kept. Past the cap the least
// recently used idle one is dropped. Zero means no cap.
func WithMaxUsers(n int) RegistryOption {
	return func(r *Registry) { r.maxUsers = n }
}

type entry struct {
	controller *Controller
	lastUsed   time.Time
}

// Registry hands out one Controller per user, so each user keeps the last
// good list between requests. Evicted users get a fresh controller, which
// reloads from the store on first use.
type Registry struct {
	store  store.TaskStore
	logger *zap.Logger

	idleTTL  time.Duration
	maxUsers int
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

func NewRegistry(s store.TaskStore, logger *zap.Logger, opts ...RegistryOption) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		store:    s,
		logger:   logger,
		idleTTL:  DefaultIdleTTL,
		maxUsers: DefaultMaxUsers,
		now:      time.Now,
		entries:  map[string]*entry{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) For(userID string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	e, ok := r.entries[userID]
	if ok && r.expired(e, now) {
		delete(r.entries, userID)
		ok = false
	}
	if !ok {
		if r.maxUsers > 0 && len(r.entries) >= r.maxUsers {
			r.evictOldest()
		}
		e = &entry{controller: NewController(session.Static(userID), r.store, r.logger)}
		r.entries[userID] = e
	}
	e.lastUsed = now
	return e.controller
}

func (r *Registry) Forget(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, userID)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep drops every idle controller and reports how many went.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var n int
	for uid, e := range r.entries {
		if r.expired(e, now) {
			delete(r.entries, uid)
			n++
		}
	}
	if n > 0 {
		r.logger.Debug("evicted idle task lists", zap.Int("evicted", n), zap.Int("remaining", len(r.entries)))
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// expired never reports a controller with a mutation in flight.
func (r *Registry) expired(e *entry, now time.Time) bool {
	return r.idleTTL > 0 && now.Sub(e.lastUsed) >= r.idleTTL && !e.controller.busy.Load()
}

func (r *Registry) evictOldest() {
	var (
		oldestID string
		oldest   *entry
	)
	for uid, e := range r.entries {
		if e.controller.busy.Load() {
			continue
		}
		if oldest == nil || e.lastUsed.Before(oldest.lastUsed) {
			oldestID, oldest = uid, e
		}
	}
	if oldest != nil {
		delete(r.entries, oldestID)
	}
}
