// Package listeners tracks live store subscriptions so idle ones can
// be reclaimed and duplicates never accumulate.
package listeners

import (
	"log/slog"
	"sync"
	"time"
)

// Options control how a handle is swept. Priority is diagnostic only,
// it shows up in logs and stats but never changes sweep behavior.
type Options struct {
	AutoCleanup bool
	Priority    string
}

type handle struct {
	key       string
	cancel    func()
	opts      Options
	createdAt time.Time
	lastUsed  time.Time
	useCount  int
}

// Registry holds at most one live subscription per key. Registering a
// key that is already present cancels the previous handle first.
type Registry struct {
	mu         sync.Mutex
	handles    map[string]*handle
	maxIdle    time.Duration
	totalUsage int
	logger     *slog.Logger

	// nowFn is swapped in tests to drive idleness
	nowFn func() time.Time
}

// Stats is a point-in-time snapshot of the registry.
type Stats struct {
	ActiveCount int           `json:"activeCount"`
	TotalUsage  int           `json:"totalUsage"`
	MostUsedKey string        `json:"mostUsedKey,omitempty"`
	OldestAge   time.Duration `json:"oldestAge"`
}

func NewRegistry(maxIdle time.Duration, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		handles: make(map[string]*handle),
		maxIdle: maxIdle,
		logger:  logger,
		nowFn:   time.Now,
	}
}

// Register stores cancel under key, cancelling any prior handle for
// the same key so a key never has two live subscriptions. The prior
// cancel runs under the lock, before the replacement becomes visible,
// so cancel funcs must not call back into the registry.
func (r *Registry) Register(key string, cancel func(), opts Options) {
	now := r.nowFn()

	r.mu.Lock()
	prior, had := r.handles[key]
	if had {
		prior.cancel()
	}
	r.handles[key] = &handle{
		key:       key,
		cancel:    cancel,
		opts:      opts,
		createdAt: now,
		lastUsed:  now,
	}
	r.mu.Unlock()

	if had {
		r.logger.Debug("Replaced listener", "key", key, "priority", opts.Priority)
	} else {
		r.logger.Debug("Registered listener", "key", key, "priority", opts.Priority)
	}
}

// Touch marks key as used. Called on every delivered payload.
func (r *Registry) Touch(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.handles[key]; ok {
		h.lastUsed = r.nowFn()
		h.useCount++
		r.totalUsage++
	}
}

// Remove cancels and drops the handle for key. Removing an absent key
// is a no-op.
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	h, ok := r.handles[key]
	if ok {
		delete(r.handles, key)
	}
	r.mu.Unlock()

	if ok {
		h.cancel()
		r.logger.Debug("Removed listener", "key", key)
	}
}

// Has reports whether a live handle exists for key.
func (r *Registry) Has(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handles[key]
	return ok
}

// Sweep removes auto-cleanup handles idle longer than the configured
// max and returns how many were removed.
func (r *Registry) Sweep() int {
	now := r.nowFn()

	r.mu.Lock()
	var stale []*handle
	for key, h := range r.handles {
		if h.opts.AutoCleanup && now.Sub(h.lastUsed) > r.maxIdle {
			delete(r.handles, key)
			stale = append(stale, h)
		}
	}
	r.mu.Unlock()

	for _, h := range stale {
		h.cancel()
		r.logger.Info("Swept idle listener",
			"key", h.key, "idle", now.Sub(h.lastUsed), "priority", h.opts.Priority)
	}
	return len(stale)
}

// ShutdownAll cancels every handle and returns how many were live.
func (r *Registry) ShutdownAll() int {
	r.mu.Lock()
	all := make([]*handle, 0, len(r.handles))
	for _, h := range r.handles {
		all = append(all, h)
	}
	r.handles = make(map[string]*handle)
	r.mu.Unlock()

	for _, h := range all {
		h.cancel()
	}
	if len(all) > 0 {
		r.logger.Info("Shut down all listeners", "count", len(all))
	}
	return len(all)
}

// Stats reports live handle counts plus cumulative usage across the
// registry's lifetime, including handles already removed.
func (r *Registry) Stats() Stats {
	now := r.nowFn()

	r.mu.Lock()
	defer r.mu.Unlock()

	stats := Stats{ActiveCount: len(r.handles), TotalUsage: r.totalUsage}
	mostUsed := -1
	for key, h := range r.handles {
		if h.useCount > mostUsed {
			mostUsed = h.useCount
			stats.MostUsedKey = key
		}
		if age := now.Sub(h.createdAt); age > stats.OldestAge {
			stats.OldestAge = age
		}
	}
	return stats
}
