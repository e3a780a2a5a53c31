package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/caching"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/listeners"
)

// Worker periodically purges expired cache entries and sweeps idle
// listeners. The two sweeps run on independent intervals.
type Worker struct {
	cache    *caching.DocumentCache
	registry *listeners.Registry
	config   *Config
	logger   *slog.Logger
}

// NewWorker creates a cleanup worker with injected configuration
func NewWorker(cache *caching.DocumentCache, registry *listeners.Registry, config *Config, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		cache:    cache,
		registry: registry,
		config:   config,
		logger:   logger,
	}
}

// Start runs the worker until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	cacheTicker := time.NewTicker(w.config.CacheInterval)
	defer cacheTicker.Stop()

	listenerTicker := time.NewTicker(w.config.ListenerInterval)
	defer listenerTicker.Stop()

	w.logger.Info("Cleanup worker started",
		"cacheInterval", w.config.CacheInterval,
		"listenerInterval", w.config.ListenerInterval,
		"verbose", w.config.VerboseReporting)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Cleanup worker stopping")
			return
		case <-cacheTicker.C:
			w.sweepCache()
		case <-listenerTicker.C:
			w.sweepListeners()
		}
	}
}

func (w *Worker) sweepCache() {
	start := time.Now()
	removed := w.cache.Cleanup()

	if removed > 0 {
		w.logger.Info("Cache cleanup finished",
			"removed", removed, "duration", time.Since(start))
	} else if w.config.VerboseReporting {
		stats := w.cache.Stats()
		w.logger.Info("Cache cleanup completed, no expired items",
			"totalItems", stats.TotalItems,
			"memoryBytes", stats.MemoryBytes,
			"duration", time.Since(start))
	}
}

func (w *Worker) sweepListeners() {
	removed := w.registry.Sweep()

	if removed > 0 {
		w.logger.Info("Listener sweep finished", "removed", removed)
	} else if w.config.VerboseReporting {
		stats := w.registry.Stats()
		w.logger.Info("Listener sweep completed, nothing idle",
			"active", stats.ActiveCount, "totalUsage", stats.TotalUsage)
	}
}
