// Package cleanup provides the background sweep worker for the cache
// and the listener registry.
package cleanup

import (
	"time"

	"github.com/GrooveMedia/groove-menu-go/pkg/config"
)

// Config holds the worker's sweep intervals
type Config struct {
	CacheInterval    time.Duration
	ListenerInterval time.Duration
	VerboseReporting bool
}

// NewConfigFromDefaults builds worker config from environment defaults
func NewConfigFromDefaults() *Config {
	return &Config{
		CacheInterval:    config.CacheCleanupInterval,
		ListenerInterval: config.ListenerSweepInterval,
		VerboseReporting: config.CleanupVerboseReporting,
	}
}
