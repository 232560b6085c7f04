package tasks

import (
	"time"

	"github.com/mrlokans/library-api/internal/config"
)

// Config holds configuration for the task queue.
type Config struct {
	Workers           int           // concurrent workers, default 2
	MaxRetries        int           // attempts before a task is marked failed, default 3
	RetryDelay        time.Duration // backoff between attempts, default 1m
	TaskTimeout       time.Duration // per-attempt deadline, default 5m
	ReleaseAfter      time.Duration // stuck tasks go back to the queue after this, default 15m
	CleanupInterval   time.Duration // how often finished tasks are purged, default 1h
	RetentionDuration time.Duration // how long finished tasks stay queryable, default 24h
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Workers:           2,
		MaxRetries:        3,
		RetryDelay:        time.Minute,
		TaskTimeout:       5 * time.Minute,
		ReleaseAfter:      15 * time.Minute,
		CleanupInterval:   time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}

// FromConfig fills a Config from the environment-backed settings, keeping
// defaults for any value that is not positive.
func FromConfig(cfg config.Tasks) Config {
	out := DefaultConfig()
	if cfg.Workers > 0 {
		out.Workers = cfg.Workers
	}
	if cfg.MaxRetries > 0 {
		out.MaxRetries = cfg.MaxRetries
	}
	if cfg.RetryDelay > 0 {
		out.RetryDelay = cfg.RetryDelay
	}
	if cfg.TaskTimeout > 0 {
		out.TaskTimeout = cfg.TaskTimeout
	}
	if cfg.ReleaseAfter > 0 {
		out.ReleaseAfter = cfg.ReleaseAfter
	}
	if cfg.CleanupInterval > 0 {
		out.CleanupInterval = cfg.CleanupInterval
	}
	if cfg.RetentionDuration > 0 {
		out.RetentionDuration = cfg.RetentionDuration
	}
	return out
}
