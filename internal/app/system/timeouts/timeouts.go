// Package timeouts holds the deadlines put on database and storage calls.
// Handlers read them at call time; bootstrap overrides them from config.
package timeouts

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Config is one set of deadlines.
type Config struct {
	Ping   time.Duration // health checks
	Short  time.Duration // single document reads and writes, settings
	Medium time.Duration // listings with counts, bulk deletes
	Upload time.Duration // media writes to local disk or S3
}

// Defaults returns the built-in deadlines.
func Defaults() Config {
	return Config{
		Ping:   2 * time.Second,
		Short:  5 * time.Second,
		Medium: 10 * time.Second,
		Upload: 60 * time.Second,
	}
}

var current atomic.Pointer[Config]

func init() { Reset() }

func load() Config { return *current.Load() }

func Ping() time.Duration   { return load().Ping }
func Short() time.Duration  { return load().Short }
func Medium() time.Duration { return load().Medium }
func Upload() time.Duration { return load().Upload }

// Configure replaces the deadlines that are set in cfg and keeps the rest.
func Configure(cfg Config) {
	next := load()
	for _, o := range []struct {
		dst *time.Duration
		v   time.Duration
	}{
		{&next.Ping, cfg.Ping},
		{&next.Short, cfg.Short},
		{&next.Medium, cfg.Medium},
		{&next.Upload, cfg.Upload},
	} {
		if o.v > 0 {
			*o.dst = o.v
		}
	}
	current.Store(&next)
}

// Reset restores Defaults.
func Reset() {
	d := Defaults()
	current.Store(&d)
}

// WithTimeout is context.WithTimeout whose cancel func logs a warning
// naming operation when the deadline was hit.
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if log != nil && ctx.Err() == context.DeadlineExceeded {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
