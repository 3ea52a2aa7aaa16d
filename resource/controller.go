// Package resource throttles segment transfers.
//
// Metadata transitions in the cache are cheap and serialized elsewhere; the
// expensive part is pulling segment bytes from the remote store. The
// Controller bounds how many transfers run at once and how many bytes per
// second they may write, so cache fills do not starve query traffic of disk
// and network bandwidth.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds transfer limits.
type Config struct {
	// MaxConcurrentPulls is the maximum number of segment transfers running
	// at once. If 0, defaults to 4.
	MaxConcurrentPulls int64

	// PullBytesPerSec is the maximum write throughput of transfers.
	// If 0, unlimited.
	PullBytesPerSec int64
}

// Controller manages transfer concurrency and throughput.
type Controller struct {
	cfg Config

	pullSem  *semaphore.Weighted
	inFlight atomic.Int64

	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentPulls <= 0 {
		cfg.MaxConcurrentPulls = 4
	}

	c := &Controller{
		cfg:     cfg,
		pullSem: semaphore.NewWeighted(cfg.MaxConcurrentPulls),
	}

	if cfg.PullBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.PullBytesPerSec), int(cfg.PullBytesPerSec))
	}

	return c
}

// AcquirePull reserves a transfer slot, blocking until one is available or
// ctx is canceled. A nil Controller imposes no limits.
func (c *Controller) AcquirePull(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.pullSem.Acquire(ctx, 1); err != nil {
		return err
	}
	c.inFlight.Add(1)
	return nil
}

// ReleasePull releases a transfer slot.
func (c *Controller) ReleasePull() {
	if c == nil {
		return
	}
	c.inFlight.Add(-1)
	c.pullSem.Release(1)
}

// InFlight returns the number of transfers currently holding a slot.
func (c *Controller) InFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inFlight.Load()
}

// AcquireIO waits until the throughput limit allows the specified number of bytes.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	return c.ioLimiter.WaitN(ctx, bytes)
}
