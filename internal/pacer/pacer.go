// Package pacer throttles sequential calls to the external metadata provider.
//
// Batches are small and run unattended, so a blocking sleep between calls is
// preferred over a token bucket: a fixed delay before every call, plus a
// longer cooldown after every burst of calls, keeps the run under the
// provider's request quota without any shared state.
package pacer

import (
	"context"
	"time"
)

const (
	// DefaultDelay is the pause inserted before each provider call.
	DefaultDelay = 100 * time.Millisecond
	// DefaultCooldown is the longer pause inserted after every burst.
	DefaultCooldown = 10 * time.Second
	// DefaultBurst is the number of calls allowed between cooldowns.
	DefaultBurst = 35
)

// Pacer spaces out sequential calls. It is not safe for concurrent use; the
// ingestion pipeline is single-threaded by design.
type Pacer struct {
	delay    time.Duration
	cooldown time.Duration
	burst    int
	calls    int
	sleep    func(context.Context, time.Duration) error
}

// Option configures a Pacer.
type Option func(*Pacer)

// WithSleep overrides the sleep function, letting tests observe pauses
// without waiting for them.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(p *Pacer) {
		if sleep != nil {
			p.sleep = sleep
		}
	}
}

// New creates a Pacer. Non-positive arguments fall back to the defaults.
func New(delay, cooldown time.Duration, burst int, opts ...Option) *Pacer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	p := &Pacer{
		delay:    delay,
		cooldown: cooldown,
		burst:    burst,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Wait blocks for the configured delay, or the cooldown once the burst count
// is reached. It returns early with the context error if ctx is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	p.calls++
	pause := p.delay
	if p.calls%p.burst == 0 {
		pause = p.cooldown
	}
	return p.sleep(ctx, pause)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
