// File: internal/humanoid/humanoid.go

// Package humanoid models human typing cadence. It produces only durations;
// the browser layer turns them into key events. Keeping the model free of
// CDP types lets the timing distribution be tested directly.
package humanoid

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/xkilldash9x/surveyfill-cli/internal/config"
)

// Cadence generates jittered inter-key and dwell delays around a mean typing
// speed. Safe for concurrent use.
type Cadence struct {
	mu     sync.Mutex
	rng    *rand.Rand
	mean   time.Duration
	jitter float64
	hold   time.Duration
}

// New builds a Cadence from typing configuration. The mean inter-key delay
// is 1000/CharsPerSecond milliseconds.
func New(cfg config.TypingConfig) *Cadence {
	return &Cadence{
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		mean:   time.Duration(float64(time.Second) / cfg.CharsPerSecond),
		jitter: cfg.JitterFraction,
		hold:   time.Duration(cfg.KeyHoldMs * float64(time.Millisecond)),
	}
}

// jittered spreads d uniformly within ±(jitter * d), never below a quarter
// of the mean so runs of near-zero delays cannot collapse into a burst.
func (c *Cadence) jittered(d time.Duration) time.Duration {
	c.mu.Lock()
	f := 1 + c.jitter*(2*c.rng.Float64()-1)
	c.mu.Unlock()

	out := time.Duration(float64(d) * f)
	if min := d / 4; out < min {
		out = min
	}
	return out
}

// KeyDelay returns the pause before the next keystroke.
func (c *Cadence) KeyDelay() time.Duration {
	return c.jittered(c.mean)
}

// KeyHold returns how long the next key stays down.
func (c *Cadence) KeyHold() time.Duration {
	return c.jittered(c.hold)
}

// ThinkPause returns an occasional longer pause, as if re-reading the
// question. Roughly one keystroke in twelve gets one; the rest get zero.
func (c *Cadence) ThinkPause() time.Duration {
	c.mu.Lock()
	roll := c.rng.Intn(12)
	f := c.rng.Float64()
	c.mu.Unlock()

	if roll != 0 {
		return 0
	}
	return time.Duration(float64(3*c.mean) * (1 + f))
}

// Sleep pauses for d or until the context is cancelled.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
