// File: internal/humanoid/humanoid_test.go
package humanoid

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/surveyfill-cli/internal/config"
)

func testCadence() *Cadence {
	return New(config.TypingConfig{
		CharsPerSecond: 10,
		JitterFraction: 0.3,
		KeyHoldMs:      40,
	})
}

func TestKeyDelayStaysWithinJitterBand(t *testing.T) {
	c := testCadence()
	mean := 100 * time.Millisecond

	for i := 0; i < 500; i++ {
		d := c.KeyDelay()
		assert.GreaterOrEqual(t, d, time.Duration(float64(mean)*0.69))
		assert.LessOrEqual(t, d, time.Duration(float64(mean)*1.31))
	}
}

func TestKeyHoldIsPositive(t *testing.T) {
	c := testCadence()
	for i := 0; i < 100; i++ {
		assert.Greater(t, c.KeyHold(), time.Duration(0))
	}
}

func TestThinkPauseIsOccasional(t *testing.T) {
	c := testCadence()
	pauses := 0
	for i := 0; i < 1200; i++ {
		if c.ThinkPause() > 0 {
			pauses++
		}
	}
	// Expected rate is 1 in 12; allow a wide band.
	assert.Greater(t, pauses, 20)
	assert.Less(t, pauses, 400)
}

func TestSleepHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Sleep(ctx, time.Hour)
	require.ErrorIs(t, err, context.Canceled)

	require.NoError(t, Sleep(context.Background(), time.Millisecond))
	require.NoError(t, Sleep(context.Background(), 0))
}
