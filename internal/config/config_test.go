// File: internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfigValidates(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 140*time.Millisecond, cfg.Network.PollInterval)
	assert.Equal(t, 16*time.Second, cfg.Network.AdvanceTimeout)
	assert.Equal(t, 100, cfg.Run.MaxTransitions)
	assert.Equal(t, 3, cfg.Run.StuckThreshold)
	assert.True(t, cfg.Browser.Headless)
}

func TestValidateRejectsBadValues(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero cps", func(c *Config) { c.Typing.CharsPerSecond = 0 }},
		{"jitter too high", func(c *Config) { c.Typing.JitterFraction = 1 }},
		{"negative jitter", func(c *Config) { c.Typing.JitterFraction = -0.1 }},
		{"zero parallelism", func(c *Config) { c.Run.Parallelism = 0 }},
		{"zero ceiling", func(c *Config) { c.Run.MaxTransitions = 0 }},
		{"zero stuck threshold", func(c *Config) { c.Run.StuckThreshold = 0 }},
		{"zero poll interval", func(c *Config) { c.Network.PollInterval = 0 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadOverlaysViperState(t *testing.T) {
	v := viper.New()
	v.Set("typing.chars_per_second", 20.0)
	v.Set("run.max_transitions", 50)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 20.0, cfg.Typing.CharsPerSecond)
	assert.Equal(t, 50, cfg.Run.MaxTransitions)
	// Untouched keys keep defaults.
	assert.Equal(t, 3, cfg.Run.StuckThreshold)
}

func TestLoadRejectsInvalidState(t *testing.T) {
	v := viper.New()
	v.Set("run.parallelism", 0)

	_, err := Load(v)
	assert.Error(t, err)
}
