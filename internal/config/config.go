// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Network NetworkConfig `mapstructure:"network" yaml:"network"`
	Typing  TypingConfig  `mapstructure:"typing" yaml:"typing"`
	Run     RunConfig     `mapstructure:"run" yaml:"run"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig holds settings for the headless browser instance.
type BrowserConfig struct {
	Headless       bool     `mapstructure:"headless" yaml:"headless"`
	Args           []string `mapstructure:"args" yaml:"args"`
	ViewportWidth  int      `mapstructure:"viewport_width" yaml:"viewport_width"`
	ViewportHeight int      `mapstructure:"viewport_height" yaml:"viewport_height"`
	Debug          bool     `mapstructure:"debug" yaml:"debug"`
}

// NetworkConfig tunes the timing of navigation and rendering waits.
type NetworkConfig struct {
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	ElementTimeout    time.Duration `mapstructure:"element_timeout" yaml:"element_timeout"`
	MenuTimeout       time.Duration `mapstructure:"menu_timeout" yaml:"menu_timeout"`
	OverlayTimeout    time.Duration `mapstructure:"overlay_timeout" yaml:"overlay_timeout"`
	AdvanceTimeout    time.Duration `mapstructure:"advance_timeout" yaml:"advance_timeout"`
	PollInterval      time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	SettleWait        time.Duration `mapstructure:"settle_wait" yaml:"settle_wait"`
}

// TypingConfig shapes the keystroke cadence used for text entry.
type TypingConfig struct {
	// CharsPerSecond sets the mean typing speed. The per-character delay is
	// jittered around 1000/CharsPerSecond milliseconds.
	CharsPerSecond float64 `mapstructure:"chars_per_second" yaml:"chars_per_second"`
	// JitterFraction is the spread applied to each inter-key delay (0..1).
	JitterFraction float64 `mapstructure:"jitter_fraction" yaml:"jitter_fraction"`
	// KeyHoldMs is the mean key dwell time in milliseconds.
	KeyHoldMs float64 `mapstructure:"key_hold_ms" yaml:"key_hold_ms"`
}

// RunConfig holds settings populated from CLI flags for a specific run.
// Row indices are 0-based; RowEnd is inclusive.
type RunConfig struct {
	CSVPath     string `mapstructure:"csv_path" yaml:"csv_path"`
	MappingPath string `mapstructure:"mapping_path" yaml:"mapping_path"`
	StartURL    string `mapstructure:"start_url" yaml:"start_url"`
	RowIndex    int    `mapstructure:"row_index" yaml:"row_index"`
	RowStart    int    `mapstructure:"row_start" yaml:"row_start"`
	RowEnd      int    `mapstructure:"row_end" yaml:"row_end"`
	AllRows     bool   `mapstructure:"all_rows" yaml:"all_rows"`
	// Parallelism bounds how many rows may drive their own browser session
	// at once. The default of 1 preserves strictly sequential rows.
	Parallelism int `mapstructure:"parallelism" yaml:"parallelism"`
	// MaxTransitions is the hard ceiling on page advances per row.
	MaxTransitions int `mapstructure:"max_transitions" yaml:"max_transitions"`
	// StuckThreshold is how many consecutive unchanged advances abort a row.
	StuckThreshold int `mapstructure:"stuck_threshold" yaml:"stuck_threshold"`
	// AutoAdvance clicks the forward control on pages where no mapped
	// question is visible (gate and interstitial pages).
	AutoAdvance bool `mapstructure:"auto_advance" yaml:"auto_advance"`
}

// NewDefaultConfig returns a Config populated with production defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: LoggerConfig{
			Level:       "info",
			Format:      "console",
			ServiceName: "surveyfill-cli",
			MaxSize:     20,
			MaxBackups:  3,
			MaxAge:      14,
			Colors: ColorConfig{
				Debug: "cyan",
				Info:  "green",
				Warn:  "yellow",
				Error: "red",
				Fatal: "magenta",
			},
		},
		Browser: BrowserConfig{
			Headless:       true,
			ViewportWidth:  1360,
			ViewportHeight: 900,
		},
		Network: NetworkConfig{
			NavigationTimeout: 30 * time.Second,
			ElementTimeout:    5 * time.Second,
			MenuTimeout:       3 * time.Second,
			OverlayTimeout:    3500 * time.Millisecond,
			AdvanceTimeout:    16 * time.Second,
			PollInterval:      140 * time.Millisecond,
			SettleWait:        500 * time.Millisecond,
		},
		Typing: TypingConfig{
			CharsPerSecond: 12,
			JitterFraction: 0.3,
			KeyHoldMs:      35,
		},
		Run: RunConfig{
			RowIndex:       0,
			RowStart:       -1,
			RowEnd:         -1,
			Parallelism:    1,
			MaxTransitions: 100,
			StuckThreshold: 3,
			AutoAdvance:    true,
		},
	}
}

// Load unmarshals the fully merged viper state (file, env, bound flags)
// on top of the defaults.
func Load(v *viper.Viper) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that would make a run
// meaningless. Validation failures are configuration defects and abort the
// run; they are never recovered at row scope.
func (c *Config) Validate() error {
	if c.Typing.CharsPerSecond <= 0 {
		return fmt.Errorf("typing.chars_per_second must be positive, got %v", c.Typing.CharsPerSecond)
	}
	if c.Typing.JitterFraction < 0 || c.Typing.JitterFraction >= 1 {
		return fmt.Errorf("typing.jitter_fraction must be in [0,1), got %v", c.Typing.JitterFraction)
	}
	if c.Run.Parallelism < 1 {
		return fmt.Errorf("run.parallelism must be a positive integer, got %d", c.Run.Parallelism)
	}
	if c.Run.MaxTransitions < 1 {
		return fmt.Errorf("run.max_transitions must be a positive integer, got %d", c.Run.MaxTransitions)
	}
	if c.Run.StuckThreshold < 1 {
		return fmt.Errorf("run.stuck_threshold must be a positive integer, got %d", c.Run.StuckThreshold)
	}
	if c.Network.PollInterval <= 0 {
		return fmt.Errorf("network.poll_interval must be positive, got %v", c.Network.PollInterval)
	}
	return nil
}
