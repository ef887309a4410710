package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Config is the root configuration.
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Timer   TimerConfig   `toml:"timer" yaml:"timer"`
	UI      UIConfig      `toml:"ui" yaml:"ui"`
	Keys    KeysConfig    `toml:"keys" yaml:"keys"`
}

// GeneralConfig holds logging settings.
type GeneralConfig struct {
	LogLevel string `toml:"log_level" yaml:"log_level"`
	LogFile  string `toml:"log_file" yaml:"log_file"`
}

// TimerConfig holds the countdown length. Reset always restores the fixed
// session length regardless of Minutes.
type TimerConfig struct {
	Minutes int `toml:"minutes" yaml:"minutes"`
}

// UIConfig controls the terminal view.
type UIConfig struct {
	Theme          string   `toml:"theme" yaml:"theme"`
	// ThemeFile loads a custom theme from TOML and selects it.
	ThemeFile      string   `toml:"theme_file" yaml:"theme_file"`
	RenderInterval Duration `toml:"render_interval" yaml:"render_interval"`
	ShowHelp       bool     `toml:"show_help" yaml:"show_help"`
	ShowProgress   bool     `toml:"show_progress" yaml:"show_progress"`
	Mouse          bool     `toml:"mouse" yaml:"mouse"`
}

// KeysConfig rebinds commands. Empty lists keep the defaults.
type KeysConfig struct {
	Toggle []string `toml:"toggle" yaml:"toggle"`
	Reset  []string `toml:"reset" yaml:"reset"`
	Quit   []string `toml:"quit" yaml:"quit"`
}

// maxMinutes caps the countdown at one day.
const maxMinutes = 24 * 60

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Timer.Minutes <= 0 || c.Timer.Minutes > maxMinutes {
		return fmt.Errorf("timer.minutes must be between 1 and %d, got %d", maxMinutes, c.Timer.Minutes)
	}
	if c.UI.RenderInterval.Duration < 10*time.Millisecond {
		return fmt.Errorf("ui.render_interval must be at least 10ms, got %s", c.UI.RenderInterval.Duration)
	}
	if _, err := parseLevel(c.General.LogLevel); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns the configured log level, defaulting to Info.
func (c *Config) SlogLevel() slog.Level {
	lvl, err := parseLevel(c.General.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("general.log_level %q not one of debug, info, warn, error", s)
}
