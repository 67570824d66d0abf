// Package config holds termbridge's configuration.
//
// Settings are resolved in order of increasing precedence:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML configuration file
//  3. TERMBRIDGE_* environment variables
//
// Command-line flags are applied on top by the caller.
package config

import (
	"strings"

	"github.com/dshills/termbridge/internal/logging"
	"github.com/dshills/termbridge/internal/terminal/encoding"
)

// Backend names accepted by TerminalConfig.Backend.
const (
	BackendAuto    = "auto"
	BackendConsole = "console"
	BackendTTY     = "tty"
	BackendNull    = "null"
)

// EncodingAuto lets the terminal pick the richest supported encoding.
const EncodingAuto = "auto"

// Config is the complete termbridge configuration.
//
// Environment names derive from field names under EnvPrefix, e.g.
// TERMBRIDGE_TERMINAL_FALLBACK_WIDTH. Fields must not carry envconfig tags:
// envconfig would also read the tag value as an unprefixed name.
type Config struct {
	Log      LogConfig      `toml:"log" yaml:"log"`
	Terminal TerminalConfig `toml:"terminal" yaml:"terminal"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level       string `toml:"level" yaml:"level"`
	Development bool   `toml:"development" yaml:"development"`
}

// TerminalConfig configures the console session and encoding selection.
type TerminalConfig struct {
	// Backend is one of auto, console, tty or null.
	Backend string `toml:"backend" yaml:"backend"`
	// Encoding is "auto" or an encoding name accepted by encoding.Parse.
	Encoding string `toml:"encoding" yaml:"encoding"`
	// Force applies Encoding even when support was not detected.
	Force bool `toml:"force" yaml:"force"`
	// FallbackWidth is used when neither the terminal nor $COLUMNS report a width.
	FallbackWidth int `toml:"fallback_width" yaml:"fallback_width" split_words:"true"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Terminal: TerminalConfig{
			Backend:       BackendAuto,
			Encoding:      EncodingAuto,
			FallbackWidth: 80,
		},
	}
}

// Validate checks every setting and returns the first problem found.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return &ValidationError{Field: "log.level", Value: c.Log.Level, Message: "must be debug, info, warn or error", Err: err}
	}

	switch strings.ToLower(c.Terminal.Backend) {
	case BackendAuto, BackendConsole, BackendTTY, BackendNull:
	default:
		return &ValidationError{Field: "terminal.backend", Value: c.Terminal.Backend, Message: "must be auto, console, tty or null"}
	}

	if _, _, err := c.Terminal.RequestedEncoding(); err != nil {
		return &ValidationError{Field: "terminal.encoding", Value: c.Terminal.Encoding, Message: "must be auto or a known encoding", Err: err}
	}

	if c.Terminal.FallbackWidth <= 0 {
		return &ValidationError{Field: "terminal.fallback_width", Value: c.Terminal.FallbackWidth, Message: "must be positive"}
	}
	return nil
}

// Logging returns the logger configuration.
func (c *Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Development = c.Log.Development
	return cfg
}

// RequestedEncoding returns the configured encoding. ok is false when the
// encoding is "auto" (or empty) and should be chosen by detection.
func (t TerminalConfig) RequestedEncoding() (enc encoding.Encoding, ok bool, err error) {
	if t.Encoding == "" || strings.EqualFold(t.Encoding, EncodingAuto) {
		return encoding.None, false, nil
	}
	enc, err = encoding.Parse(t.Encoding)
	if err != nil {
		return encoding.None, false, err
	}
	return enc, true, nil
}
