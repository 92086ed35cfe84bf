// Package logger wraps zerolog for use inside the library.
//
// The library never logs on the request-construction path; transport
// and stream components log connection lifecycle and rate-limit
// events at debug level. Consumers who want silence pass Nop().
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Config contains logging configuration.
type Config struct {
	// Level is the minimum level to emit: trace, debug, info, warn,
	// error. Defaults to info.
	Level string `json:"level"`
	// Format is "json" or "console". Defaults to json.
	Format string `json:"format"`
	// Output is "stdout" or "stderr". Defaults to stderr.
	Output string `json:"output"`
	// Timestamp adds a timestamp field to every event.
	Timestamp bool `json:"timestamp"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "json"
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("logger: invalid level %q", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logger: format must be json or console (got %q)", c.Format)
	}
	return nil
}

// Logger is a leveled, component-scoped logger.
type Logger struct {
	zl zerolog.Logger
}

// New creates a logger from config.
func New(cfg Config) (*Logger, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := zerolog.ParseLevel(cfg.Level)

	var out io.Writer = os.Stderr
	if strings.ToLower(cfg.Output) == "stdout" {
		out = os.Stdout
	}
	if strings.ToLower(cfg.Format) == "console" {
		out = zerolog.ConsoleWriter{Out: out}
	}

	zl := zerolog.New(out).Level(level)
	if cfg.Timestamp {
		zl = zl.With().Timestamp().Logger()
	}
	return &Logger{zl: zl}, nil
}

// NewDefault creates a json logger at info level.
func NewDefault() *Logger {
	l, _ := New(Config{})
	return l
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// FromZerolog wraps an existing zerolog.Logger, letting consumers
// plug the library into their own logging setup.
func FromZerolog(zl zerolog.Logger) *Logger {
	return &Logger{zl: zl}
}

// WithComponent returns a logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", name).Logger()}
}

// Debug starts a debug-level event.
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }

// Info starts an info-level event.
func (l *Logger) Info() *zerolog.Event { return l.zl.Info() }

// Warn starts a warn-level event.
func (l *Logger) Warn() *zerolog.Event { return l.zl.Warn() }

// Error starts an error-level event.
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
