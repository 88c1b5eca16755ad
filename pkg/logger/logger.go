// Package logger builds the zerolog instances shared by the paydesk gateway
// and its background jobs. Every logger carries a service field so gateway
// and console output can be told apart in aggregated logs, and subsystems
// derive component-tagged children from the root logger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration.
type Config struct {
	Level   string    // debug, info, warn, error; anything else falls back to info
	Pretty  bool      // human-readable console output for local development
	Service string    // service field stamped on every line, defaults to "paydesk"
	Output  io.Writer // destination, defaults to stdout
}

// New creates the root logger. The level is scoped to the returned instance
// rather than the zerolog global, so the gateway and an embedded console can
// log at different levels in one process.
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "15:04:05",
		}
	}

	service := cfg.Service
	if service == "" {
		service = "paydesk"
	}

	zerolog.TimeFieldFormat = time.RFC3339

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

// Component derives a child logger tagged for one subsystem.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
