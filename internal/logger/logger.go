// file: internal/logger/logger.go
// version: 1.0.0
// guid: 2d8f6a13-4c7b-4e95-a0d2-9b3e1f5c7a64

package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger aliases zerolog.Logger so packages depend on one logging contract.
type Logger = zerolog.Logger

// Options controls how New builds the root logger.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // "console" or "json"
	Out    io.Writer
}

// New constructs the root logger for the process.
func New(opts Options) Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(opts.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() Logger {
	return zerolog.Nop()
}

// MaskSecret returns a masked version of a secret for display and logs.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) < 8 {
		return "****"
	}
	return secret[:3] + "****" + secret[len(secret)-4:]
}
