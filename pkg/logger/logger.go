// Package logger is the structured logger injected into services and
// workers. Middleware logs through the global zerolog logger, which serve
// points at the same sink.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
)

type Config struct {
	Level Level
	// Pretty switches to zerolog's console writer for local runs.
	Pretty bool
	Output io.Writer
}

// Logger takes alternating key/value pairs after the message, e.g.
// log.Info("idea submitted", "idea_id", id).
type Logger struct {
	zl zerolog.Logger
}

func NewLogger(cfg *Config) *Logger {
	c := Config{Level: InfoLevel}
	if cfg != nil {
		c = *cfg
	}
	out := c.Output
	if out == nil {
		out = os.Stdout
	}
	if c.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	return &Logger{zl: zerolog.New(out).Level(c.Level).With().Timestamp().Logger()}
}

// ParseLevel falls back to info for unknown names.
func ParseLevel(name string) Level {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || lvl == zerolog.NoLevel {
		return InfoLevel
	}
	return lvl
}

// Nop discards everything; used by tests.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// Zerolog exposes the underlying logger so it can be installed globally.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}

// Component tags every line with component=name.
func (l *Logger) Component(name string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", name).Logger()}
}

func (l *Logger) With(kv ...interface{}) *Logger {
	return &Logger{zl: l.zl.With().Fields(kv).Logger()}
}

func (l *Logger) Debug(msg string, kv ...interface{}) {
	l.zl.Debug().Fields(kv).Msg(msg)
}

func (l *Logger) Info(msg string, kv ...interface{}) {
	l.zl.Info().Fields(kv).Msg(msg)
}

func (l *Logger) Warn(msg string, kv ...interface{}) {
	l.zl.Warn().Fields(kv).Msg(msg)
}

func (l *Logger) Error(err error, msg string, kv ...interface{}) {
	l.zl.Error().Err(err).Fields(kv).Msg(msg)
}
