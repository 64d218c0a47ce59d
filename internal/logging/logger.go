// Package logging provides the zerolog console logger shared by the GUI and CLI.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const timeFormat = "15:04:05"

// Mode selects where log output goes.
type Mode string

const (
	ModeCLI Mode = "cli"
	ModeGUI Mode = "gui"
)

// Logger wraps zerolog with mode-specific output.
type Logger struct {
	zlog zerolog.Logger
	mode Mode
}

// New creates a logger for the given mode. Both modes log to stderr so
// stdout carries only command results; GUI output is uncolored.
func New(mode Mode) *Logger {
	return NewWithWriter(mode, os.Stderr)
}

// NewWithWriter creates a logger writing console-formatted lines to w.
func NewWithWriter(mode Mode, w io.Writer) *Logger {
	return &Logger{
		zlog: zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: timeFormat, NoColor: mode == ModeGUI}).
			With().
			Timestamp().
			Logger(),
		mode: mode,
	}
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

func (l *Logger) Info() *zerolog.Event  { return l.zlog.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zlog.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zlog.Error() }
func (l *Logger) Debug() *zerolog.Event { return l.zlog.Debug() }

// With creates a child context.
func (l *Logger) With() zerolog.Context {
	return l.zlog.With()
}

// Infof logs an info message with printf-style formatting.
func (l *Logger) Infof(format string, args ...any) {
	l.zlog.Info().Msgf(format, args...)
}

// Warnf logs a warning with printf-style formatting.
func (l *Logger) Warnf(format string, args ...any) {
	l.zlog.Warn().Msgf(format, args...)
}

// Errorf logs an error message with printf-style formatting.
func (l *Logger) Errorf(format string, args ...any) {
	l.zlog.Error().Msgf(format, args...)
}

// Debugf logs a debug message, shown only with --verbose.
func (l *Logger) Debugf(format string, args ...any) {
	l.zlog.Debug().Msgf(format, args...)
}

// SetVerbose toggles debug output process-wide.
func SetVerbose(on bool) {
	if on {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
