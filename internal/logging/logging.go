// Package logging wraps a *logrus.Logger with the subject-tagged
// Debugf/Infof/Errorf surface used throughout this daemon, in the
// style of the teacher's fs.Logf/Infof/Errorf family (see
// fs/log_test.go) — built on logrus itself, since the teacher's
// go.mod carries it as a direct dependency.
package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Level is a log severity, ordered low (verbose) to high (quiet).
type Level int

// Levels, lowest to highest severity.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) logrusLevel() logrus.Level {
	switch l {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// ParseLevel parses the --log-level flag value, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "ERROR":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger writes level-gated, subject-tagged lines via logrus. A nil
// *Logger is valid and discards everything, so subsystems can be
// constructed without one in tests.
type Logger struct {
	base *logrus.Logger
}

// New builds a Logger at the given minimum level, writing to stderr
// with ANSI coloring when stderr is a terminal (mirrors the teacher's
// CLI-friendly output convention, gated by go-isatty/go-colorable).
func New(level Level) *Logger {
	isTerm := isatty.IsTerminal(os.Stderr.Fd())

	base := logrus.New()
	base.SetLevel(level.logrusLevel())
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05",
		DisableColors:   !isTerm,
		ForceColors:     isTerm,
	})
	if isTerm {
		base.SetOutput(colorable.NewColorableStderr())
	} else {
		base.SetOutput(os.Stderr)
	}
	return &Logger{base: base}
}

func (l *Logger) entry(subject string) *logrus.Entry {
	return l.base.WithField("subject", subject)
}

// Debugf logs a low-severity diagnostic line.
func (l *Logger) Debugf(subject, format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.entry(subject).Debugf(format, args...)
}

// Infof logs a routine operational line.
func (l *Logger) Infof(subject, format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.entry(subject).Infof(format, args...)
}

// Errorf logs a recoverable error a long-lived task caught and continued past.
func (l *Logger) Errorf(subject, format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.entry(subject).Errorf(format, args...)
}
