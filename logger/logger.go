// Package logger provides a leveled logger on top of the standard log
// package.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/kndndrj/rowconv/core"
)

var _ core.Logger = (*Logger)(nil)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return ""
	}
}

// LevelFromString parses a level name, defaulting to info for an empty
// string.
func LevelFromString(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

type Logger struct {
	logger *log.Logger
	level  Level
	file   *os.File
}

// New creates a logger writing messages at or above level to w.
func New(w io.Writer, level Level, prefix string) *Logger {
	if prefix != "" {
		prefix += " "
	}

	return &Logger{
		logger: log.New(w, prefix, log.Ldate|log.Ltime|log.Lmsgprefix),
		level:  level,
	}
}

// NewFile creates a logger appending to the named file.
func NewFile(name string, level Level, prefix string) (*Logger, error) {
	file, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o666)
	if err != nil {
		return nil, err
	}

	l := New(file, level, prefix)
	l.file = file
	return l, nil
}

func (l *Logger) Close() {
	if l.file != nil {
		l.file.Close()
	}
}

func (l *Logger) log(level Level, message string) {
	if level < l.level {
		return
	}
	l.logger.Printf("[%s]: %s", level, message)
}

func (l *Logger) Debugf(format string, args ...any) {
	l.log(LevelDebug, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...any) {
	l.log(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...any) {
	l.log(LevelWarn, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.log(LevelError, fmt.Sprintf(format, args...))
}
