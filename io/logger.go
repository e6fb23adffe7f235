package satchelio

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

// LogLevel orders log severity.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelSuccess
	LevelWarning
	LevelError
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelSuccess:
		return "OK"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger writes leveled, optionally colored messages through an
// IOManager. Warnings and errors go to the error stream.
type Logger struct {
	io         *IOManager
	minLevel   LogLevel
	timestamp  bool
	timeFormat string
	colors     map[LogLevel]*color.Color
}

// NewLogger creates a logger over the given IOManager.
func NewLogger(m *IOManager) *Logger {
	l := &Logger{
		io:         m,
		minLevel:   LevelInfo,
		timeFormat: "15:04:05",
		colors: map[LogLevel]*color.Color{
			LevelDebug:   color.New(color.Faint),
			LevelInfo:    color.New(color.FgCyan),
			LevelSuccess: color.New(color.FgGreen),
			LevelWarning: color.New(color.FgYellow),
			LevelError:   color.New(color.FgRed, color.Bold),
		},
	}
	return l
}

// WithMinLevel drops messages below level.
func (l *Logger) WithMinLevel(level LogLevel) *Logger {
	l.minLevel = level
	return l
}

// WithTimestamp prefixes messages with the time.
func (l *Logger) WithTimestamp(enabled bool) *Logger {
	l.timestamp = enabled
	return l
}

// WithTimeFormat sets the timestamp layout.
func (l *Logger) WithTimeFormat(format string) *Logger {
	l.timeFormat = format
	return l
}

// Log writes one message at the given level.
func (l *Logger) Log(level LogLevel, format string, args ...any) {
	if level < l.minLevel {
		return
	}
	w := l.writer(level)

	prefix := "[" + level.String() + "]"
	if c := l.colors[level]; c != nil && l.io.SupportsColor() {
		c.EnableColor()
		prefix = c.Sprint(prefix)
	}

	msg := fmt.Sprintf(format, args...)
	if l.timestamp {
		fmt.Fprintf(w, "%s %s %s\n", time.Now().Format(l.timeFormat), prefix, msg)
		return
	}
	fmt.Fprintf(w, "%s %s\n", prefix, msg)
}

func (l *Logger) writer(level LogLevel) io.Writer {
	if level >= LevelWarning {
		return l.io.Err()
	}
	return l.io.Out()
}

func (l *Logger) Debug(format string, args ...any)   { l.Log(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...any)    { l.Log(LevelInfo, format, args...) }
func (l *Logger) Success(format string, args ...any) { l.Log(LevelSuccess, format, args...) }
func (l *Logger) Warning(format string, args ...any) { l.Log(LevelWarning, format, args...) }
func (l *Logger) Error(format string, args ...any)   { l.Log(LevelError, format, args...) }
