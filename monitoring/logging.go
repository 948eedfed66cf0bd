package monitoring

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

type Logger interface {
	Log(ctx context.Context, level LogLevel, eventType string, message string, details map[string]interface{})
}

type logger struct {
	zl zerolog.Logger
}

// NewLogger returns a JSON logger writing to stdout, tagged with component.
func NewLogger(component string) Logger {
	return NewLoggerTo(os.Stdout, component, INFO)
}

// NewLoggerTo returns a JSON logger writing to w that drops entries below min.
func NewLoggerTo(w io.Writer, component string, min LogLevel) Logger {
	zl := zerolog.New(w).
		Level(min.zerolog()).
		With().
		Timestamp().
		Str("component", component).
		Logger()
	return &logger{zl: zl}
}

// NewConsoleLogger returns a human-readable logger for terminals.
func NewConsoleLogger(w io.Writer, component string, min LogLevel) Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}
	return NewLoggerTo(out, component, min)
}

func (l *logger) Log(ctx context.Context, level LogLevel, eventType string, message string, details map[string]interface{}) {
	ev := l.zl.WithLevel(level.zerolog())
	if ev == nil {
		return
	}
	ev = ev.Str("event_type", eventType)
	if len(details) > 0 {
		ev = ev.Fields(details)
	}
	ev.Ctx(ctx).Msg(message)
}

type nopLogger struct{}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

func (nopLogger) Log(context.Context, LogLevel, string, string, map[string]interface{}) {}

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case DEBUG:
		return zerolog.DebugLevel
	case INFO:
		return zerolog.InfoLevel
	case WARN:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	default:
		return zerolog.NoLevel
	}
}

// ParseLevel maps a level name to a LogLevel. Unknown names map to INFO and
// ok is false.
func ParseLevel(s string) (level LogLevel, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG, true
	case "INFO", "":
		return INFO, true
	case "WARN", "WARNING":
		return WARN, true
	case "ERROR":
		return ERROR, true
	default:
		return INFO, false
	}
}
