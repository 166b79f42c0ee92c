package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type defaultLogger struct {
	zl zerolog.Logger
}

func NewLogger(level int) *defaultLogger {
	return NewLoggerWithWriter(os.Stdout, level)
}

func NewLoggerWithWriter(w io.Writer, level int) *defaultLogger {
	zl := zerolog.New(w).With().Timestamp().Logger().Level(toZerologLevel(level))
	return &defaultLogger{zl: zl}
}

// ParseLevel converts LOG_LEVEL values (debug, info, warn, error, silence) to
// a logger level. Unknown values fall back to INFO.
func ParseLevel(s string) int {
	switch s {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARNING
	case "error":
		return ERROR
	case "silence":
		return SILENCE
	default:
		return INFO
	}
}

func toZerologLevel(level int) zerolog.Level {
	switch level {
	case DEBUG:
		return zerolog.DebugLevel
	case INFO:
		return zerolog.InfoLevel
	case WARNING:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	default:
		return zerolog.Disabled
	}
}

func (l *defaultLogger) Debugf(msg string, a ...any) {
	l.zl.Debug().Msg(fmt.Sprintf(msg, a...))
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	l.zl.Info().Msg(fmt.Sprintf(msg, a...))
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	l.zl.Warn().Msg(fmt.Sprintf(msg, a...))
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	l.zl.Error().Msg(fmt.Sprintf(msg, a...))
}
