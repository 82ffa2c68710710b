package logger

import (
	"io"

	"gatekeeper-api/internal/utils"

	"github.com/sirupsen/logrus"
)

// Logger is a logrus logger with a redacting error helper.
// The embedded logger provides the usual leveled and field methods.
type Logger struct {
	*logrus.Logger
}

// New wraps an existing logrus logger
func New(log *logrus.Logger) *Logger {
	return &Logger{Logger: log}
}

// NewJSON writes JSON entries to stderr at level; unknown levels fall back to info
func NewJSON(level string) *Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return New(log)
}

// NewNop discards everything
func NewNop() *Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(log)
}

// Logrus returns the underlying logger, for hooks
func (l *Logger) Logrus() *logrus.Logger {
	return l.Logger
}

// SecureLog records an error under a fresh request id.
// Only err's message is logged, never request bodies or credentials.
func (l *Logger) SecureLog(err error, message string, route string) {
	l.WithFields(logrus.Fields{
		"request_id": utils.GenerateShortID(),
		"route":      route,
		"error_msg":  err.Error(),
	}).Error(message)
}
