package logger

import (
	"go.uber.org/zap"
)

// Logger takes in a message and tag pairs.
type Logger interface {
	Debug(msg string, tags ...interface{})
	Info(msg string, tags ...interface{})
	Warn(msg string, tags ...interface{})
	Error(msg string, tags ...interface{})
}

type zapLogger struct{ s *zap.SugaredLogger }

// New creates a logger backed by a production zap core.
func New() Logger {
	return &zapLogger{s: zap.Must(zap.NewProduction()).Sugar()}
}

// Wrap adapts an existing zap logger.
func Wrap(l *zap.Logger) Logger {
	return &zapLogger{s: l.Sugar()}
}

// Nop creates a logger that discards everything. Used in tests.
func Nop() Logger {
	return &zapLogger{s: zap.NewNop().Sugar()}
}

// Debug creates a debug log entry.
func (l *zapLogger) Debug(msg string, tags ...interface{}) { l.s.Debugw(msg, tags...) }

// Info creates an info log entry.
func (l *zapLogger) Info(msg string, tags ...interface{}) { l.s.Infow(msg, tags...) }

// Warn creates a warn log entry.
func (l *zapLogger) Warn(msg string, tags ...interface{}) { l.s.Warnw(msg, tags...) }

// Error creates an error log entry.
func (l *zapLogger) Error(msg string, tags ...interface{}) { l.s.Errorw(msg, tags...) }
