package utils

import "go.uber.org/zap"

// Logger is a thin wrapper over zap's sugared logger so handlers can log
// with alternating key/value pairs without importing zap everywhere.
type Logger struct {
	s *zap.SugaredLogger
}

func NewLogger() *Logger {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	return &Logger{s: l.Sugar()}
}

// NewNopLogger returns a logger that discards everything (tests).
func NewNopLogger() *Logger { return &Logger{s: zap.NewNop().Sugar()} }

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Infow(msg, keysAndValues...)
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, keysAndValues...)
}

func (l *Logger) Sync() { _ = l.s.Sync() }
