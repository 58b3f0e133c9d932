// Package logging adapts the process zap logger to the Temporal SDK's logger
// interface so workers, clients, and application code share one structured
// log stream.
package logging

import (
	"go.temporal.io/sdk/log"
	"go.uber.org/zap"
)

// temporalLogger bridges zap's sugared logger to Temporal's log.Logger.
type temporalLogger struct {
	sugar *zap.SugaredLogger
}

// NewTemporalLogger wraps a zap logger for use as a Temporal SDK logger.
// CallerSkip accounts for the adapter frame so call sites resolve correctly.
func NewTemporalLogger(logger *zap.Logger) log.Logger {
	return &temporalLogger{sugar: logger.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (l *temporalLogger) Debug(msg string, keyvals ...any) { l.sugar.Debugw(msg, keyvals...) }
func (l *temporalLogger) Info(msg string, keyvals ...any)  { l.sugar.Infow(msg, keyvals...) }
func (l *temporalLogger) Warn(msg string, keyvals ...any)  { l.sugar.Warnw(msg, keyvals...) }
func (l *temporalLogger) Error(msg string, keyvals ...any) { l.sugar.Errorw(msg, keyvals...) }
