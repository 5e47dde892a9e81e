package logging

import (
	"context"
	"fmt"
	"passreset/internal/core/domain/logging"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

type ZapLogger struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
	hub    *sentry.Hub
}

func NewZapLogger() *ZapLogger {
	logger, err := zap.NewProduction(zap.AddCallerSkip(1))
	if err != nil {
		panic("Could not create Zap logger.")
	}
	return newZapLogger(logger)
}

func newZapLogger(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: logger, sugar: logger.Sugar()}
}

// WithSentry makes the logger report error records to the given hub.
func (l *ZapLogger) WithSentry(hub *sentry.Hub) *ZapLogger {
	return &ZapLogger{logger: l.logger, sugar: l.sugar, hub: hub}
}

func (l *ZapLogger) Sync() {
	l.logger.Sync()
}

func (l *ZapLogger) Debug(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Debugw(msg, prepareArgs(entries...)...)
}

func (l *ZapLogger) Info(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Infow(msg, prepareArgs(entries...)...)
}

func (l *ZapLogger) Warning(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Warnw(msg, prepareArgs(entries...)...)
}

func (l *ZapLogger) Error(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Errorw(msg, prepareArgs(entries...)...)
	if l.hub != nil {
		l.report(msg, entries...)
	}
}

func (l *ZapLogger) report(msg string, entries ...logging.LogEntry) {
	l.hub.WithScope(func(scope *sentry.Scope) {
		var err error
		for _, e := range entries {
			if entryErr, ok := e.Value.(error); ok && e.Key == "err" {
				err = entryErr
				continue
			}
			scope.SetExtra(e.Key, fmt.Sprint(e.Value))
		}
		if err != nil {
			scope.SetExtra("message", msg)
			l.hub.CaptureException(err)
			return
		}
		l.hub.CaptureMessage(msg)
	})
}

func prepareArgs(entries ...logging.LogEntry) []interface{} {
	args := make([]interface{}, 0, len(entries)*2)
	for _, e := range entries {
		args = append(args, e.Key, fmt.Sprint(e.Value))
	}
	return args
}
