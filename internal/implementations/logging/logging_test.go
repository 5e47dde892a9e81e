package logging

import (
	"context"
	"errors"
	"passreset/internal/core/domain/logging"
	"passreset/internal/core/domain/user"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestEntriesAreLoggedAsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := newZapLogger(zap.New(core))

	logger.Info(
		context.Background(),
		"Password reset token has been issued.",
		logging.Entry("userId", 42),
		logging.Entry("email", "alice@example.com"),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	require.Equal(t, zapcore.InfoLevel, entry.Level)
	require.Equal(t, "Password reset token has been issued.", entry.Message)
	require.Equal(t, map[string]interface{}{"userId": "42", "email": "alice@example.com"}, entry.ContextMap())
}

func TestLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := newZapLogger(zap.New(core))
	ctx := context.Background()

	logger.Debug(ctx, "debug")
	logger.Info(ctx, "info")
	logger.Warning(ctx, "warning")
	logger.Error(ctx, "error", logging.Entry("err", errors.New("test")))

	levels := make([]zapcore.Level, 0, 4)
	for _, entry := range logs.All() {
		levels = append(levels, entry.Level)
	}
	require.Equal(
		t,
		[]zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel},
		levels,
	)
}

func TestSecretsAreMasked(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := newZapLogger(zap.New(core))

	logger.Info(context.Background(), "test", logging.Entry("password", user.RawPassword("secret")))

	require.Equal(t, "***", logs.All()[0].ContextMap()["password"])
}
