package deliverpasswordreset

import (
	"context"
	c "passreset/internal/core/domain/common"
	"passreset/internal/core/domain/logging"
	"passreset/internal/core/domain/verification"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const EMAIL = c.Email("alice@example.com")

var NOW time.Time = time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)

func TestDelivered(t *testing.T) {
	sender := verification.NewFakeTokenSender()
	service := New(logging.NewFakeLogger(), sender, func() time.Time { return NOW })

	result, err := service.Run(context.Background(), Input{
		Email:     EMAIL,
		Token:     verification.Token("T1"),
		ExpiresAt: NOW.Add(time.Hour),
	})

	require.NoError(t, err)
	require.True(t, result.IsSent)
	require.Equal(
		t,
		[]verification.SentToken{{Email: EMAIL, Token: "T1", ExpiresAt: NOW.Add(time.Hour)}},
		sender.Sent,
	)
}

func TestExpiredTokenIsSkipped(t *testing.T) {
	sender := verification.NewFakeTokenSender()
	service := New(logging.NewFakeLogger(), sender, func() time.Time { return NOW })

	result, err := service.Run(context.Background(), Input{
		Email:     EMAIL,
		Token:     verification.Token("T1"),
		ExpiresAt: NOW,
	})

	require.NoError(t, err)
	require.False(t, result.IsSent)
	require.Equal(t, 0, sender.SentCount())
}

func TestSenderError(t *testing.T) {
	log := logging.NewFakeLogger()
	sender := verification.NewFakeTokenSender()
	sender.ReturnError = true
	service := New(log, sender, func() time.Time { return NOW })

	_, err := service.Run(context.Background(), Input{
		Email:     EMAIL,
		Token:     verification.Token("T1"),
		ExpiresAt: NOW.Add(time.Hour),
	})

	require.Error(t, err)
	require.Equal(t, 1, log.CountByLevel(logging.ERROR))
}
