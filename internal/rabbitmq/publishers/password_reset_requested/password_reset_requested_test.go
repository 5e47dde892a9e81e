package passwordresetrequested

import (
	"context"
	"fmt"
	c "passreset/internal/core/domain/common"
	"passreset/internal/core/domain/logging"
	"passreset/internal/core/domain/verification"
	"passreset/internal/rabbitmq/schema"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakePublisher struct {
	published []published
	err       error
}

func (p *fakePublisher) PublishWithContext(
	ctx context.Context,
	exchange string,
	key string,
	mandatory bool,
	immediate bool,
	msg amqp091.Publishing,
) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

var NOW time.Time = time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)

func now() time.Time {
	return NOW
}

func TestSendToken(t *testing.T) {
	channel := &fakePublisher{}
	sender := NewRabbitMQ(logging.NewFakeLogger(), channel, "password-reset-requested", now)
	expiresAt := NOW.Add(time.Hour)

	err := sender.SendToken(context.Background(), c.Email("alice@example.com"), verification.Token("T1"), expiresAt)

	require.NoError(t, err)
	require.Len(t, channel.published, 1)
	require.Equal(t, "", channel.published[0].exchange)
	require.Equal(t, "password-reset-requested", channel.published[0].key)
	require.Equal(t, amqp091.Persistent, channel.published[0].msg.DeliveryMode)
	require.Equal(t, "3600000", channel.published[0].msg.Expiration)

	message := schema.PasswordResetRequested{}
	require.NoError(t, message.Unmarshal(channel.published[0].msg.Body))
	require.Equal(t, "alice@example.com", message.Email)
	require.Equal(t, "T1", message.Token)
	require.True(t, expiresAt.Equal(message.ExpiresAt))
}

func TestSendTokenError(t *testing.T) {
	log := logging.NewFakeLogger()
	channel := &fakePublisher{err: fmt.Errorf("channel closed")}
	sender := NewRabbitMQ(log, channel, "password-reset-requested", now)

	err := sender.SendToken(context.Background(), c.Email("alice@example.com"), verification.Token("T1"), NOW)

	require.Error(t, err)
	require.Equal(t, 1, log.CountByLevel(logging.ERROR))
}

func TestExpiration(t *testing.T) {
	now := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)

	require.Equal(t, "3600000", expiration(now.Add(time.Hour), now))
	require.Equal(t, "1", expiration(now, now))
	require.Equal(t, "1", expiration(now.Add(-time.Hour), now))
}

func TestExpirationUsesInjectedClock(t *testing.T) {
	channel := &fakePublisher{}
	current := NOW
	sender := NewRabbitMQ(logging.NewFakeLogger(), channel, "password-reset-requested", func() time.Time { return current })
	expiresAt := NOW.Add(time.Hour)

	current = NOW.Add(59 * time.Minute)
	err := sender.SendToken(context.Background(), c.Email("alice@example.com"), verification.Token("T1"), expiresAt)

	require.NoError(t, err)
	require.Len(t, channel.published, 1)
	require.Equal(t, "60000", channel.published[0].msg.Expiration)
}
