package passwordresetrequested

import (
	"context"
	c "passreset/internal/core/domain/common"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/logging"
	"passreset/internal/core/domain/verification"
	"passreset/internal/rabbitmq/schema"
	"strconv"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type publisher interface {
	PublishWithContext(
		ctx context.Context,
		exchange string,
		key string,
		mandatory bool,
		immediate bool,
		msg amqp091.Publishing,
	) error
}

// RabbitMQ hands issued tokens to the mailer through a queue.
type RabbitMQ struct {
	log     logging.Logger
	channel publisher
	queue   string
	now     func() time.Time
}

func NewRabbitMQ(log logging.Logger, channel publisher, queue string, now func() time.Time) *RabbitMQ {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if queue == "" {
		panic("queue name must not be empty")
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &RabbitMQ{log: log, channel: channel, queue: queue, now: now}
}

func (p *RabbitMQ) SendToken(
	ctx context.Context,
	email c.Email,
	token verification.Token,
	expiresAt time.Time,
) error {
	message := schema.PasswordResetRequested{
		Email:     string(email),
		Token:     string(token),
		ExpiresAt: expiresAt,
	}
	body, err := message.Marshal()
	if err != nil {
		return err
	}

	err = p.channel.PublishWithContext(ctx, "", p.queue, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Expiration:   expiration(expiresAt, p.now()),
		Body:         body,
	})
	if err != nil {
		logging.Error(ctx, p.log, err, logging.Entry("queue", p.queue))
		return err
	}
	p.log.Info(
		ctx,
		"AMQP message has been successfully published.",
		logging.Entry("RK", p.queue),
		logging.Entry("email", email),
	)
	return nil
}

// expiration drops undelivered messages from the queue once the token
// they carry is no longer usable.
func expiration(expiresAt time.Time, now time.Time) string {
	ttl := expiresAt.Sub(now).Milliseconds()
	if ttl < 1 {
		ttl = 1
	}
	return strconv.FormatInt(ttl, 10)
}
