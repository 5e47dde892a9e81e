package passwordresetrequested

import (
	"context"
	"passreset/internal/core/domain/common"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/logging"
	"passreset/internal/core/domain/verification"
	"passreset/internal/core/services"
	deliverpasswordreset "passreset/internal/core/services/deliver_password_reset"
	"passreset/internal/rabbitmq"
	"passreset/internal/rabbitmq/schema"

	"github.com/rabbitmq/amqp091-go"
)

type Consumer struct {
	log     logging.Logger
	channel *rabbitmq.Channel
	queue   string
	service services.Service[deliverpasswordreset.Input, deliverpasswordreset.Result]
}

func New(
	log logging.Logger,
	channel *rabbitmq.Channel,
	queue string,
	service services.Service[deliverpasswordreset.Input, deliverpasswordreset.Result],
) *Consumer {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if queue == "" {
		panic("queue name must not be empty")
	}
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}

	return &Consumer{log: log, channel: channel, queue: queue, service: service}
}

func (c *Consumer) Consume() error {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		c.log.Error(context.Background(), "Could not start consuming.", logging.Entry("err", err))
		return err
	}

	go func() {
		for delivery := range deliveries {
			c.handle(context.Background(), delivery)
		}
	}()
	return nil
}

// handle acks every message except the first failed delivery attempt,
// which goes back to the queue once.
func (c *Consumer) handle(ctx context.Context, delivery amqp091.Delivery) {
	message := &schema.PasswordResetRequested{}
	if err := message.Unmarshal(delivery.Body); err != nil {
		c.log.Error(ctx, "Could not unmarshal password reset request.", logging.Entry("err", err))
		c.Ack(delivery)
		return
	}

	c.log.Info(ctx, "Got password reset request.", logging.Entry("email", message.Email))
	_, err := c.service.Run(ctx, deliverpasswordreset.Input{
		Email:     common.NewEmail(message.Email),
		Token:     verification.Token(message.Token),
		ExpiresAt: message.ExpiresAt,
	})
	if err != nil && !delivery.Redelivered {
		c.log.Warning(
			ctx,
			"Could not deliver password reset token, message requeued.",
			logging.Entry("email", message.Email),
			logging.Entry("err", err),
		)
		c.Requeue(delivery)
		return
	}
	if err != nil {
		c.log.Error(
			ctx,
			"Could not deliver password reset token, message dropped.",
			logging.Entry("email", message.Email),
			logging.Entry("err", err),
		)
	}
	c.Ack(delivery)
}

func (c *Consumer) Ack(delivery amqp091.Delivery) {
	if err := delivery.Ack(false); err != nil {
		c.log.Error(context.Background(), "Could not ACK AMQP message.", logging.Entry("err", err))
	}
}

func (c *Consumer) Requeue(delivery amqp091.Delivery) {
	if err := delivery.Nack(false, true); err != nil {
		c.log.Error(context.Background(), "Could not NACK AMQP message.", logging.Entry("err", err))
	}
}
