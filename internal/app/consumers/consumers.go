package consumers

import (
	"context"
	"passreset/internal/app/deps"
	"passreset/internal/app/services"
	dl "passreset/internal/core/domain/logging"
	passwordresetrequested "passreset/internal/rabbitmq/consumers/password_reset_requested"
)

func initPasswordResetRequestedConsumer(deps *deps.Deps, services *services.Services) func() {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}

	queue := deps.Config.RabbitmqPasswordResetQueue
	if err := rabbitmqChannel.DeclareQueue(queue); err != nil {
		deps.Logger.Error(
			context.Background(),
			"Could not create RabbitMQ queue.",
			dl.Entry("err", err),
			dl.Entry("queue", queue),
		)
		panic(err)
	}

	passwordResetRequestedConsumer := passwordresetrequested.New(
		deps.Logger,
		rabbitmqChannel,
		queue,
		services.DeliverPasswordReset,
	)
	if err = passwordResetRequestedConsumer.Consume(); err != nil {
		deps.Logger.Error(
			context.Background(),
			"Could not start RabbitMQ consuming.",
			dl.Entry("err", err),
			dl.Entry("queue", queue),
		)
		panic(err)
	}

	deps.Logger.Info(context.Background(), "Consumer has started.", dl.Entry("queue", queue))
	return func() { rabbitmqChannel.Close() }
}

func InitConsumers(deps *deps.Deps, services *services.Services) func() {
	shutdownPasswordResetRequestedConsumer := initPasswordResetRequestedConsumer(deps, services)

	return func() {
		shutdownPasswordResetRequestedConsumer()
	}
}
