package passwordresetrequested

import (
	"context"
	"fmt"
	"passreset/internal/core/domain/common"
	"passreset/internal/core/domain/logging"
	"passreset/internal/core/domain/verification"
	deliverpasswordreset "passreset/internal/core/services/deliver_password_reset"
	"passreset/internal/rabbitmq/schema"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

type fakeAcknowledger struct {
	acked    int
	nacked   int
	requeued bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked++
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	a.nacked++
	a.requeued = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

type stubDeliverService struct {
	inputs []deliverpasswordreset.Input
	err    error
}

func (s *stubDeliverService) Run(
	ctx context.Context,
	input deliverpasswordreset.Input,
) (result deliverpasswordreset.Result, err error) {
	s.inputs = append(s.inputs, input)
	return result, s.err
}

func newDelivery(t *testing.T, body []byte, redelivered bool) (amqp091.Delivery, *fakeAcknowledger) {
	acknowledger := &fakeAcknowledger{}
	return amqp091.Delivery{Acknowledger: acknowledger, Body: body, Redelivered: redelivered}, acknowledger
}

func marshal(t *testing.T, message schema.PasswordResetRequested) []byte {
	body, err := message.Marshal()
	require.NoError(t, err)
	return body
}

var expiresAt = time.Date(2020, 1, 1, 13, 0, 0, 0, time.UTC)

func TestDelivered(t *testing.T) {
	service := &stubDeliverService{}
	consumer := &Consumer{log: logging.NewFakeLogger(), queue: "test", service: service}
	delivery, acknowledger := newDelivery(t, marshal(t, schema.PasswordResetRequested{
		Email:     "Alice@Example.com",
		Token:     "T1",
		ExpiresAt: expiresAt,
	}), false)

	consumer.handle(context.Background(), delivery)

	require.Equal(t, 1, acknowledger.acked)
	require.Equal(t, 0, acknowledger.nacked)
	require.Equal(t, []deliverpasswordreset.Input{{
		Email:     common.Email("alice@example.com"),
		Token:     verification.Token("T1"),
		ExpiresAt: expiresAt,
	}}, service.inputs)
}

func TestInvalidMessageIsDropped(t *testing.T) {
	service := &stubDeliverService{}
	log := logging.NewFakeLogger()
	consumer := &Consumer{log: log, queue: "test", service: service}
	delivery, acknowledger := newDelivery(t, []byte("not json"), false)

	consumer.handle(context.Background(), delivery)

	require.Equal(t, 1, acknowledger.acked)
	require.Empty(t, service.inputs)
	require.Equal(t, 1, log.CountByLevel(logging.ERROR))
}

func TestFailedDeliveryIsRequeuedOnce(t *testing.T) {
	service := &stubDeliverService{err: fmt.Errorf("ses is down")}
	consumer := &Consumer{log: logging.NewFakeLogger(), queue: "test", service: service}
	body := marshal(t, schema.PasswordResetRequested{Email: "alice@example.com", Token: "T1", ExpiresAt: expiresAt})

	first, firstAcknowledger := newDelivery(t, body, false)
	consumer.handle(context.Background(), first)
	require.Equal(t, 0, firstAcknowledger.acked)
	require.Equal(t, 1, firstAcknowledger.nacked)
	require.True(t, firstAcknowledger.requeued)

	second, secondAcknowledger := newDelivery(t, body, true)
	consumer.handle(context.Background(), second)
	require.Equal(t, 1, secondAcknowledger.acked)
	require.Equal(t, 0, secondAcknowledger.nacked)
}
