package deliverpasswordreset

import (
	"context"
	"errors"
	c "passreset/internal/core/domain/common"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/logging"
	"passreset/internal/core/domain/verification"
	"passreset/internal/core/services"
	"time"
)

type Input struct {
	Email     c.Email
	Token     verification.Token
	ExpiresAt time.Time
}

type Result struct {
	IsSent bool
}

type service struct {
	log    logging.Logger
	sender verification.TokenSender
	now    func() time.Time
}

func New(
	log logging.Logger,
	sender verification.TokenSender,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{log: log, sender: sender, now: now}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if !input.ExpiresAt.After(s.now()) {
		s.log.Info(
			ctx,
			"Password reset token expired before delivery, skipping.",
			logging.Entry("email", input.Email),
			logging.Entry("expiresAt", input.ExpiresAt),
		)
		return result, nil
	}

	err = s.sender.SendToken(ctx, input.Email, input.Token, input.ExpiresAt)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not deliver password reset token.",
			logging.Entry("email", input.Email),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(ctx, "Password reset token has been delivered.", logging.Entry("email", input.Email))
	return Result{IsSent: true}, nil
}
