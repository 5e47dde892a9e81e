package requestpasswordreset

import (
	"context"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/logging"
	"passreset/internal/core/domain/verification"
	"passreset/internal/core/services"
	"sync"
	"time"
)

const SEND_TIMEOUT = 10 * time.Second

type serviceWithTokenSending struct {
	log     logging.Logger
	sender  verification.TokenSender
	inner   services.Service[Input, Result]
	timeout time.Duration
	wg      sync.WaitGroup
}

// WithTokenSending delivers issued tokens out of band. Delivery runs after
// Run has returned, so neither its latency nor its failure is visible to
// the caller and known and unknown emails answer alike.
func WithTokenSending(
	log logging.Logger,
	sender verification.TokenSender,
	inner services.Service[Input, Result],
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &serviceWithTokenSending{
		log:     log,
		sender:  sender,
		inner:   inner,
		timeout: SEND_TIMEOUT,
	}
}

func (s *serviceWithTokenSending) Run(ctx context.Context, input Input) (result Result, err error) {
	result, err = s.inner.Run(ctx, input)
	if err != nil {
		return result, err
	}
	if !result.Token.IsPresent {
		return result, nil
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.send(result)
	}()
	return result, nil
}

// The request context ends with the response, delivery gets its own.
func (s *serviceWithTokenSending) send(result Result) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	err := s.sender.SendToken(ctx, result.Email, result.Token.Value, result.ExpiresAt)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not send password reset token.",
			logging.Entry("email", result.Email),
			logging.Entry("err", err),
		)
		return
	}

	s.log.Info(ctx, "Password reset token has been sent.", logging.Entry("email", result.Email))
}

// wait blocks until every delivery started so far has finished.
func (s *serviceWithTokenSending) wait() {
	s.wg.Wait()
}
