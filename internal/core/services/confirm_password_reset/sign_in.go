package confirmpasswordreset

import (
	"context"
	"errors"
	c "passreset/internal/core/domain/common"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/logging"
	"passreset/internal/core/domain/user"
	"passreset/internal/core/services"
	loginwithemail "passreset/internal/core/services/log_in_with_email"
)

type serviceWithSignIn struct {
	log   logging.Logger
	logIn services.Service[loginwithemail.Input, loginwithemail.Result]
	inner services.Service[Input, Result]
}

// WithSignIn logs the user in with the new password once it has been set.
// Failing to log in does not fail the reset: the result just carries no
// session.
func WithSignIn(
	log logging.Logger,
	logIn services.Service[loginwithemail.Input, loginwithemail.Result],
	inner services.Service[Input, Result],
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if logIn == nil {
		panic(e.NewNilArgumentError("logIn"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &serviceWithSignIn{
		log:   log,
		logIn: logIn,
		inner: inner,
	}
}

func (s *serviceWithSignIn) Run(ctx context.Context, input Input) (result Result, err error) {
	result, err = s.inner.Run(ctx, input)
	if err != nil {
		return result, err
	}

	session, err := s.logIn.Run(ctx, loginwithemail.Input{
		Email:    result.Email,
		Password: input.NewPassword,
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Warning(
				ctx,
				"Could not sign in after password reset.",
				logging.Entry("userId", result.UserID),
				logging.Entry("err", err),
			)
		}
		result.Session = c.None[user.SessionToken]()
		return result, nil
	}

	result.Session = c.NewOptional(session.Token, true)
	return result, nil
}
