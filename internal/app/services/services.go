package services

import (
	"passreset/internal/app/deps"
	drl "passreset/internal/core/domain/rate_limiter"
	"passreset/internal/core/services"
	confirmpasswordreset "passreset/internal/core/services/confirm_password_reset"
	deliverpasswordreset "passreset/internal/core/services/deliver_password_reset"
	loginwithemail "passreset/internal/core/services/log_in_with_email"
	ratelimiting "passreset/internal/core/services/rate_limiting"
	requestpasswordreset "passreset/internal/core/services/request_password_reset"
	signupwithemail "passreset/internal/core/services/sign_up_with_email"
	sweepverifications "passreset/internal/core/services/sweep_verifications"
)

type Services struct {
	SignUpWithEmail      services.Service[signupwithemail.Input, signupwithemail.Result]
	LogInWithEmail       services.Service[loginwithemail.Input, loginwithemail.Result]
	RequestPasswordReset services.Service[requestpasswordreset.Input, requestpasswordreset.Result]
	ConfirmPasswordReset services.Service[confirmpasswordreset.Input, confirmpasswordreset.Result]

	DeliverPasswordReset services.Service[deliverpasswordreset.Input, deliverpasswordreset.Result]
	SweepVerifications   services.Service[sweepverifications.Input, sweepverifications.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.SignUpWithEmail = signupwithemail.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.PasswordHasher,
		deps.Now,
	)

	logIn := loginwithemail.New(
		deps.Logger,
		deps.UserRepository,
		deps.SessionRepository,
		deps.PasswordHasher,
		deps.UserSessionTokenGenerator,
		deps.Now,
	)
	s.LogInWithEmail = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Interval: drl.Hour, Value: deps.Config.LogInLimitPerHour},
		logIn,
	)

	s.RequestPasswordReset = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Interval: drl.Hour, Value: deps.Config.PasswordResetRequestLimitPerHour},
		requestpasswordreset.WithTokenSending(
			deps.Logger,
			deps.PasswordResetTokenSender,
			requestpasswordreset.New(
				deps.Logger,
				deps.UserRepository,
				deps.VerificationRepository,
				deps.VerificationTokenGenerator,
				deps.Config.PasswordResetTTL,
				deps.Now,
			),
		),
	)

	// Signing in right after a reset must not be refused by the log in limit.
	s.ConfirmPasswordReset = confirmpasswordreset.WithSignIn(
		deps.Logger,
		logIn,
		confirmpasswordreset.New(
			deps.Logger,
			deps.UnitOfWork,
			deps.PasswordHasher,
			deps.Now,
		),
	)

	s.DeliverPasswordReset = deliverpasswordreset.New(
		deps.Logger,
		deps.EmailSender,
		deps.Now,
	)
	s.SweepVerifications = sweepverifications.New(
		deps.Logger,
		deps.VerificationRepository,
		deps.Now,
	)

	return s
}
