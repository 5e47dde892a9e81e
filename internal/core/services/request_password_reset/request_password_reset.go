package requestpasswordreset

import (
	"context"
	"errors"
	c "passreset/internal/core/domain/common"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/logging"
	"passreset/internal/core/domain/user"
	"passreset/internal/core/domain/verification"
	"passreset/internal/core/services"
	"time"
)

type Input struct {
	Email c.Email
}

func (i Input) GetRateLimitKey() string {
	return "request-password-reset::" + string(i.Email)
}

// Result has the same shape for known and unknown emails. Token is present
// only when a verification has been issued.
type Result struct {
	Email     c.Email
	Token     c.Optional[verification.Token]
	ExpiresAt time.Time
}

type service struct {
	log                    logging.Logger
	userRepository         user.UserRepository
	verificationRepository verification.Repository
	tokenGenerator         verification.TokenGenerator
	ttl                    time.Duration
	now                    func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	verificationRepository verification.Repository,
	tokenGenerator verification.TokenGenerator,
	ttl time.Duration,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if verificationRepository == nil {
		panic(e.NewNilArgumentError("verificationRepository"))
	}
	if tokenGenerator == nil {
		panic(e.NewNilArgumentError("tokenGenerator"))
	}
	if ttl <= 0 {
		panic(e.NewInvalidStateError("password reset TTL must be positive"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:                    log,
		userRepository:         userRepository,
		verificationRepository: verificationRepository,
		tokenGenerator:         tokenGenerator,
		ttl:                    ttl,
		now:                    now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	result.Email = input.Email

	u, err := s.userRepository.GetByEmail(ctx, input.Email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		// Keep the amount of work close to the known-email path.
		s.tokenGenerator.GenerateVerificationToken()
		s.log.Info(
			ctx,
			"Password reset requested for unknown email.",
			logging.Entry("email", input.Email),
		)
		return result, nil
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user for password reset.",
			logging.Entry("email", input.Email),
			logging.Entry("err", err),
		)
		return result, err
	}

	now := s.now()
	v, err := s.verificationRepository.Create(ctx, verification.CreateInput{
		Identifier: u.Email,
		Value:      s.tokenGenerator.GenerateVerificationToken(),
		ExpiresAt:  now.Add(s.ttl),
		CreatedAt:  now,
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not create password reset verification.",
			logging.Entry("userId", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(
		ctx,
		"Password reset token has been issued.",
		logging.Entry("userId", u.ID),
		logging.Entry("verificationId", v.ID),
		logging.Entry("expiresAt", v.ExpiresAt),
	)
	return Result{
		Email:     v.Identifier,
		Token:     c.NewOptional(v.Value, true),
		ExpiresAt: v.ExpiresAt,
	}, nil
}
