package confirmpasswordreset

import (
	"context"
	"errors"
	c "passreset/internal/core/domain/common"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/logging"
	uow "passreset/internal/core/domain/unit_of_work"
	"passreset/internal/core/domain/user"
	"passreset/internal/core/domain/verification"
	"passreset/internal/core/services"
	"time"
)

type Input struct {
	Token       verification.Token
	NewPassword user.RawPassword
}

type Result struct {
	UserID  user.ID
	Email   c.Email
	Session c.Optional[user.SessionToken]
}

type service struct {
	log            logging.Logger
	unitOfWork     uow.UnitOfWork
	passwordHasher user.PasswordHasher
	now            func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	passwordHasher user.PasswordHasher,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		unitOfWork:     unitOfWork,
		passwordHasher: passwordHasher,
		now:            now,
	}
}

// Run looks the token up, resolves its account by email, then deletes the
// token and stores the new password in one transaction. The delete runs
// first and must remove exactly one row, so only one of several concurrent
// confirmations of the same token can reach the password update.
func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	uow, err := s.unitOfWork.Begin(ctx)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not begin unit of work.", logging.Entry("err", err))
		return result, err
	}
	defer uow.Rollback(ctx)

	v, err := uow.Verifications().GetValid(ctx, input.Token, s.now())
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, verification.ErrVerificationDoesNotExist) {
		s.log.Info(ctx, "Password reset token is invalid or expired.")
		return result, user.ErrInvalidPasswordResetToken
	}
	if err != nil {
		s.log.Error(ctx, "Could not get password reset verification.", logging.Entry("err", err))
		return result, err
	}

	u, err := uow.Users().GetByEmail(ctx, v.Identifier)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(
			ctx,
			"User for password reset verification does not exist anymore.",
			logging.Entry("verificationId", v.ID),
			logging.Entry("email", v.Identifier),
		)
		return result, user.ErrInvalidPasswordResetToken
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user for password reset.",
			logging.Entry("verificationId", v.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	passwordHash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		s.log.Error(ctx, "Could not hash password.", logging.Entry("userId", u.ID), logging.Entry("err", err))
		return result, err
	}

	err = uow.Verifications().Delete(ctx, v.ID)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, verification.ErrVerificationDoesNotExist) {
		s.log.Info(
			ctx,
			"Password reset verification has already been used.",
			logging.Entry("verificationId", v.ID),
		)
		return result, user.ErrInvalidPasswordResetToken
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not delete password reset verification.",
			logging.Entry("verificationId", v.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	err = uow.Users().SetPassword(ctx, u.ID, passwordHash)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(
			ctx,
			"Could not update user password, user does not exist.",
			logging.Entry("userId", u.ID),
		)
		return result, user.ErrInvalidPasswordResetToken
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not update user password.",
			logging.Entry("userId", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	err = uow.Commit(ctx)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not commit unit of work.",
			logging.Entry("userId", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(
		ctx,
		"New password has been successfully set.",
		logging.Entry("userId", u.ID),
		logging.Entry("verificationId", v.ID),
	)
	return Result{UserID: u.ID, Email: u.Email}, nil
}
