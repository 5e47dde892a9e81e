package sweepverifications

import (
	"context"
	"errors"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/logging"
	"passreset/internal/core/domain/verification"
	"passreset/internal/core/services"
	"time"
)

type Input struct{}

type Result struct {
	Deleted int64
}

type service struct {
	log                    logging.Logger
	verificationRepository verification.Repository
	now                    func() time.Time
}

// New returns a service removing verifications that expired before now.
// Expired rows are never matched by lookups, so sweeping them only bounds
// the table size.
func New(
	log logging.Logger,
	verificationRepository verification.Repository,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if verificationRepository == nil {
		panic(e.NewNilArgumentError("verificationRepository"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:                    log,
		verificationRepository: verificationRepository,
		now:                    now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	deleted, err := s.verificationRepository.DeleteExpired(ctx, s.now())
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not delete expired verifications.", logging.Entry("err", err))
		return result, err
	}

	if deleted > 0 {
		s.log.Info(ctx, "Expired verifications have been deleted.", logging.Entry("count", deleted))
	}
	return Result{Deleted: deleted}, nil
}
