package uow

import (
	"context"
	"passreset/internal/core/domain/user"
	"passreset/internal/core/domain/verification"
)

// Context is a single transaction. Repositories obtained from it see and
// write through the same transaction until Commit or Rollback is called.
type Context interface {
	Rollback(ctx context.Context) error
	Commit(ctx context.Context) error

	Users() user.UserRepository
	Sessions() user.SessionRepository
	Verifications() verification.Repository
}

type UnitOfWork interface {
	Begin(ctx context.Context) (Context, error)
}
