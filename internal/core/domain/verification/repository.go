package verification

import (
	"context"
	c "passreset/internal/core/domain/common"
	"time"
)

type CreateInput struct {
	Identifier c.Email
	Value      Token
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

type Repository interface {
	Create(ctx context.Context, input CreateInput) (Verification, error)
	// GetValid returns the record whose value equals token exactly and which
	// expires after now, or ErrVerificationDoesNotExist.
	GetValid(ctx context.Context, token Token, now time.Time) (Verification, error)
	// Delete removes the record and returns ErrVerificationDoesNotExist if
	// nothing was removed. Callers use it as the single-use gate.
	Delete(ctx context.Context, id ID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
