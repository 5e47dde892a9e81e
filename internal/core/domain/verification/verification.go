package verification

import (
	"context"
	c "passreset/internal/core/domain/common"
	"time"
)

type ID string

// Token is the opaque value handed to the user. It is masked when formatted
// so it does not leak through log entries.
type Token string

func (t Token) String() string {
	return "***"
}

// Verification is a single-use password reset record. It is linked to an
// account only through Identifier; the account is re-resolved by email every
// time the record is used.
type Verification struct {
	ID         ID
	Identifier c.Email
	Value      Token
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

func (v *Verification) IsValidAt(now time.Time) bool {
	return v.ExpiresAt.After(now)
}

type TokenGenerator interface {
	GenerateVerificationToken() Token
}

// TokenSender delivers an issued token to its owner out of band.
type TokenSender interface {
	SendToken(ctx context.Context, email c.Email, token Token, expiresAt time.Time) error
}
