package tokengenerator

import (
	"passreset/internal/core/domain/user"
	"passreset/internal/core/domain/verification"

	"github.com/google/uuid"
)

// UUID generates random version 4 UUIDs, read from crypto/rand.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

func (g *UUID) GenerateSessionToken() user.SessionToken {
	return user.SessionToken(uuid.New().String())
}

func (g *UUID) GenerateVerificationToken() verification.Token {
	return verification.Token(uuid.New().String())
}
