package verification

import (
	"context"
	"fmt"
	c "passreset/internal/core/domain/common"
	"sync"
	"time"
)

type FakeRepository struct {
	Verifications             []Verification
	CreateReturnsError        bool
	GetValidReturnsError      bool
	DeleteReturnsError        bool
	DeleteExpiredReturnsError bool
	lastID                    int
	lock                      sync.Mutex
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{Verifications: make([]Verification, 0, 10)}
}

func (r *FakeRepository) Create(ctx context.Context, input CreateInput) (v Verification, err error) {
	if r.CreateReturnsError {
		return v, fmt.Errorf("could not create verification")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.lastID++
	v = Verification{
		ID:         ID(fmt.Sprintf("verification-%d", r.lastID)),
		Identifier: input.Identifier,
		Value:      input.Value,
		ExpiresAt:  input.ExpiresAt,
		CreatedAt:  input.CreatedAt,
	}
	r.Verifications = append(r.Verifications, v)
	return v, nil
}

func (r *FakeRepository) GetValid(ctx context.Context, token Token, now time.Time) (v Verification, err error) {
	if r.GetValidReturnsError {
		return v, fmt.Errorf("could not get verification")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, v := range r.Verifications {
		if v.Value == token && v.IsValidAt(now) {
			return v, nil
		}
	}
	return v, ErrVerificationDoesNotExist
}

func (r *FakeRepository) Delete(ctx context.Context, id ID) error {
	_, err := r.deleteAndReturn(id)
	return err
}

func (r *FakeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if r.DeleteExpiredReturnsError {
		return 0, fmt.Errorf("could not delete expired verifications")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	kept := make([]Verification, 0, len(r.Verifications))
	for _, v := range r.Verifications {
		if v.IsValidAt(now) {
			kept = append(kept, v)
		}
	}
	deleted := int64(len(r.Verifications) - len(kept))
	r.Verifications = kept
	return deleted, nil
}

// Restore puts back a record removed by Delete; fake transactions use it on rollback.
func (r *FakeRepository) Restore(v Verification) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Verifications = append(r.Verifications, v)
}

func (r *FakeRepository) GetByIdentifier(email c.Email) []Verification {
	r.lock.Lock()
	defer r.lock.Unlock()
	result := make([]Verification, 0)
	for _, v := range r.Verifications {
		if v.Identifier == email {
			result = append(result, v)
		}
	}
	return result
}

func (r *FakeRepository) Count() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.Verifications)
}

func (r *FakeRepository) deleteAndReturn(id ID) (v Verification, err error) {
	if r.DeleteReturnsError {
		return v, fmt.Errorf("could not delete verification %s", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, existing := range r.Verifications {
		if existing.ID == id {
			r.Verifications = append(r.Verifications[:ix], r.Verifications[ix+1:]...)
			return existing, nil
		}
	}
	return v, ErrVerificationDoesNotExist
}

// DeleteAndReturn is Delete that also hands back the removed record.
func (r *FakeRepository) DeleteAndReturn(ctx context.Context, id ID) (Verification, error) {
	return r.deleteAndReturn(id)
}

type FakeTokenGenerator struct {
	Tokens    []Token
	Generated int
	lock      sync.Mutex
}

// NewFakeTokenGenerator returns the given tokens in order and then
// falls back to numbered tokens.
func NewFakeTokenGenerator(tokens ...string) *FakeTokenGenerator {
	g := &FakeTokenGenerator{}
	for _, t := range tokens {
		g.Tokens = append(g.Tokens, Token(t))
	}
	return g
}

func (g *FakeTokenGenerator) GenerateVerificationToken() Token {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.Generated++
	if g.Generated <= len(g.Tokens) {
		return g.Tokens[g.Generated-1]
	}
	return Token(fmt.Sprintf("token-%d", g.Generated))
}

type SentToken struct {
	Email     c.Email
	Token     Token
	ExpiresAt time.Time
}

type FakeTokenSender struct {
	Sent        []SentToken
	ReturnError bool
	Delay       time.Duration
	lock        sync.Mutex
}

func NewFakeTokenSender() *FakeTokenSender {
	return &FakeTokenSender{}
}

func (s *FakeTokenSender) SendToken(ctx context.Context, email c.Email, token Token, expiresAt time.Time) error {
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.ReturnError {
		return fmt.Errorf("could not send password reset token")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, SentToken{Email: email, Token: token, ExpiresAt: expiresAt})
	return nil
}

func (s *FakeTokenSender) SentCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Sent)
}
