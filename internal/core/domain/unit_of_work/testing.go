package uow

import (
	"context"
	"fmt"
	"passreset/internal/core/domain/user"
	"passreset/internal/core/domain/verification"
	"sync"
)

type FakeUnitOfWorkContext struct {
	UserRepository         *user.FakeUserRepository
	SessionRepository      *user.FakeSessionRepository
	VerificationRepository *verification.FakeRepository
	CommitReturnsError     bool
	WasRollbackCalled      bool
	WasCommitCalled        bool
	deleted                []verification.Verification
	lock                   sync.Mutex
}

func NewFakeUnitOfWorkContext(
	userRepository *user.FakeUserRepository,
	sessionRepository *user.FakeSessionRepository,
	verificationRepository *verification.FakeRepository,
) *FakeUnitOfWorkContext {
	return &FakeUnitOfWorkContext{
		UserRepository:         userRepository,
		SessionRepository:      sessionRepository,
		VerificationRepository: verificationRepository,
	}
}

// Rollback puts back verifications deleted within the transaction unless
// it has been committed.
func (c *FakeUnitOfWorkContext) Rollback(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.WasRollbackCalled = true
	if c.WasCommitCalled {
		return nil
	}
	for _, v := range c.deleted {
		c.VerificationRepository.Restore(v)
	}
	c.deleted = nil
	return nil
}

func (c *FakeUnitOfWorkContext) Commit(ctx context.Context) error {
	if c.CommitReturnsError {
		return fmt.Errorf("could not commit transaction")
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	c.WasCommitCalled = true
	c.deleted = nil
	return nil
}

func (c *FakeUnitOfWorkContext) Users() user.UserRepository {
	return c.UserRepository
}

func (c *FakeUnitOfWorkContext) Sessions() user.SessionRepository {
	return c.SessionRepository
}

func (c *FakeUnitOfWorkContext) Verifications() verification.Repository {
	return &fakeTxVerificationRepository{FakeRepository: c.VerificationRepository, tx: c}
}

type fakeTxVerificationRepository struct {
	*verification.FakeRepository
	tx *FakeUnitOfWorkContext
}

func (r *fakeTxVerificationRepository) Delete(ctx context.Context, id verification.ID) error {
	v, err := r.FakeRepository.DeleteAndReturn(ctx, id)
	if err != nil {
		return err
	}
	r.tx.lock.Lock()
	defer r.tx.lock.Unlock()
	r.tx.deleted = append(r.tx.deleted, v)
	return nil
}

// FakeUnitOfWork hands out a new context per Begin call, all sharing the
// same repositories.
type FakeUnitOfWork struct {
	UserRepository         *user.FakeUserRepository
	SessionRepository      *user.FakeSessionRepository
	VerificationRepository *verification.FakeRepository
	BeginReturnsError      bool
	CommitReturnsError     bool
	Contexts               []*FakeUnitOfWorkContext
	lock                   sync.Mutex
}

func NewFakeUnitOfWork() *FakeUnitOfWork {
	userRepository := user.NewFakeUserRepository()
	return &FakeUnitOfWork{
		UserRepository:         userRepository,
		SessionRepository:      user.NewFakeSessionRepository(userRepository),
		VerificationRepository: verification.NewFakeRepository(),
	}
}

func (u *FakeUnitOfWork) Begin(ctx context.Context) (Context, error) {
	if u.BeginReturnsError {
		return nil, fmt.Errorf("could not begin transaction")
	}
	c := NewFakeUnitOfWorkContext(u.UserRepository, u.SessionRepository, u.VerificationRepository)
	c.CommitReturnsError = u.CommitReturnsError
	u.lock.Lock()
	defer u.lock.Unlock()
	u.Contexts = append(u.Contexts, c)
	return c, nil
}

// Context returns the most recently started context.
func (u *FakeUnitOfWork) Context() *FakeUnitOfWorkContext {
	u.lock.Lock()
	defer u.lock.Unlock()
	if len(u.Contexts) == 0 {
		return nil
	}
	return u.Contexts[len(u.Contexts)-1]
}

func (u *FakeUnitOfWork) CommittedCount() int {
	u.lock.Lock()
	defer u.lock.Unlock()
	count := 0
	for _, c := range u.Contexts {
		c.lock.Lock()
		if c.WasCommitCalled {
			count++
		}
		c.lock.Unlock()
	}
	return count
}
