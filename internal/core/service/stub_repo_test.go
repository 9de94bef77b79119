package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/accounthub/account-service/internal/core/domain"
	"github.com/accounthub/account-service/internal/core/ports"
)

// stubAccountRepo is an in-memory AccountRepository with the same error
// contract as the Mongo implementation.
type stubAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	seq      int

	// failWith, when set, is returned by every call.
	failWith error
	// createErr, when set, is returned by Create only.
	createErr error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	if a.LastLogin != nil {
		t := *a.LastLogin
		clone.LastLogin = &t
	}
	return &clone
}

func (r *stubAccountRepo) emailTaken(email, exceptID string) bool {
	for id, a := range r.accounts {
		if a.Email == email && id != exceptID {
			return true
		}
	}
	return false
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	if r.createErr != nil {
		return nil, r.createErr
	}
	if r.emailTaken(account.Email, "") {
		return nil, domain.ErrDuplicateEmail
	}
	r.seq++
	stored := cloneAccount(account)
	stored.ID = fmt.Sprintf("acc-%d", r.seq)
	r.accounts[stored.ID] = stored
	return cloneAccount(stored), nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, a := range r.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubAccountRepo) List(_ context.Context, f ports.AccountFilter) ([]*domain.Account, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, 0, r.failWith
	}
	var matched []*domain.Account
	for i := 1; i <= r.seq; i++ {
		a, ok := r.accounts[fmt.Sprintf("acc-%d", i)]
		if !ok {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Role != "" && a.Role != f.Role {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(a.FullName), q) && !strings.Contains(a.Email, q) {
				continue
			}
		}
		matched = append(matched, cloneAccount(a))
	}
	total := int64(len(matched))
	start := (f.Page - 1) * f.Limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubAccountRepo) UpdateProfile(_ context.Context, id string, changes ports.ProfileChanges) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if changes.Email != nil && r.emailTaken(*changes.Email, id) {
		return nil, domain.ErrDuplicateEmail
	}
	if changes.FullName != nil {
		a.FullName = *changes.FullName
	}
	if changes.Email != nil {
		a.Email = *changes.Email
	}
	a.UpdatedAt = time.Now().UTC()
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.PasswordHash = passwordHash
	return nil
}

func (r *stubAccountRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.LastLogin = &at
	return nil
}

func (r *stubAccountRepo) TransitionStatus(_ context.Context, id string, to domain.Status) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if a.Status == to {
		return nil, domain.NewValidationError("status unchanged")
	}
	a.Status = to
	return cloneAccount(a), nil
}

// seed stores an account directly, bypassing signup rules.
func (r *stubAccountRepo) seed(a *domain.Account) *domain.Account {
	created, err := r.Create(context.Background(), a)
	if err != nil {
		panic(err)
	}
	return created
}

// stubCache records cache traffic for assertions.
type stubCache struct {
	mu          sync.Mutex
	entries     map[string]*domain.Account
	invalidated []string
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]*domain.Account)}
}

func (c *stubCache) Get(_ context.Context, id string) (*domain.Account, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.entries[id]
	return cloneAccount(a), ok
}

func (c *stubCache) Set(_ context.Context, a *domain.Account) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[a.ID] = cloneAccount(a)
}

func (c *stubCache) Invalidate(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	c.invalidated = append(c.invalidated, id)
}
