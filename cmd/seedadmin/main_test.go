package main

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accounthub/account-service/internal/core/domain"
	"github.com/accounthub/account-service/internal/core/ports"
)

type fakeStore struct {
	account     *domain.Account
	findErr     error
	roleSet     domain.Role
	transitions []domain.Status
}

func (f *fakeStore) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.account == nil || f.account.Email != email {
		return nil, domain.ErrNotFound
	}
	return f.account, nil
}

func (f *fakeStore) SetRole(_ context.Context, _ string, role domain.Role) error {
	f.roleSet = role
	return nil
}

func (f *fakeStore) TransitionStatus(_ context.Context, _ string, to domain.Status) (*domain.Account, error) {
	f.transitions = append(f.transitions, to)
	return f.account, nil
}

type fakeSignup struct {
	got ports.SignupInput
	err error
}

func (f *fakeSignup) Signup(_ context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	f.got = in
	if f.err != nil {
		return nil, f.err
	}
	return &ports.AuthResult{Token: "t", Account: &domain.Account{ID: "acc-1", Email: in.Email, Role: domain.Role(in.Role)}}, nil
}

func (f *fakeSignup) Login(context.Context, ports.LoginInput) (*ports.AuthResult, error) {
	return nil, errors.New("not used")
}

func TestSeed_CreatesAdmin(t *testing.T) {
	store := &fakeStore{}
	signup := &fakeSignup{}

	err := seed(context.Background(), store, signup, seedInput{
		Email: "root@x.com", FullName: "Root User", Password: "Abcdef1!",
	}, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, "admin", signup.got.Role)
	assert.Equal(t, "root@x.com", signup.got.Email)
	assert.Empty(t, store.transitions)
}

func TestSeed_PromotesExisting(t *testing.T) {
	store := &fakeStore{account: &domain.Account{
		ID: "acc-7", Email: "jane@x.com", Role: domain.RoleUser, Status: domain.StatusInactive,
	}}
	signup := &fakeSignup{}

	err := seed(context.Background(), store, signup, seedInput{Email: " JANE@x.com "}, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, store.roleSet)
	assert.Equal(t, []domain.Status{domain.StatusActive}, store.transitions)
	assert.Empty(t, signup.got.Email, "existing accounts are never re-created")
}

func TestSeed_ExistingActiveAdminIsNoop(t *testing.T) {
	store := &fakeStore{account: &domain.Account{
		ID: "acc-7", Email: "jane@x.com", Role: domain.RoleAdmin, Status: domain.StatusActive,
	}}

	require.NoError(t, seed(context.Background(), store, &fakeSignup{}, seedInput{Email: "jane@x.com"}, zerolog.Nop()))
	assert.Empty(t, store.roleSet)
	assert.Empty(t, store.transitions)
}

func TestSeed_Errors(t *testing.T) {
	tests := []struct {
		name    string
		store   *fakeStore
		signup  *fakeSignup
		in      seedInput
		wantErr string
	}{
		{
			name:    "missing email",
			store:   &fakeStore{},
			signup:  &fakeSignup{},
			in:      seedInput{},
			wantErr: "-email is required",
		},
		{
			name:    "new admin without password",
			store:   &fakeStore{},
			signup:  &fakeSignup{},
			in:      seedInput{Email: "root@x.com"},
			wantErr: "a password is required",
		},
		{
			name:    "weak password details surface",
			store:   &fakeStore{},
			signup:  &fakeSignup{err: domain.NewValidationError("Validation failed", "Password must contain at least one uppercase letter")},
			in:      seedInput{Email: "root@x.com", Password: "weak"},
			wantErr: "uppercase",
		},
		{
			name:    "store failure",
			store:   &fakeStore{findErr: domain.Unexpected("find account", errors.New("down"))},
			signup:  &fakeSignup{},
			in:      seedInput{Email: "root@x.com", Password: "Abcdef1!"},
			wantErr: "down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := seed(context.Background(), tt.store, tt.signup, tt.in, zerolog.Nop())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
