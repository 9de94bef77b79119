package security

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher() *BcryptHasher {
	return NewBcryptHasher(bcrypt.MinCost, nil)
}

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := newTestHasher()
	ctx := context.Background()

	digest, err := h.Hash(ctx, "Abcdef1!")
	require.NoError(t, err)
	assert.NotEqual(t, "Abcdef1!", digest)

	assert.True(t, h.Verify(ctx, "Abcdef1!", digest))
	assert.False(t, h.Verify(ctx, "Abcdef1?", digest))
	assert.False(t, h.Verify(ctx, "", digest))
}

func TestBcryptHasher_SaltedDigestsDiffer(t *testing.T) {
	h := newTestHasher()
	ctx := context.Background()

	first, err := h.Hash(ctx, "Str0ng!pass")
	require.NoError(t, err)
	second, err := h.Hash(ctx, "Str0ng!pass")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify(ctx, "Str0ng!pass", first))
	assert.True(t, h.Verify(ctx, "Str0ng!pass", second))
}

func TestBcryptHasher_MalformedDigest(t *testing.T) {
	h := newTestHasher()
	for _, digest := range []string{"", "not-a-hash", "$2a$10$short"} {
		assert.False(t, h.Verify(context.Background(), "whatever", digest), digest)
	}
}

func TestBcryptHasher_TooLong(t *testing.T) {
	_, err := newTestHasher().Hash(context.Background(), strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestBcryptHasher_CostClamped(t *testing.T) {
	assert.Equal(t, bcrypt.MinCost, NewBcryptHasher(1, nil).Cost())
	assert.Equal(t, bcrypt.MaxCost, NewBcryptHasher(99, nil).Cost())
	assert.Equal(t, 10, NewBcryptHasher(10, nil).Cost())
}

func TestBcryptHasher_CancelledContext(t *testing.T) {
	h := newTestHasher()
	digest, err := h.Hash(context.Background(), "Abcdef1!")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = h.Hash(ctx, "Abcdef1!")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, h.Verify(ctx, "Abcdef1!", digest))
}

type countingExecutor struct{ jobs int }

func (e *countingExecutor) Do(_ context.Context, job func()) error {
	e.jobs++
	job()
	return nil
}

func TestBcryptHasher_UsesExecutor(t *testing.T) {
	exec := &countingExecutor{}
	h := NewBcryptHasher(bcrypt.MinCost, exec)

	digest, err := h.Hash(context.Background(), "Abcdef1!")
	require.NoError(t, err)
	require.True(t, h.Verify(context.Background(), "Abcdef1!", digest))
	assert.Equal(t, 2, exec.jobs)
}
