package security

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong is returned when the plaintext exceeds bcrypt's 72-byte input limit.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// MaxPasswordBytes is the longest plaintext bcrypt accepts.
const MaxPasswordBytes = 72

// Executor runs CPU-heavy jobs, typically on a bounded worker pool.
// Do returns ctx.Err() when the job could not start before ctx was done.
type Executor interface {
	Do(ctx context.Context, job func()) error
}

type inlineExecutor struct{}

func (inlineExecutor) Do(ctx context.Context, job func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	job()
	return nil
}

// BcryptHasher hashes passwords with bcrypt. The salt and cost are embedded
// in every digest, so Verify needs nothing but the digest itself.
type BcryptHasher struct {
	cost int
	exec Executor
}

// NewBcryptHasher clamps cost into bcrypt's accepted range. A nil exec runs
// jobs on the calling goroutine.
func NewBcryptHasher(cost int, exec Executor) *BcryptHasher {
	switch {
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	if exec == nil {
		exec = inlineExecutor{}
	}
	return &BcryptHasher{cost: cost, exec: exec}
}

// Cost returns the effective work factor.
func (h *BcryptHasher) Cost() int { return h.cost }

// Hash returns a salted bcrypt digest of plaintext.
func (h *BcryptHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	var (
		digest []byte
		err    error
	)
	if runErr := h.exec.Do(ctx, func() {
		digest, err = bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	}); runErr != nil {
		return "", fmt.Errorf("hash password: %w", runErr)
	}
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. bcrypt compares in
// constant time; a malformed digest or a cancelled ctx yields false.
func (h *BcryptHasher) Verify(ctx context.Context, plaintext, digest string) bool {
	var ok bool
	if err := h.exec.Do(ctx, func() {
		ok = bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
	}); err != nil {
		return false
	}
	return ok
}
