package ports

import "context"

// PasswordHasher hashes and verifies credentials. Verify returns false for
// a malformed digest instead of failing.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, digest string) bool
}

// TokenIssuer issues and verifies signed bearer tokens that carry an account id.
type TokenIssuer interface {
	Issue(accountID string) (string, error)
	Verify(token string) (string, error)
}
