package ports

import (
	"context"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
)

// PasswordHasher hashes and verifies credentials.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// Notifier delivers a message to an address. Callers do not retry.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Session is what a valid token resolves to.
type Session struct {
	IdentityID string
	Role       domain.Role
	TokenID    string
}

// TokenIssuer mints, resolves and revokes opaque session tokens.
type TokenIssuer interface {
	Issue(ctx context.Context, identity *domain.Identity) (string, error)
	// Resolve returns domain.ErrInvalidCredentials for unknown, expired or revoked tokens.
	Resolve(ctx context.Context, token string) (*Session, error)
	// Revoke is idempotent: invalid or already revoked tokens are not an error.
	Revoke(ctx context.Context, token string) error
}

// FileResolver maps a stored file reference to an externally fetchable locator.
type FileResolver interface {
	Resolve(ref string) string
}
