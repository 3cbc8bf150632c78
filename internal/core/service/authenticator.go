package service

import (
	"context"
	"time"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
)

// Authenticator checks supplied credentials for one role variant.
type Authenticator interface {
	Authenticate(ctx context.Context, identity *domain.Identity, in ports.LoginInput) error
}

type passwordAuthenticator struct {
	hasher ports.PasswordHasher
}

func (a passwordAuthenticator) Authenticate(_ context.Context, identity *domain.Identity, in ports.LoginInput) error {
	if in.Password == "" || !a.hasher.Verify(in.Password, identity.PasswordHash) {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// adminAuthenticator verifies passwords of admin identities only.
type adminAuthenticator struct {
	password passwordAuthenticator
}

func (a adminAuthenticator) Authenticate(ctx context.Context, identity *domain.Identity, in ports.LoginInput) error {
	if identity.Role != domain.RoleAdmin {
		return domain.ErrInvalidCredentials
	}
	return a.password.Authenticate(ctx, identity, in)
}

// loginCodeAuthenticator validates and consumes the single-use provider code.
type loginCodeAuthenticator struct {
	approvals ports.ApprovalRepository
	now       func() time.Time
}

func (a loginCodeAuthenticator) Authenticate(ctx context.Context, identity *domain.Identity, in ports.LoginInput) error {
	if !identity.Approval.Approved {
		return domain.ErrNotApproved
	}
	now := a.now()
	if !identity.Approval.CodeMatches(in.LoginCode, now) {
		return domain.ErrInvalidCredentials
	}
	// The conditional clear makes the code single use even under concurrent logins.
	consumed, err := a.approvals.ConsumeLoginCode(ctx, identity.ID, in.LoginCode, now)
	if err != nil {
		return err
	}
	if !consumed {
		return domain.ErrInvalidCredentials
	}
	return nil
}
