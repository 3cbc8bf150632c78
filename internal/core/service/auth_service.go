package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
)

// AuthService implements login, logout and token resolution.
type AuthService struct {
	identities     ports.IdentityRepository
	tokens         ports.TokenIssuer
	authenticators map[domain.Role]Authenticator
	log            zerolog.Logger
}

func NewAuthService(
	identities ports.IdentityRepository,
	approvals ports.ApprovalRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	log zerolog.Logger,
) *AuthService {
	password := passwordAuthenticator{hasher: hasher}
	return &AuthService{
		identities: identities,
		tokens:     tokens,
		authenticators: map[domain.Role]Authenticator{
			domain.RoleUser:            password,
			domain.RoleAdmin:           adminAuthenticator{password: password},
			domain.RoleServiceProvider: loginCodeAuthenticator{approvals: approvals, now: func() time.Time { return time.Now().UTC() }},
		},
		log: log,
	}
}

func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, domain.NewValidationError("email", "email is required")
	}

	identity, err := s.identities.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	auth, ok := s.authenticators[identity.Role]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if err := auth.Authenticate(ctx, identity, in); err != nil {
		s.log.Debug().Err(err).Str("identity_id", identity.ID).Str("role", string(identity.Role)).Msg("login rejected")
		return nil, err
	}

	token, err := s.tokens.Issue(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	// The stored code is gone after a provider login; keep the returned copy consistent.
	identity.Approval.LoginCode = ""
	identity.Approval.CodeExpiresAt = nil

	s.log.Info().Str("identity_id", identity.ID).Str("role", string(identity.Role)).Msg("login succeeded")
	return &ports.LoginResult{Token: token, Identity: identity}, nil
}

// Logout revokes token. Unknown or already revoked tokens are accepted.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (*ports.Session, error) {
	if token == "" {
		return nil, domain.ErrInvalidCredentials
	}
	return s.tokens.Resolve(ctx, token)
}
