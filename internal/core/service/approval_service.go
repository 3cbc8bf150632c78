package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
)

const (
	defaultLoginCodeTTL = 72 * time.Hour
	approvalSubject     = "Service Provider Login Code"
)

// ApprovalService promotes pending providers and mints their login codes.
type ApprovalService struct {
	identities ports.IdentityRepository
	approvals  ports.ApprovalRepository
	notifier   ports.Notifier
	codeTTL    time.Duration
	log        zerolog.Logger
	now        func() time.Time
	newCode    func() (string, error)
}

func NewApprovalService(
	identities ports.IdentityRepository,
	approvals ports.ApprovalRepository,
	notifier ports.Notifier,
	codeTTL time.Duration,
	log zerolog.Logger,
) *ApprovalService {
	if codeTTL <= 0 {
		codeTTL = defaultLoginCodeTTL
	}
	return &ApprovalService{
		identities: identities,
		approvals:  approvals,
		notifier:   notifier,
		codeTTL:    codeTTL,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
		newCode:    generateLoginCode,
	}
}

// ListPending returns service providers still awaiting approval.
func (s *ApprovalService) ListPending(ctx context.Context) ([]domain.ProviderListing, error) {
	listings, err := s.identities.ListProviders(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list pending providers: %w", err)
	}
	return listings, nil
}

// Approve commits the approval and the fresh code first, then sends exactly
// one notification. A delivery failure is logged and reported in the result;
// the approval stays committed.
func (s *ApprovalService) Approve(ctx context.Context, identityID string) (*ports.ApproveResult, error) {
	code, err := s.newCode()
	if err != nil {
		return nil, fmt.Errorf("approve provider: generate code: %w", err)
	}

	now := s.now()
	identity, err := s.approvals.Approve(ctx, identityID, code, now, now.Add(s.codeTTL))
	if err != nil {
		return nil, fmt.Errorf("approve provider: %w", err)
	}

	s.log.Info().Str("identity_id", identity.ID).Msg("service provider approved")

	body := fmt.Sprintf("Hello %s, your account has been approved! Use this code to log in: %s", identity.Name, code)
	sent := true
	if err := s.notifier.Send(ctx, identity.Email, approvalSubject, body); err != nil {
		sent = false
		s.log.Warn().Err(err).Str("identity_id", identity.ID).Msg("failed to deliver login code")
	}

	return &ports.ApproveResult{Identity: identity, NotificationSent: sent}, nil
}

// generateLoginCode returns a uniformly random code in [100000, 999999].
func generateLoginCode() (string, error) {
	span := big.NewInt(domain.LoginCodeMax - domain.LoginCodeMin + 1)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+domain.LoginCodeMin), nil
}
