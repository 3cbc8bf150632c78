package ports

import (
	"context"
	"time"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
)

// IdentityRepository persists identities and their provider profiles.
type IdentityRepository interface {
	// Create stores identity and, when profile is non-nil, the linked provider
	// profile plus an unapproved approval record, as one atomic unit. It returns
	// domain.ErrEmailTaken or domain.ErrNationalIDTaken on uniqueness conflicts.
	Create(ctx context.Context, identity *domain.Identity, profile *domain.ProviderProfile) (*domain.Identity, error)
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	// FindByIDs returns the identities that exist among ids, keyed by id.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Identity, error)
	// FindProvider returns domain.ErrProviderNotFound unless id is a service provider.
	FindProvider(ctx context.Context, id string) (*domain.ProviderListing, error)
	ListProviders(ctx context.Context, approved bool) ([]domain.ProviderListing, error)
}

// ApprovalRepository is the only writer of provider approval state.
type ApprovalRepository interface {
	// Approve marks the provider approved and stores code until expiresAt.
	// Returns domain.ErrProviderNotFound when id is not a service provider.
	Approve(ctx context.Context, id, code string, approvedAt, expiresAt time.Time) (*domain.Identity, error)
	// ConsumeLoginCode clears the code if, at now, it matches an approved,
	// unexpired code. It reports whether a code was consumed.
	ConsumeLoginCode(ctx context.Context, id, code string, now time.Time) (bool, error)
}

// BookingFilter narrows List. Empty fields do not filter.
type BookingFilter struct {
	UserID     string
	ProviderID string
}

// BookingRepository persists bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	// Transition applies t in one conditional write. It returns
	// domain.ErrBookingNotFound when the booking does not exist and an error
	// wrapping domain.ErrInvalidState when its statuses do not allow t.
	Transition(ctx context.Context, id string, t domain.Transition, at time.Time) (*domain.Booking, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
}

// ReportRepository persists incident reports.
type ReportRepository interface {
	Create(ctx context.Context, r *domain.Report) error
	List(ctx context.Context) ([]domain.Report, error)
}
