package ports

import (
	"context"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
)

// ProviderDetailsInput is required when registering a service provider.
type ProviderDetailsInput struct {
	Location    string   `validate:"required,max=255"`
	NationalID  string   `validate:"required,max=64"`
	Phone       string   `validate:"required,max=32"`
	Service     string   `validate:"required,max=255"`
	Description string   `validate:"max=2000"`
	Images      []string `validate:"min=1,dive,required"`
}

// RegisterInput carries a self-registration request.
type RegisterInput struct {
	Name     string      `validate:"required,max=255"`
	Email    string      `validate:"required,email,max=255"`
	Password string      `validate:"required,min=6"`
	Role     domain.Role `validate:"required,oneof=user service_provider"`
	Provider *ProviderDetailsInput `validate:"-"`
}

// RegisterResult is returned by a successful registration.
type RegisterResult struct {
	Identity *domain.Identity
	Message  string
}

// RegistrationService creates accounts.
type RegistrationService interface {
	Register(ctx context.Context, in RegisterInput) (*RegisterResult, error)
	CreateAdmin(ctx context.Context, name, email, password string) (*domain.Identity, error)
}

// ApproveResult reports an approval and whether its notification went out.
type ApproveResult struct {
	Identity         *domain.Identity
	NotificationSent bool
}

// ApprovalService promotes pending providers.
type ApprovalService interface {
	ListPending(ctx context.Context) ([]domain.ProviderListing, error)
	Approve(ctx context.Context, identityID string) (*ApproveResult, error)
}

// LoginInput carries login credentials. Password is used by user and admin
// accounts, LoginCode by service providers.
type LoginInput struct {
	Email     string
	Password  string
	LoginCode string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token    string
	Identity *domain.Identity
}

// AuthService authenticates identities and manages sessions.
type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*Session, error)
}

// ProviderDirectory is the public read path over approved providers.
type ProviderDirectory interface {
	ListApproved(ctx context.Context) ([]domain.ProviderListing, error)
}

// Actor is the authenticated identity driving an operation.
type Actor struct {
	ID   string
	Role domain.Role
}

// CreateBookingInput carries a new booking request.
type CreateBookingInput struct {
	UserID     string `validate:"required"`
	ProviderID string `validate:"required"`
	Service    string `validate:"required,max=255"`
	Location   string `validate:"required,max=255"`
	Date       string `validate:"required,datetime=2006-01-02"`
	Time       string `validate:"required,datetime=15:04"`
}

// ListBookingsInput carries the optional filters of a listing.
type ListBookingsInput struct {
	Actor      Actor
	UserID     string
	ProviderID string
}

// BookingService drives the booking state machine.
type BookingService interface {
	Create(ctx context.Context, in CreateBookingInput) (*domain.BookingView, error)
	Get(ctx context.Context, id string, actor Actor) (*domain.BookingView, error)
	List(ctx context.Context, in ListBookingsInput) ([]domain.BookingView, error)
	Accept(ctx context.Context, id string, actor Actor) (*domain.BookingView, error)
	Decline(ctx context.Context, id string, actor Actor) (*domain.BookingView, error)
	Complete(ctx context.Context, id string, actor Actor) (*domain.BookingView, error)
	Cancel(ctx context.Context, id string, actor Actor) (*domain.BookingView, error)
	Destroy(ctx context.Context, id string, actor Actor) error
}

// SubmitReportInput carries a new incident report.
type SubmitReportInput struct {
	ReporterID  string `validate:"required"`
	Category    string `validate:"required,max=255"`
	Urgency     string `validate:"required,max=255"`
	Description string `validate:"required,min=10"`
	ImageRef    string `validate:"max=512"`
}

// ReportService handles incident reports.
type ReportService interface {
	Submit(ctx context.Context, in SubmitReportInput) (*domain.Report, error)
	List(ctx context.Context) ([]domain.ReportView, error)
}
