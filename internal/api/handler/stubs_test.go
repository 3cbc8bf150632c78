package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskconnect/marketplace-api/internal/api/middleware"
	"github.com/taskconnect/marketplace-api/internal/core/domain"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
)

type stubRegistration struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error)
}

func (s *stubRegistration) Register(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubRegistration) CreateAdmin(context.Context, string, string, string) (*domain.Identity, error) {
	panic("not used")
}

type stubAuthService struct {
	loginFn  func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error)
	logouts  []string
	loginHit int
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	s.loginHit++
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) Logout(_ context.Context, token string) error {
	s.logouts = append(s.logouts, token)
	return nil
}

func (s *stubAuthService) Authenticate(context.Context, string) (*ports.Session, error) {
	return nil, domain.ErrInvalidCredentials
}

type stubApprovals struct {
	pending   []domain.ProviderListing
	approveFn func(ctx context.Context, id string) (*ports.ApproveResult, error)
}

func (s *stubApprovals) ListPending(context.Context) ([]domain.ProviderListing, error) {
	return s.pending, nil
}

func (s *stubApprovals) Approve(ctx context.Context, id string) (*ports.ApproveResult, error) {
	return s.approveFn(ctx, id)
}

type stubDirectory struct {
	listings []domain.ProviderListing
}

func (s *stubDirectory) ListApproved(context.Context) ([]domain.ProviderListing, error) {
	return s.listings, nil
}

type stubBookings struct {
	createFn     func(ctx context.Context, in ports.CreateBookingInput) (*domain.BookingView, error)
	listFn       func(ctx context.Context, in ports.ListBookingsInput) ([]domain.BookingView, error)
	transitionFn func(name, id string, actor ports.Actor) (*domain.BookingView, error)
	destroyErr   error
}

func (s *stubBookings) Create(ctx context.Context, in ports.CreateBookingInput) (*domain.BookingView, error) {
	return s.createFn(ctx, in)
}

func (s *stubBookings) Get(_ context.Context, id string, actor ports.Actor) (*domain.BookingView, error) {
	return s.transitionFn("get", id, actor)
}

func (s *stubBookings) List(ctx context.Context, in ports.ListBookingsInput) ([]domain.BookingView, error) {
	return s.listFn(ctx, in)
}

func (s *stubBookings) Accept(_ context.Context, id string, actor ports.Actor) (*domain.BookingView, error) {
	return s.transitionFn("accept", id, actor)
}

func (s *stubBookings) Decline(_ context.Context, id string, actor ports.Actor) (*domain.BookingView, error) {
	return s.transitionFn("decline", id, actor)
}

func (s *stubBookings) Complete(_ context.Context, id string, actor ports.Actor) (*domain.BookingView, error) {
	return s.transitionFn("complete", id, actor)
}

func (s *stubBookings) Cancel(_ context.Context, id string, actor ports.Actor) (*domain.BookingView, error) {
	return s.transitionFn("cancel", id, actor)
}

func (s *stubBookings) Destroy(context.Context, string, ports.Actor) error {
	return s.destroyErr
}

type stubReports struct {
	submitted []ports.SubmitReportInput
	views     []domain.ReportView
}

func (s *stubReports) Submit(_ context.Context, in ports.SubmitReportInput) (*domain.Report, error) {
	s.submitted = append(s.submitted, in)
	return &domain.Report{ID: "r-1", ReporterID: in.ReporterID, Category: in.Category, Status: domain.ReportPending}, nil
}

func (s *stubReports) List(context.Context) ([]domain.ReportView, error) {
	return s.views, nil
}

// newContext builds an echo context for method/target with an optional JSON
// body and, when sess is non-nil, the values the Auth middleware would set.
func newContext(method, target, body string, sess *ports.Session) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sess != nil {
		c.Set(middleware.CtxSession, sess)
		c.Set(middleware.CtxToken, "tok-"+sess.IdentityID)
		c.Set(middleware.CtxRole, string(sess.Role))
	}
	return c, rec
}

var (
	userSession     = &ports.Session{IdentityID: "u-1", Role: domain.RoleUser, TokenID: "jti-u"}
	providerSession = &ports.Session{IdentityID: "p-1", Role: domain.RoleServiceProvider, TokenID: "jti-p"}
)

func providerListing() domain.ProviderListing {
	return domain.ProviderListing{
		Identity: domain.Identity{
			ID:       "p-1",
			Name:     "Grace",
			Email:    "grace@example.com",
			Role:     domain.RoleServiceProvider,
			Approval: domain.Approval{Approved: true, LoginCode: "123456"},
		},
		Profile: domain.ProviderProfile{
			IdentityID: "p-1",
			Location:   "Lagos",
			NationalID: "NIN-1",
			Phone:      "+2348000000",
			Service:    "plumbing",
			Images:     []string{"http://localhost:8080/api/image/pipe.jpg"},
		},
	}
}
