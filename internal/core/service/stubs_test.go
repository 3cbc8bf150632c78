package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Identity + approval store
// ---------------------------------------------------------------------------

// stubIdentityRepo mirrors the real repositories: identity, profile and
// approval live in one record and Create is all-or-nothing.
type stubIdentityRepo struct {
	mu        sync.Mutex
	seq       int
	byID      map[string]*domain.Identity
	profiles  map[string]*domain.ProviderProfile
	createErr error
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{
		byID:     make(map[string]*domain.Identity),
		profiles: make(map[string]*domain.ProviderProfile),
	}
}

func cloneIdentity(i *domain.Identity) *domain.Identity {
	if i == nil {
		return nil
	}
	clone := *i
	if i.Approval.CodeExpiresAt != nil {
		t := *i.Approval.CodeExpiresAt
		clone.Approval.CodeExpiresAt = &t
	}
	return &clone
}

func cloneProfile(p *domain.ProviderProfile) domain.ProviderProfile {
	clone := *p
	clone.Images = append([]string(nil), p.Images...)
	return clone
}

func (r *stubIdentityRepo) Create(_ context.Context, identity *domain.Identity, profile *domain.ProviderProfile) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == identity.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	if profile != nil {
		for _, p := range r.profiles {
			if p.NationalID == profile.NationalID {
				return nil, domain.ErrNationalIDTaken
			}
		}
	}

	r.seq++
	stored := cloneIdentity(identity)
	stored.ID = fmt.Sprintf("id-%d", r.seq)
	r.byID[stored.ID] = stored
	if profile != nil {
		p := cloneProfile(profile)
		p.IdentityID = stored.ID
		r.profiles[stored.ID] = &p
	}
	return cloneIdentity(stored), nil
}

func (r *stubIdentityRepo) FindByID(_ context.Context, id string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	return cloneIdentity(i), nil
}

func (r *stubIdentityRepo) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.byID {
		if i.Email == email {
			return cloneIdentity(i), nil
		}
	}
	return nil, domain.ErrIdentityNotFound
}

func (r *stubIdentityRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*domain.Identity, len(ids))
	for _, id := range ids {
		if i, ok := r.byID[id]; ok {
			out[id] = cloneIdentity(i)
		}
	}
	return out, nil
}

func (r *stubIdentityRepo) FindProvider(_ context.Context, id string) (*domain.ProviderListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.byID[id]
	if !ok || i.Role != domain.RoleServiceProvider {
		return nil, domain.ErrProviderNotFound
	}
	return &domain.ProviderListing{Identity: *cloneIdentity(i), Profile: cloneProfile(r.profiles[id])}, nil
}

func (r *stubIdentityRepo) ListProviders(_ context.Context, approved bool) ([]domain.ProviderListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ProviderListing
	for id, i := range r.byID {
		if i.Role != domain.RoleServiceProvider || i.Approval.Approved != approved {
			continue
		}
		out = append(out, domain.ProviderListing{Identity: *cloneIdentity(i), Profile: cloneProfile(r.profiles[id])})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Identity.ID < out[b].Identity.ID })
	return out, nil
}

func (r *stubIdentityRepo) Approve(_ context.Context, id, code string, approvedAt, expiresAt time.Time) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.byID[id]
	if !ok || i.Role != domain.RoleServiceProvider {
		return nil, domain.ErrProviderNotFound
	}
	i.Approval = domain.Approval{
		Approved:      true,
		LoginCode:     code,
		CodeExpiresAt: &expiresAt,
		ApprovedAt:    &approvedAt,
	}
	return cloneIdentity(i), nil
}

func (r *stubIdentityRepo) ConsumeLoginCode(_ context.Context, id, code string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.byID[id]
	if !ok || !i.Approval.CodeMatches(code, now) {
		return false, nil
	}
	i.Approval.LoginCode = ""
	i.Approval.CodeExpiresAt = nil
	return true, nil
}

func (r *stubIdentityRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// ---------------------------------------------------------------------------
// Bookings
// ---------------------------------------------------------------------------

type stubBookingRepo struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*domain.Booking
}

func newStubBookingRepo() *stubBookingRepo {
	return &stubBookingRepo{byID: make(map[string]*domain.Booking)}
}

func (r *stubBookingRepo) Create(_ context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	b.ID = fmt.Sprintf("bk-%d", r.seq)
	clone := *b
	r.byID[b.ID] = &clone
	return nil
}

func (r *stubBookingRepo) FindByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

// Transition checks and writes under one lock, like the conditional update.
func (r *stubBookingRepo) Transition(_ context.Context, id string, t domain.Transition, at time.Time) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	if !t.Allows(b) {
		return nil, domain.InvalidTransition(t.Name, b)
	}
	t.Apply(b)
	b.UpdatedAt = at
	clone := *b
	return &clone, nil
}

func (r *stubBookingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrBookingNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubBookingRepo) List(_ context.Context, f ports.BookingFilter) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Booking
	for _, b := range r.byID {
		if f.UserID != "" && b.UserID != f.UserID {
			continue
		}
		if f.ProviderID != "" && b.ProviderID != f.ProviderID {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

// ---------------------------------------------------------------------------
// Reports
// ---------------------------------------------------------------------------

type stubReportRepo struct {
	reports []domain.Report
}

func (r *stubReportRepo) Create(_ context.Context, rep *domain.Report) error {
	rep.ID = fmt.Sprintf("rp-%d", len(r.reports)+1)
	r.reports = append(r.reports, *rep)
	return nil
}

func (r *stubReportRepo) List(_ context.Context) ([]domain.Report, error) {
	out := make([]domain.Report, 0, len(r.reports))
	for i := len(r.reports) - 1; i >= 0; i-- {
		out = append(out, r.reports[i])
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

type stubHasher struct{}

func (stubHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }

func (stubHasher) Verify(plaintext, digest string) bool { return digest == "hashed:"+plaintext }

type sentMessage struct {
	to, subject, body string
}

type stubNotifier struct {
	sent []sentMessage
	err  error
}

func (n *stubNotifier) Send(_ context.Context, to, subject, body string) error {
	n.sent = append(n.sent, sentMessage{to: to, subject: subject, body: body})
	return n.err
}

type stubTokens struct {
	issued  map[string]*ports.Session
	revoked []string
}

func newStubTokens() *stubTokens {
	return &stubTokens{issued: make(map[string]*ports.Session)}
}

func (s *stubTokens) Issue(_ context.Context, identity *domain.Identity) (string, error) {
	token := fmt.Sprintf("tok-%s-%d", identity.ID, len(s.issued)+1)
	s.issued[token] = &ports.Session{IdentityID: identity.ID, Role: identity.Role, TokenID: token}
	return token, nil
}

func (s *stubTokens) Resolve(_ context.Context, token string) (*ports.Session, error) {
	sess, ok := s.issued[token]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return sess, nil
}

func (s *stubTokens) Revoke(_ context.Context, token string) error {
	delete(s.issued, token)
	s.revoked = append(s.revoked, token)
	return nil
}

// prefixResolver prepends a base URL to bare references.
type prefixResolver struct{ base string }

func (p prefixResolver) Resolve(ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return p.base + "/api/image/" + ref
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var errStorageDown = errors.New("storage down")

func providerInput(email, nationalID string) ports.RegisterInput {
	return ports.RegisterInput{
		Name:     "Grace Plumber",
		Email:    email,
		Password: "secret1",
		Role:     domain.RoleServiceProvider,
		Provider: &ports.ProviderDetailsInput{
			Location:    "Lagos",
			NationalID:  nationalID,
			Phone:       "+2348000000000",
			Service:     "plumbing",
			Description: "Pipes and leaks",
			Images:      []string{"pipe.jpg"},
		},
	}
}

func userInput(email string) ports.RegisterInput {
	return ports.RegisterInput{
		Name:     "Ada User",
		Email:    email,
		Password: "secret1",
		Role:     domain.RoleUser,
	}
}

// marketplace wires every service on shared stubs.
type marketplace struct {
	identities   *stubIdentityRepo
	bookingsRepo *stubBookingRepo
	notifier     *stubNotifier
	tokens       *stubTokens

	registration *RegistrationService
	approval     *ApprovalService
	auth         *AuthService
	bookings     *BookingService
}

func newMarketplace() *marketplace {
	m := &marketplace{
		identities:   newStubIdentityRepo(),
		bookingsRepo: newStubBookingRepo(),
		notifier:     &stubNotifier{},
		tokens:       newStubTokens(),
	}
	m.registration = NewRegistrationService(m.identities, stubHasher{}, discardLogger)
	m.approval = NewApprovalService(m.identities, m.identities, m.notifier, time.Hour, discardLogger)
	m.auth = NewAuthService(m.identities, m.identities, stubHasher{}, m.tokens, discardLogger)
	m.bookings = NewBookingService(m.bookingsRepo, m.identities, prefixResolver{base: "http://localhost:8080"}, discardLogger)
	return m
}

func (m *marketplace) mustRegister(in ports.RegisterInput) *domain.Identity {
	res, err := m.registration.Register(context.Background(), in)
	if err != nil {
		panic(fmt.Sprintf("register %s: %v", in.Email, err))
	}
	return res.Identity
}

func (m *marketplace) approvedProvider(email, nationalID string) *domain.Identity {
	p := m.mustRegister(providerInput(email, nationalID))
	if _, err := m.approval.Approve(context.Background(), p.ID); err != nil {
		panic(fmt.Sprintf("approve %s: %v", p.ID, err))
	}
	return p
}
