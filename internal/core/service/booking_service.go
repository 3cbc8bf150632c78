package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
)

// BookingService drives the booking state machine.
type BookingService struct {
	bookings   ports.BookingRepository
	identities ports.IdentityRepository
	files      ports.FileResolver
	log        zerolog.Logger
	now        func() time.Time
}

func NewBookingService(
	bookings ports.BookingRepository,
	identities ports.IdentityRepository,
	files ports.FileResolver,
	log zerolog.Logger,
) *BookingService {
	return &BookingService{
		bookings:   bookings,
		identities: identities,
		files:      files,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create validates the request and the referenced parties, then stores the
// booking with both statuses pending.
func (s *BookingService) Create(ctx context.Context, in ports.CreateBookingInput) (*domain.BookingView, error) {
	in.Service = strings.TrimSpace(in.Service)
	in.Location = strings.TrimSpace(in.Location)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	user, err := s.identities.FindByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("user_id", "the selected user is invalid")
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}
	if user.Role != domain.RoleUser {
		return nil, domain.NewValidationError("user_id", "only user accounts can request bookings")
	}

	provider, err := s.identities.FindProvider(ctx, in.ProviderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("provider_id", "the selected provider is invalid")
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}
	if !provider.Identity.IsApproved() {
		return nil, domain.NewValidationError("provider_id", "the selected provider is not approved")
	}

	now := s.now()
	b := &domain.Booking{
		UserID:         user.ID,
		ProviderID:     provider.Identity.ID,
		Service:        in.Service,
		Location:       in.Location,
		Date:           in.Date,
		Time:           in.Time,
		UserStatus:     domain.UserPending,
		ProviderStatus: domain.ProviderPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info().Str("booking_id", b.ID).Str("user_id", b.UserID).Str("provider_id", b.ProviderID).Msg("booking created")

	summary := user.Summary()
	provider.Profile.Images = resolveImages(s.files, provider.Profile.Images)
	return &domain.BookingView{Booking: *b, User: &summary, Provider: provider}, nil
}

func (s *BookingService) Get(ctx context.Context, id string, actor ports.Actor) (*domain.BookingView, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isPartyOrAdmin(b, actor) {
		return nil, domain.ErrForbidden
	}
	return s.view(ctx, b)
}

// List returns bookings matching the filters. User and provider actors only
// ever see their own bookings; admins may filter freely.
func (s *BookingService) List(ctx context.Context, in ports.ListBookingsInput) ([]domain.BookingView, error) {
	filter := ports.BookingFilter{UserID: in.UserID, ProviderID: in.ProviderID}
	switch in.Actor.Role {
	case domain.RoleUser:
		filter.UserID = in.Actor.ID
	case domain.RoleServiceProvider:
		filter.ProviderID = in.Actor.ID
	}

	bookings, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return s.views(ctx, bookings)
}

func (s *BookingService) Accept(ctx context.Context, id string, actor ports.Actor) (*domain.BookingView, error) {
	return s.transition(ctx, id, actor, domain.TransitionAccept, isOwningProvider)
}

func (s *BookingService) Decline(ctx context.Context, id string, actor ports.Actor) (*domain.BookingView, error) {
	return s.transition(ctx, id, actor, domain.TransitionDecline, isOwningProvider)
}

// Complete moves both sides to completed in one write. Either party (or an
// admin) may trigger it.
func (s *BookingService) Complete(ctx context.Context, id string, actor ports.Actor) (*domain.BookingView, error) {
	return s.transition(ctx, id, actor, domain.TransitionComplete, isPartyOrAdmin)
}

// Cancel is the user's soft withdrawal; the record is kept with a terminal
// cancelled user status.
func (s *BookingService) Cancel(ctx context.Context, id string, actor ports.Actor) (*domain.BookingView, error) {
	return s.transition(ctx, id, actor, domain.TransitionCancel, isOwningUserOrAdmin)
}

// Destroy physically removes the booking. It is irreversible.
func (s *BookingService) Destroy(ctx context.Context, id string, actor ports.Actor) error {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !isPartyOrAdmin(b, actor) {
		return domain.ErrForbidden
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		return fmt.Errorf("destroy booking: %w", err)
	}
	s.log.Info().Str("booking_id", id).Str("actor_id", actor.ID).Msg("booking destroyed")
	return nil
}

func (s *BookingService) transition(
	ctx context.Context,
	id string,
	actor ports.Actor,
	t domain.Transition,
	allowed func(*domain.Booking, ports.Actor) bool,
) (*domain.BookingView, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !allowed(b, actor) {
		return nil, domain.ErrForbidden
	}
	if !t.Allows(b) {
		return nil, domain.InvalidTransition(t.Name, b)
	}

	// The repository re-checks the precondition inside the write, so a
	// concurrent transition that won the race surfaces as ErrInvalidState here.
	updated, err := s.bookings.Transition(ctx, id, t, s.now())
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("booking_id", id).
		Str("transition", t.Name).
		Str("actor_id", actor.ID).
		Str("user_status", string(updated.UserStatus)).
		Str("provider_status", string(updated.ProviderStatus)).
		Msg("booking transitioned")

	return s.view(ctx, updated)
}

func (s *BookingService) view(ctx context.Context, b *domain.Booking) (*domain.BookingView, error) {
	views, err := s.views(ctx, []domain.Booking{*b})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// views joins bookings with user summaries and provider listings. Parties
// that no longer exist are left nil.
func (s *BookingService) views(ctx context.Context, bookings []domain.Booking) ([]domain.BookingView, error) {
	ids := make([]string, 0, len(bookings))
	seen := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		if _, ok := seen[b.UserID]; !ok {
			seen[b.UserID] = struct{}{}
			ids = append(ids, b.UserID)
		}
	}
	users, err := s.identities.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load booking users: %w", err)
	}

	providers := make(map[string]*domain.ProviderListing)
	out := make([]domain.BookingView, 0, len(bookings))
	for _, b := range bookings {
		v := domain.BookingView{Booking: b}
		if u, ok := users[b.UserID]; ok {
			summary := u.Summary()
			v.User = &summary
		}

		p, ok := providers[b.ProviderID]
		if !ok {
			p, err = s.identities.FindProvider(ctx, b.ProviderID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("load booking provider: %w", err)
			}
			if p != nil {
				p.Profile.Images = resolveImages(s.files, p.Profile.Images)
			}
			providers[b.ProviderID] = p
		}
		v.Provider = p
		out = append(out, v)
	}
	return out, nil
}

func isOwningProvider(b *domain.Booking, a ports.Actor) bool {
	return a.Role == domain.RoleServiceProvider && b.ProviderID == a.ID
}

func isOwningUserOrAdmin(b *domain.Booking, a ports.Actor) bool {
	return a.Role == domain.RoleAdmin || (a.Role == domain.RoleUser && b.UserID == a.ID)
}

func isPartyOrAdmin(b *domain.Booking, a ports.Actor) bool {
	return a.Role == domain.RoleAdmin || b.IsParty(a.ID)
}
