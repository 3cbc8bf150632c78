package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
)

type bookingFixture struct {
	*marketplace
	user     *domain.Identity
	provider *domain.Identity
	admin    *domain.Identity
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	m := newMarketplace()
	admin, err := m.registration.CreateAdmin(context.Background(), "Root", "root@example.com", "rootpass1")
	if err != nil {
		t.Fatalf("CreateAdmin returned error: %v", err)
	}
	return &bookingFixture{
		marketplace: m,
		user:        m.mustRegister(userInput("ada@example.com")),
		provider:    m.approvedProvider("grace@example.com", "NIN-1"),
		admin:       admin,
	}
}

func (f *bookingFixture) actor(i *domain.Identity) ports.Actor {
	return ports.Actor{ID: i.ID, Role: i.Role}
}

func (f *bookingFixture) bookingInput() ports.CreateBookingInput {
	return ports.CreateBookingInput{
		UserID:     f.user.ID,
		ProviderID: f.provider.ID,
		Service:    "plumbing",
		Location:   "12 Marina Road",
		Date:       "2026-05-01",
		Time:       "14:30",
	}
}

func (f *bookingFixture) mustCreate(t *testing.T) *domain.BookingView {
	t.Helper()
	v, err := f.bookings.Create(context.Background(), f.bookingInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return v
}

func (f *bookingFixture) stored(t *testing.T, id string) *domain.Booking {
	t.Helper()
	b, err := f.bookingsRepo.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	return b
}

func TestBookingService_Create(t *testing.T) {
	f := newBookingFixture(t)

	v := f.mustCreate(t)
	if v.Booking.UserStatus != domain.UserPending || v.Booking.ProviderStatus != domain.ProviderPending {
		t.Fatalf("expected (pending, pending), got (%s, %s)", v.Booking.UserStatus, v.Booking.ProviderStatus)
	}
	if v.User == nil || v.User.ID != f.user.ID {
		t.Fatalf("expected user summary, got %+v", v.User)
	}
	if v.Provider == nil || v.Provider.Identity.ID != f.provider.ID {
		t.Fatalf("expected provider listing, got %+v", v.Provider)
	}
	if got := v.Provider.Profile.Images[0]; got != "http://localhost:8080/api/image/pipe.jpg" {
		t.Fatalf("expected resolved image, got %q", got)
	}
}

func TestBookingService_Create_UnapprovedProvider(t *testing.T) {
	f := newBookingFixture(t)
	pending := f.mustRegister(providerInput("pending@example.com", "NIN-2"))

	in := f.bookingInput()
	in.ProviderID = pending.ID
	_, err := f.bookings.Create(context.Background(), in)
	if _, ok := fieldErrors(t, err)["provider_id"]; !ok {
		t.Fatalf("expected provider_id field error, got %v", err)
	}
	if list, _ := f.bookingsRepo.List(context.Background(), ports.BookingFilter{}); len(list) != 0 {
		t.Fatalf("expected no booking persisted, found %d", len(list))
	}
}

func TestBookingService_Create_ProviderMustBeProvider(t *testing.T) {
	f := newBookingFixture(t)

	for _, id := range []string{"missing", f.user.ID} {
		in := f.bookingInput()
		in.ProviderID = id
		_, err := f.bookings.Create(context.Background(), in)
		if _, ok := fieldErrors(t, err)["provider_id"]; !ok {
			t.Fatalf("provider %q: expected provider_id field error, got %v", id, err)
		}
	}
}

func TestBookingService_Create_MalformedFields(t *testing.T) {
	f := newBookingFixture(t)

	in := f.bookingInput()
	in.Date = "01/05/2026"
	in.Time = "2pm"
	in.Service = "  "

	fields := fieldErrors(t, func() error { _, err := f.bookings.Create(context.Background(), in); return err }())
	for _, k := range []string{"date", "time", "service"} {
		if _, ok := fields[k]; !ok {
			t.Fatalf("expected %s field error, got %v", k, fields)
		}
	}
}

func TestBookingService_FullLifecycle(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	id := f.mustCreate(t).Booking.ID

	v, err := f.bookings.Accept(ctx, id, f.actor(f.provider))
	if err != nil {
		t.Fatalf("Accept returned error: %v", err)
	}
	if v.Booking.ProviderStatus != domain.ProviderAccepted || v.Booking.UserStatus != domain.UserPending {
		t.Fatalf("unexpected statuses after accept: %+v", v.Booking)
	}

	v, err = f.bookings.Complete(ctx, id, f.actor(f.user))
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if v.Booking.UserStatus != domain.UserCompleted || v.Booking.ProviderStatus != domain.ProviderCompleted {
		t.Fatalf("expected (completed, completed), got (%s, %s)", v.Booking.UserStatus, v.Booking.ProviderStatus)
	}

	type op func(context.Context, string, ports.Actor) (*domain.BookingView, error)
	ops := map[string]struct {
		fn    op
		actor ports.Actor
	}{
		"accept":   {f.bookings.Accept, f.actor(f.provider)},
		"decline":  {f.bookings.Decline, f.actor(f.provider)},
		"complete": {f.bookings.Complete, f.actor(f.admin)},
		"cancel":   {f.bookings.Cancel, f.actor(f.user)},
	}
	for name, o := range ops {
		if _, err := o.fn(ctx, id, o.actor); !errors.Is(err, domain.ErrInvalidState) {
			t.Fatalf("%s on completed booking: expected ErrInvalidState, got %v", name, err)
		}
	}
}

func TestBookingService_DeclineAfterAccept(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	id := f.mustCreate(t).Booking.ID

	if _, err := f.bookings.Accept(ctx, id, f.actor(f.provider)); err != nil {
		t.Fatalf("Accept returned error: %v", err)
	}
	if _, err := f.bookings.Decline(ctx, id, f.actor(f.provider)); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if b := f.stored(t, id); b.ProviderStatus != domain.ProviderAccepted {
		t.Fatalf("expected status to stay accepted, got %s", b.ProviderStatus)
	}
}

func TestBookingService_CompleteRequiresAccepted(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	pending := f.mustCreate(t).Booking.ID
	if _, err := f.bookings.Complete(ctx, pending, f.actor(f.user)); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("complete from pending: expected ErrInvalidState, got %v", err)
	}

	declined := f.mustCreate(t).Booking.ID
	if _, err := f.bookings.Decline(ctx, declined, f.actor(f.provider)); err != nil {
		t.Fatalf("Decline returned error: %v", err)
	}
	if _, err := f.bookings.Complete(ctx, declined, f.actor(f.provider)); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("complete from declined: expected ErrInvalidState, got %v", err)
	}
	if b := f.stored(t, declined); b.UserStatus != domain.UserPending || b.ProviderStatus != domain.ProviderDeclined {
		t.Fatalf("declined booking modified: %+v", b)
	}
}

func TestBookingService_TransitionAuthorization(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	other := f.approvedProvider("other@example.com", "NIN-3")
	id := f.mustCreate(t).Booking.ID

	if _, err := f.bookings.Accept(ctx, id, f.actor(other)); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("foreign provider accept: expected ErrForbidden, got %v", err)
	}
	if _, err := f.bookings.Accept(ctx, id, f.actor(f.user)); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("user accept: expected ErrForbidden, got %v", err)
	}
	if _, err := f.bookings.Cancel(ctx, id, f.actor(f.provider)); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("provider cancel: expected ErrForbidden, got %v", err)
	}
	if _, err := f.bookings.Get(ctx, id, f.actor(other)); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("foreign get: expected ErrForbidden, got %v", err)
	}
	if err := f.bookings.Destroy(ctx, id, f.actor(other)); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("foreign destroy: expected ErrForbidden, got %v", err)
	}
	if b := f.stored(t, id); b.ProviderStatus != domain.ProviderPending || b.UserStatus != domain.UserPending {
		t.Fatalf("booking modified by rejected calls: %+v", b)
	}
}

func TestBookingService_NotFound(t *testing.T) {
	f := newBookingFixture(t)
	if _, err := f.bookings.Accept(context.Background(), "nope", f.actor(f.provider)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBookingService_Cancel(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	id := f.mustCreate(t).Booking.ID

	if _, err := f.bookings.Accept(ctx, id, f.actor(f.provider)); err != nil {
		t.Fatalf("Accept returned error: %v", err)
	}
	v, err := f.bookings.Cancel(ctx, id, f.actor(f.user))
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if v.Booking.UserStatus != domain.UserCancelled || v.Booking.ProviderStatus != domain.ProviderAccepted {
		t.Fatalf("unexpected statuses after cancel: %+v", v.Booking)
	}
	if _, err := f.bookings.Complete(ctx, id, f.actor(f.provider)); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("complete after cancel: expected ErrInvalidState, got %v", err)
	}
}

func TestBookingService_Destroy(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	id := f.mustCreate(t).Booking.ID

	if err := f.bookings.Destroy(ctx, id, f.actor(f.user)); err != nil {
		t.Fatalf("Destroy returned error: %v", err)
	}
	if _, err := f.bookingsRepo.FindByID(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected booking to be gone, got %v", err)
	}
	if err := f.bookings.Destroy(ctx, id, f.actor(f.admin)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second destroy: expected ErrNotFound, got %v", err)
	}
}

func TestBookingService_ListScoping(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	otherUser := f.mustRegister(userInput("bob@example.com"))

	f.mustCreate(t)
	in := f.bookingInput()
	in.UserID = otherUser.ID
	if _, err := f.bookings.Create(ctx, in); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	mine, err := f.bookings.List(ctx, ports.ListBookingsInput{Actor: f.actor(f.user), UserID: otherUser.ID})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(mine) != 1 || mine[0].Booking.UserID != f.user.ID {
		t.Fatalf("user must only see own bookings, got %+v", mine)
	}

	forProvider, err := f.bookings.List(ctx, ports.ListBookingsInput{Actor: f.actor(f.provider)})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(forProvider) != 2 {
		t.Fatalf("expected provider to see 2 bookings, got %d", len(forProvider))
	}

	filtered, err := f.bookings.List(ctx, ports.ListBookingsInput{Actor: f.actor(f.admin), UserID: otherUser.ID})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(filtered) != 1 || filtered[0].User == nil || filtered[0].User.ID != otherUser.ID {
		t.Fatalf("unexpected admin filter result: %+v", filtered)
	}
}

func TestBookingService_ConcurrentAcceptDecline(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	id := f.mustCreate(t).Booking.ID

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		wins     int
		conflict int
	)
	for i := 0; i < 10; i++ {
		fn := f.bookings.Accept
		if i%2 == 1 {
			fn = f.bookings.Decline
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fn(ctx, id, f.actor(f.provider))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, domain.ErrInvalidState):
				conflict++
			}
		}()
	}
	wg.Wait()

	if wins != 1 || conflict != 9 {
		t.Fatalf("expected exactly one winner, got wins=%d conflicts=%d", wins, conflict)
	}
}
