package domain

import "time"

// UserStatus is the requesting user's side of a booking.
type UserStatus string

const (
	UserPending   UserStatus = "pending"
	UserCompleted UserStatus = "completed"
	UserCancelled UserStatus = "cancelled"
)

// ProviderStatus is the provider's side of a booking.
type ProviderStatus string

const (
	ProviderPending   ProviderStatus = "pending"
	ProviderAccepted  ProviderStatus = "accepted"
	ProviderDeclined  ProviderStatus = "declined"
	ProviderCompleted ProviderStatus = "completed"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Booking is one scheduled engagement between a user and a provider identity.
type Booking struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	ProviderID     string         `json:"provider_id"`
	Service        string         `json:"service"`
	Location       string         `json:"location"`
	Date           string         `json:"date"`
	Time           string         `json:"time"`
	UserStatus     UserStatus     `json:"user_status"`
	ProviderStatus ProviderStatus `json:"provider_status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// BookingView is a booking joined with summaries of both parties.
type BookingView struct {
	Booking  Booking
	User     *Summary
	Provider *ProviderListing
}

// Transition is one row of the booking state machine. A transition is legal
// only when both current statuses are among the From sets; an empty To value
// leaves that side unchanged.
type Transition struct {
	Name         string
	FromUser     []UserStatus
	FromProvider []ProviderStatus
	ToUser       UserStatus
	ToProvider   ProviderStatus
}

var (
	TransitionAccept = Transition{
		Name:         "accept",
		FromUser:     []UserStatus{UserPending},
		FromProvider: []ProviderStatus{ProviderPending},
		ToProvider:   ProviderAccepted,
	}
	TransitionDecline = Transition{
		Name:         "decline",
		FromUser:     []UserStatus{UserPending},
		FromProvider: []ProviderStatus{ProviderPending},
		ToProvider:   ProviderDeclined,
	}
	// Completion is joint: both sides move together in one write.
	TransitionComplete = Transition{
		Name:         "complete",
		FromUser:     []UserStatus{UserPending},
		FromProvider: []ProviderStatus{ProviderAccepted},
		ToUser:       UserCompleted,
		ToProvider:   ProviderCompleted,
	}
	TransitionCancel = Transition{
		Name:         "cancel",
		FromUser:     []UserStatus{UserPending},
		FromProvider: []ProviderStatus{ProviderPending, ProviderAccepted},
		ToUser:       UserCancelled,
	}
)

// Allows reports whether t may run on b.
func (t Transition) Allows(b *Booking) bool {
	userOK := false
	for _, s := range t.FromUser {
		if s == b.UserStatus {
			userOK = true
			break
		}
	}
	if !userOK {
		return false
	}
	for _, s := range t.FromProvider {
		if s == b.ProviderStatus {
			return true
		}
	}
	return false
}

// Apply sets the target statuses on b. Callers check Allows first.
func (t Transition) Apply(b *Booking) {
	if t.ToUser != "" {
		b.UserStatus = t.ToUser
	}
	if t.ToProvider != "" {
		b.ProviderStatus = t.ToProvider
	}
}

// IsParty reports whether identityID is the booking's user or provider.
func (b *Booking) IsParty(identityID string) bool {
	return identityID != "" && (b.UserID == identityID || b.ProviderID == identityID)
}
