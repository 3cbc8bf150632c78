package handler

import (
	"time"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
)

// errorResponse documents the envelope rendered by the central error handler.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type providerDetailsRequest struct {
	Location    string   `json:"location"`
	NationalID  string   `json:"national_id"`
	Phone       string   `json:"phone"`
	Service     string   `json:"service"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	// Flat provider fields, as sent by the registration form.
	providerDetailsRequest
}

type loginRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"`
	LoginCode string `json:"login_code"`
}

type registerResponse struct {
	Message string         `json:"message"`
	User    domain.Summary `json:"user"`
}

type loginResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	Role    domain.Role    `json:"role"`
	User    domain.Summary `json:"user"`
}

// --- Providers ---

type providerResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	IsApproved  bool      `json:"is_approved"`
	Location    string    `json:"location"`
	NationalID  string    `json:"national_id,omitempty"`
	Phone       string    `json:"phone"`
	Service     string    `json:"service"`
	Description string    `json:"description,omitempty"`
	Images      []string  `json:"images"`
	Rating      float64   `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
}

type providerListResponse struct {
	Providers []providerResponse `json:"providers"`
}

type approveResponse struct {
	Message          string         `json:"message"`
	User             domain.Summary `json:"user"`
	NotificationSent bool           `json:"notification_sent"`
}

// --- Bookings ---

type createBookingRequest struct {
	ProviderID string `json:"provider_id"`
	Service    string `json:"service"`
	Location   string `json:"location"`
	Date       string `json:"date"`
	Time       string `json:"time"`
}

type bookingResponse struct {
	ID             string                `json:"id"`
	UserID         string                `json:"user_id"`
	ProviderID     string                `json:"provider_id"`
	Service        string                `json:"service"`
	Location       string                `json:"location"`
	Date           string                `json:"date"`
	Time           string                `json:"time"`
	UserStatus     domain.UserStatus     `json:"user_status"`
	ProviderStatus domain.ProviderStatus `json:"provider_status"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	User           *domain.Summary       `json:"user,omitempty"`
	Provider       *providerResponse     `json:"provider,omitempty"`
}

type bookingEnvelope struct {
	Message string          `json:"message,omitempty"`
	Booking bookingResponse `json:"booking"`
}

type bookingListResponse struct {
	Bookings []bookingResponse `json:"bookings"`
}

// --- Reports ---

type submitReportRequest struct {
	Category    string `json:"category"`
	Urgency     string `json:"urgency"`
	Description string `json:"description"`
	ImagePath   string `json:"image_path"`
}

type reportResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	Category    string              `json:"category"`
	Urgency     string              `json:"urgency"`
	Description string              `json:"description"`
	ImagePath   string              `json:"image_path,omitempty"`
	Status      domain.ReportStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	Reporter    *domain.Summary     `json:"reporter,omitempty"`
}

type reportEnvelope struct {
	Message string         `json:"message"`
	Report  reportResponse `json:"report"`
}

type reportListResponse struct {
	Reports []reportResponse `json:"reports"`
}
