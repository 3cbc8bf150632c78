package gormstore

import (
	"time"

	"gorm.io/datatypes"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
)

// identities
type identityModel struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Name         string    `gorm:"size:255;not null"`
	Email        string    `gorm:"size:255;not null;uniqueIndex"`
	Role         string    `gorm:"size:32;not null;index"`
	PasswordHash string    `gorm:"size:255;not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`

	Profile  *providerProfileModel `gorm:"foreignKey:IdentityID;references:ID;constraint:OnDelete:CASCADE"`
	Approval *approvalModel        `gorm:"foreignKey:IdentityID;references:ID;constraint:OnDelete:CASCADE"`
}

func (identityModel) TableName() string { return "identities" }

// provider_profiles, 1:1 with a service_provider identity
type providerProfileModel struct {
	IdentityID  string                      `gorm:"primaryKey;size:36"`
	Location    string                      `gorm:"size:255;not null"`
	NationalID  string                      `gorm:"size:64;not null;uniqueIndex"`
	Phone       string                      `gorm:"size:32;not null"`
	Service     string                      `gorm:"size:255;not null;index"`
	Description string                      `gorm:"type:text"`
	Images      datatypes.JSONSlice[string] `gorm:"not null"`
	Rating      float64                     `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (providerProfileModel) TableName() string { return "provider_profiles" }

// provider_approvals
type approvalModel struct {
	IdentityID    string     `gorm:"primaryKey;size:36"`
	Approved      bool       `gorm:"not null;default:false;index"`
	LoginCode     *string    `gorm:"size:6"`
	CodeExpiresAt *time.Time
	ApprovedAt    *time.Time
	UpdatedAt     time.Time
}

func (approvalModel) TableName() string { return "provider_approvals" }

// bookings
type bookingModel struct {
	ID             string    `gorm:"primaryKey;size:36"`
	UserID         string    `gorm:"size:36;not null;index"`
	ProviderID     string    `gorm:"size:36;not null;index"`
	Service        string    `gorm:"size:255;not null"`
	Location       string    `gorm:"size:255;not null"`
	Date           string    `gorm:"size:10;not null"`
	Time           string    `gorm:"size:5;not null"`
	UserStatus     string    `gorm:"size:16;not null;index"`
	ProviderStatus string    `gorm:"size:16;not null;index"`
	CreatedAt      time.Time `gorm:"not null;index"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (bookingModel) TableName() string { return "bookings" }

// reports
type reportModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	UserID      string    `gorm:"size:36;not null;index"`
	Category    string    `gorm:"size:255;not null"`
	Urgency     string    `gorm:"size:255;not null"`
	Description string    `gorm:"type:text;not null"`
	ImagePath   string    `gorm:"size:512"`
	Status      string    `gorm:"size:16;not null"`
	CreatedAt   time.Time `gorm:"not null;index"`
}

func (reportModel) TableName() string { return "reports" }

func (m *identityModel) toDomain() *domain.Identity {
	i := &domain.Identity{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Role:         domain.Role(m.Role),
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
	switch {
	case m.Approval != nil:
		i.Approval = m.Approval.toDomain()
	case i.Role != domain.RoleServiceProvider:
		i.Approval = domain.Approval{Approved: true}
	}
	return i
}

func (m *identityModel) toListing() domain.ProviderListing {
	l := domain.ProviderListing{Identity: *m.toDomain()}
	if p := m.Profile; p != nil {
		l.Profile = domain.ProviderProfile{
			IdentityID:  p.IdentityID,
			Location:    p.Location,
			NationalID:  p.NationalID,
			Phone:       p.Phone,
			Service:     p.Service,
			Description: p.Description,
			Images:      append([]string(nil), p.Images...),
			Rating:      p.Rating,
		}
	}
	return l
}

func (m *approvalModel) toDomain() domain.Approval {
	a := domain.Approval{Approved: m.Approved}
	if m.LoginCode != nil {
		a.LoginCode = *m.LoginCode
	}
	if m.CodeExpiresAt != nil {
		t := m.CodeExpiresAt.UTC()
		a.CodeExpiresAt = &t
	}
	if m.ApprovedAt != nil {
		t := m.ApprovedAt.UTC()
		a.ApprovedAt = &t
	}
	return a
}

func (m *bookingModel) toDomain() *domain.Booking {
	return &domain.Booking{
		ID:             m.ID,
		UserID:         m.UserID,
		ProviderID:     m.ProviderID,
		Service:        m.Service,
		Location:       m.Location,
		Date:           m.Date,
		Time:           m.Time,
		UserStatus:     domain.UserStatus(m.UserStatus),
		ProviderStatus: domain.ProviderStatus(m.ProviderStatus),
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}
