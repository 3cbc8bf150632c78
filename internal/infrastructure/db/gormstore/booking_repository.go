package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := bookingModel{
		ID:             uuid.NewString(),
		UserID:         b.UserID,
		ProviderID:     b.ProviderID,
		Service:        b.Service,
		Location:       b.Location,
		Date:           b.Date,
		Time:           b.Time,
		UserStatus:     string(b.UserStatus),
		ProviderStatus: string(b.ProviderStatus),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	b.ID = m.ID
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return m.toDomain(), nil
}

// Transition is a single UPDATE guarded by both status columns. Zero affected
// rows on an existing booking means the statuses did not allow t.
func (r *BookingRepository) Transition(ctx context.Context, id string, t domain.Transition, at time.Time) (*domain.Booking, error) {
	set := map[string]any{"updated_at": at.UTC()}
	if t.ToUser != "" {
		set["user_status"] = string(t.ToUser)
	}
	if t.ToProvider != "" {
		set["provider_status"] = string(t.ToProvider)
	}

	res := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND user_status IN ? AND provider_status IN ?", id, userStatuses(t.FromUser), providerStatuses(t.FromProvider)).
		Updates(set)
	if res.Error != nil {
		return nil, fmt.Errorf("transition booking: %w", res.Error)
	}

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, domain.InvalidTransition(t.Name, current)
	}
	return current, nil
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&bookingModel{})
	if res.Error != nil {
		return fmt.Errorf("delete booking: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

// List returns matching bookings, newest first.
func (r *BookingRepository) List(ctx context.Context, f ports.BookingFilter) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).Model(&bookingModel{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.ProviderID != "" {
		q = q.Where("provider_id = ?", f.ProviderID)
	}

	var models []bookingModel
	if err := q.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	out := make([]domain.Booking, 0, len(models))
	for i := range models {
		out = append(out, *models[i].toDomain())
	}
	return out, nil
}

func userStatuses(in []domain.UserStatus) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}

func providerStatuses(in []domain.ProviderStatus) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}
