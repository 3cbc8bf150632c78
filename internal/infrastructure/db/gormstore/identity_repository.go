package gormstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
)

type IdentityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// Create inserts the identity, and for providers the profile and an
// unapproved approval row, inside one transaction.
func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity, profile *domain.ProviderProfile) (*domain.Identity, error) {
	m := identityModel{
		ID:           uuid.NewString(),
		Name:         identity.Name,
		Email:        identity.Email,
		Role:         string(identity.Role),
		PasswordHash: identity.PasswordHash,
		CreatedAt:    identity.CreatedAt,
		UpdatedAt:    identity.UpdatedAt,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&identityModel{}).Where("email = ?", m.Email).Count(&n).Error; err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if n > 0 {
			return domain.ErrEmailTaken
		}
		if profile != nil {
			if err := tx.Model(&providerProfileModel{}).Where("national_id = ?", profile.NationalID).Count(&n).Error; err != nil {
				return fmt.Errorf("check national id: %w", err)
			}
			if n > 0 {
				return domain.ErrNationalIDTaken
			}
		}

		if err := tx.Omit(clause.Associations).Create(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrEmailTaken
			}
			return fmt.Errorf("insert identity: %w", err)
		}
		if profile == nil {
			return nil
		}

		p := providerProfileModel{
			IdentityID:  m.ID,
			Location:    profile.Location,
			NationalID:  profile.NationalID,
			Phone:       profile.Phone,
			Service:     profile.Service,
			Description: profile.Description,
			Images:      append([]string{}, profile.Images...),
			Rating:      profile.Rating,
		}
		if err := tx.Create(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrNationalIDTaken
			}
			return fmt.Errorf("insert provider profile: %w", err)
		}
		a := approvalModel{IdentityID: m.ID, Approved: identity.Approval.Approved}
		if err := tx.Create(&a).Error; err != nil {
			return fmt.Errorf("insert approval: %w", err)
		}
		m.Profile, m.Approval = &p, &a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m.toDomain(), nil
}

func (r *IdentityRepository) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	m, err := r.first(ctx, domain.ErrIdentityNotFound, "id = ?", id)
	if err != nil {
		return nil, err
	}
	return m.toDomain(), nil
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	m, err := r.first(ctx, domain.ErrIdentityNotFound, "email = ?", email)
	if err != nil {
		return nil, err
	}
	return m.toDomain(), nil
}

func (r *IdentityRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Identity, error) {
	out := make(map[string]*domain.Identity, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var models []identityModel
	if err := r.db.WithContext(ctx).Preload("Approval").Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find identities: %w", err)
	}
	for i := range models {
		out[models[i].ID] = models[i].toDomain()
	}
	return out, nil
}

func (r *IdentityRepository) FindProvider(ctx context.Context, id string) (*domain.ProviderListing, error) {
	m, err := r.first(ctx, domain.ErrProviderNotFound, "id = ? AND role = ?", id, string(domain.RoleServiceProvider))
	if err != nil {
		return nil, err
	}
	l := m.toListing()
	return &l, nil
}

// ListProviders returns providers with the given approval flag, oldest first.
func (r *IdentityRepository) ListProviders(ctx context.Context, approved bool) ([]domain.ProviderListing, error) {
	var models []identityModel
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("Approval").
		Joins("JOIN provider_approvals ON provider_approvals.identity_id = identities.id").
		Where("identities.role = ? AND provider_approvals.approved = ?", string(domain.RoleServiceProvider), approved).
		Order("identities.created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}

	out := make([]domain.ProviderListing, 0, len(models))
	for i := range models {
		out = append(out, models[i].toListing())
	}
	return out, nil
}

func (r *IdentityRepository) first(ctx context.Context, notFound error, query string, args ...any) (*identityModel, error) {
	var m identityModel
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("Approval").
		Where(query, args...).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return &m, nil
}
