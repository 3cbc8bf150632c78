package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
)

// ApprovalRepository is the only writer of provider_approvals.
type ApprovalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository {
	return &ApprovalRepository{db: db}
}

func (r *ApprovalRepository) Approve(ctx context.Context, id, code string, approvedAt, expiresAt time.Time) (*domain.Identity, error) {
	var m identityModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND role = ?", id, string(domain.RoleServiceProvider)).First(&m).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrProviderNotFound
			}
			return fmt.Errorf("find provider: %w", err)
		}

		approvedAt, expiresAt := approvedAt.UTC(), expiresAt.UTC()
		a := approvalModel{
			IdentityID:    id,
			Approved:      true,
			LoginCode:     &code,
			CodeExpiresAt: &expiresAt,
			ApprovedAt:    &approvedAt,
			UpdatedAt:     approvedAt,
		}
		if err := tx.Save(&a).Error; err != nil {
			return fmt.Errorf("save approval: %w", err)
		}
		if err := tx.Model(&m).Update("updated_at", approvedAt).Error; err != nil {
			return fmt.Errorf("touch identity: %w", err)
		}
		m.Approval = &a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m.toDomain(), nil
}

// ConsumeLoginCode clears the code with a conditional update; the affected
// row count tells whether this call won.
func (r *ApprovalRepository) ConsumeLoginCode(ctx context.Context, id, code string, now time.Time) (bool, error) {
	if code == "" {
		return false, nil
	}
	now = now.UTC()

	res := r.db.WithContext(ctx).
		Model(&approvalModel{}).
		Where("identity_id = ? AND approved = ? AND login_code = ?", id, true, code).
		Where("(code_expires_at IS NULL OR code_expires_at > ?)", now).
		Updates(map[string]any{
			"login_code":      nil,
			"code_expires_at": nil,
			"updated_at":      now,
		})
	if res.Error != nil {
		return false, fmt.Errorf("consume login code: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
