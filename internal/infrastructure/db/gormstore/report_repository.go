package gormstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, rep *domain.Report) error {
	m := reportModel{
		ID:          uuid.NewString(),
		UserID:      rep.ReporterID,
		Category:    rep.Category,
		Urgency:     rep.Urgency,
		Description: rep.Description,
		ImagePath:   rep.ImageRef,
		Status:      string(rep.Status),
		CreatedAt:   rep.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	rep.ID = m.ID
	return nil
}

func (r *ReportRepository) List(ctx context.Context) ([]domain.Report, error) {
	var models []reportModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	out := make([]domain.Report, 0, len(models))
	for _, m := range models {
		out = append(out, domain.Report{
			ID:          m.ID,
			ReporterID:  m.UserID,
			Category:    m.Category,
			Urgency:     m.Urgency,
			Description: m.Description,
			ImageRef:    m.ImagePath,
			Status:      domain.ReportStatus(m.Status),
			CreatedAt:   m.CreatedAt.UTC(),
		})
	}
	return out, nil
}
