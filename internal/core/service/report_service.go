package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
)

type ReportService struct {
	reports    ports.ReportRepository
	identities ports.IdentityRepository
	log        zerolog.Logger
	now        func() time.Time
}

func NewReportService(reports ports.ReportRepository, identities ports.IdentityRepository, log zerolog.Logger) *ReportService {
	return &ReportService{
		reports:    reports,
		identities: identities,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Submit stores a new pending report.
func (s *ReportService) Submit(ctx context.Context, in ports.SubmitReportInput) (*domain.Report, error) {
	in.Category = strings.TrimSpace(in.Category)
	in.Urgency = strings.TrimSpace(in.Urgency)
	in.Description = strings.TrimSpace(in.Description)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	r := &domain.Report{
		ReporterID:  in.ReporterID,
		Category:    in.Category,
		Urgency:     in.Urgency,
		Description: in.Description,
		ImageRef:    strings.TrimSpace(in.ImageRef),
		Status:      domain.ReportPending,
		CreatedAt:   s.now(),
	}
	if err := s.reports.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("submit report: %w", err)
	}

	s.log.Info().Str("report_id", r.ID).Str("urgency", r.Urgency).Msg("report submitted")
	return r, nil
}

// List returns all reports, newest first, with their reporters.
func (s *ReportService) List(ctx context.Context) ([]domain.ReportView, error) {
	reports, err := s.reports.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	ids := make([]string, 0, len(reports))
	for _, r := range reports {
		ids = append(ids, r.ReporterID)
	}
	reporters, err := s.identities.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	out := make([]domain.ReportView, 0, len(reports))
	for _, r := range reports {
		v := domain.ReportView{Report: r}
		if id, ok := reporters[r.ReporterID]; ok {
			summary := id.Summary()
			v.Reporter = &summary
		}
		out = append(out, v)
	}
	return out, nil
}
