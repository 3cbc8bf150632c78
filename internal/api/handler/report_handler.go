package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskconnect/marketplace-api/internal/api/metrics"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
)

type ReportHandler struct {
	reports ports.ReportService
}

func NewReportHandler(reports ports.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Submit handles POST /api/reports. The reporter is the caller.
//
// @Summary      Submit an incident report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitReportRequest  true  "Report details"
// @Success      201   {object}  reportEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/reports [post]
func (h *ReportHandler) Submit(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req submitReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	report, err := h.reports.Submit(c.Request().Context(), ports.SubmitReportInput{
		ReporterID:  actor.ID,
		Category:    req.Category,
		Urgency:     req.Urgency,
		Description: req.Description,
		ImageRef:    req.ImagePath,
	})
	metrics.ReportsSubmittedTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, reportEnvelope{
		Message: "Report submitted successfully",
		Report:  toReportResponse(*report, nil),
	})
}
