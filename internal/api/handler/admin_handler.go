package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskconnect/marketplace-api/internal/api/metrics"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
)

// AdminHandler serves the admin-only provider approval and report routes.
type AdminHandler struct {
	approvals ports.ApprovalService
	reports   ports.ReportService
}

func NewAdminHandler(approvals ports.ApprovalService, reports ports.ReportService) *AdminHandler {
	return &AdminHandler{approvals: approvals, reports: reports}
}

// PendingProviders handles GET /api/admin/pending-providers.
//
// @Summary      List providers awaiting approval
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  providerListResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/pending-providers [get]
func (h *AdminHandler) PendingProviders(c echo.Context) error {
	listings, err := h.approvals.ListPending(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProviderList(listings, true))
}

// ApproveProvider handles POST /api/admin/approve-provider/:id. The approval
// is kept even when the login code email could not be delivered.
//
// @Summary      Approve a service provider
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Provider identity id"
// @Success      200  {object}  approveResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/approve-provider/{id} [post]
func (h *AdminHandler) ApproveProvider(c echo.Context) error {
	res, err := h.approvals.Approve(c.Request().Context(), c.Param("id"))
	metrics.ApprovalsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	msg := "Service provider approved and login code sent"
	delivery := "sent"
	if !res.NotificationSent {
		msg = "Service provider approved but the login code could not be delivered"
		delivery = "failed"
	}
	metrics.NotificationsTotal.WithLabelValues(delivery).Inc()

	return c.JSON(http.StatusOK, approveResponse{
		Message:          msg,
		User:             res.Identity.Summary(),
		NotificationSent: res.NotificationSent,
	})
}

// Reports handles GET /api/admin/reports.
//
// @Summary      List incident reports
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  reportListResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/reports [get]
func (h *AdminHandler) Reports(c echo.Context) error {
	views, err := h.reports.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReportList(views))
}
