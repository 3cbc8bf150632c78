package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskconnect/marketplace-api/internal/core/ports"
)

type ProviderHandler struct {
	directory ports.ProviderDirectory
}

func NewProviderHandler(directory ports.ProviderDirectory) *ProviderHandler {
	return &ProviderHandler{directory: directory}
}

// List handles GET /api/providers and its /api/service-providers alias.
//
// @Summary      List approved service providers
// @Tags         providers
// @Produce      json
// @Success      200  {object}  providerListResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/providers [get]
func (h *ProviderHandler) List(c echo.Context) error {
	listings, err := h.directory.ListApproved(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProviderList(listings, false))
}
