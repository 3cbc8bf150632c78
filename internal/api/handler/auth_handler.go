package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskconnect/marketplace-api/internal/api/metrics"
	"github.com/taskconnect/marketplace-api/internal/core/domain"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
)

type AuthHandler struct {
	registration ports.RegistrationService
	authService  ports.AuthService
}

func NewAuthHandler(registration ports.RegistrationService, authService ports.AuthService) *AuthHandler {
	return &AuthHandler{registration: registration, authService: authService}
}

// Register creates a user or service provider account.
//
// @Summary      Register a new account
// @Description  Service providers must send their profile fields and at least one image, and await admin approval.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.registration.Register(c.Request().Context(), toRegisterInput(req))
	metrics.RegistrationsTotal.WithLabelValues(roleLabel(req.Role), metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Message: res.Message,
		User:    res.Identity.Summary(),
	})
}

// Login authenticates an account. Users and admins send a password, service
// providers the login code they received on approval.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		LoginCode: req.LoginCode,
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("unknown", metrics.Result(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues(string(res.Identity.Role), metrics.Result(nil)).Inc()

	return c.JSON(http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   res.Token,
		Role:    res.Identity.Role,
		User:    res.Identity.Summary(),
	})
}

// Logout revokes the bearer token of the current session.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, err := ctxActor(c); err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), ctxToken(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// roleLabel keeps the metric label set closed.
func roleLabel(role string) string {
	switch domain.Role(role) {
	case domain.RoleUser, domain.RoleServiceProvider:
		return role
	}
	return "invalid"
}
