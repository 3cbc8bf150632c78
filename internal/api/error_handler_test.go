package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
)

func render(t *testing.T, err error) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var logs bytes.Buffer
	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.New(&logs))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.HTTPErrorHandler(err, e.NewContext(req, rec))
	return rec, logs.String()
}

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.NewValidationError("email", "the email has already been taken"), http.StatusUnprocessableEntity},
		{"not found", domain.ErrBookingNotFound, http.StatusNotFound},
		{"forbidden", fmt.Errorf("accept: %w", domain.ErrForbidden), http.StatusForbidden},
		{"not approved", domain.ErrNotApproved, http.StatusForbidden},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"invalid state", domain.InvalidTransition("decline", &domain.Booking{ID: "b-1"}), http.StatusConflict},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest},
		{"unexpected", errors.New("mongo: connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := render(t, tc.err)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestHTTPErrorHandler_ValidationFields(t *testing.T) {
	verr := domain.NewValidationError("provider_id", "the selected provider is not approved")
	rec, _ := render(t, fmt.Errorf("create booking: %w", verr))

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Fields["provider_id"] != "the selected provider is not approved" {
		t.Fatalf("unexpected fields: %+v", resp.Fields)
	}
}

func TestHTTPErrorHandler_HidesUnexpectedErrors(t *testing.T) {
	rec, logs := render(t, errors.New("dial tcp 10.0.0.3:27017: refused"))

	if strings.Contains(rec.Body.String(), "10.0.0.3") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}
	if !strings.Contains(logs, "10.0.0.3") {
		t.Fatalf("expected cause to be logged, got %q", logs)
	}
}
