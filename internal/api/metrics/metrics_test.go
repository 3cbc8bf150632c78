package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
)

func TestResult(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{domain.NewValidationError("email", "bad"), "validation"},
		{domain.ErrBookingNotFound, "not_found"},
		{fmt.Errorf("wrap: %w", domain.ErrForbidden), "forbidden"},
		{domain.InvalidTransition("accept", &domain.Booking{ID: "b"}), "invalid_state"},
		{domain.ErrInvalidCredentials, "invalid_credentials"},
		{domain.ErrNotApproved, "not_approved"},
		{errors.New("boom"), "error"},
	}
	for _, tc := range cases {
		if got := Result(tc.err); got != tc.want {
			t.Fatalf("Result(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
