// Package metrics defines and registers all custom Prometheus metrics for the
// marketplace API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry on package init and
// are exposed by the /metrics route.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
)

const namespace = "marketplace"

// RegistrationsTotal counts self-registrations.
// Labels:
//   - role: requested role ("user", "service_provider")
//   - result: see Result
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by role and result.",
	},
	[]string{"role", "result"},
)

// ApprovalsTotal counts provider approvals by result.
var ApprovalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "approvals_total",
		Help:      "Total number of provider approval attempts, by result.",
	},
	[]string{"result"},
)

// NotificationsTotal counts login code deliveries.
// Label:
//   - result: "sent" or "failed"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of login code notifications, by delivery result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts. Role is "unknown" when the attempt
// failed before the account was identified.
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by role and result.",
	},
	[]string{"role", "result"},
)

// BookingTransitionsTotal counts booking operations.
// Labels:
//   - transition: "create", "accept", "decline", "complete", "cancel", "delete"
//   - result: see Result
var BookingTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_transitions_total",
		Help:      "Total number of booking operations, by transition and result.",
	},
	[]string{"transition", "result"},
)

// ReportsSubmittedTotal counts incident reports by result.
var ReportsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_submitted_total",
		Help:      "Total number of incident report submissions, by result.",
	},
	[]string{"result"},
)

// Result reduces an operation error to a low-cardinality label value.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrNotApproved):
		return "not_approved"
	default:
		return "error"
	}
}
