// Package metrics defines and registers all custom Prometheus metrics for
// the Courseverse API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "courseverse"

// OrdersCreatedTotal counts payment orders successfully registered with the
// gateway.
// Label:
//   - currency: ISO currency code sent by the client (e.g. "INR")
var OrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of payment orders created with the gateway.",
	},
	[]string{"currency"},
)

// PurchaseValidationsTotal counts confirmations that passed validation.
// Label:
//   - result: "granted" (new ownership) or "already_owned" (idempotent replay)
var PurchaseValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchase_validations_total",
		Help:      "Total number of purchase confirmations validated successfully.",
	},
	[]string{"result"},
)

// PurchaseErrorsTotal counts confirmations that failed validation.
// Label:
//   - reason: "forged", "invalid_course_id", "account_not_found",
//     "course_not_found", or "internal"
var PurchaseErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchase_errors_total",
		Help:      "Total number of purchase confirmations that failed validation.",
	},
	[]string{"reason"},
)

// SignupsTotal counts account creations.
// Label:
//   - role: "user" or "admin"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created, by role.",
	},
	[]string{"role"},
)
