// Package metrics exposes clinic counters on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RecordMutations counts successful record changes by kind ("client_add", "session_cancel", ...).
	RecordMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindcare_record_mutations_total",
		Help: "Successful record store mutations by kind",
	}, []string{"kind"})

	// EntitlementDenials counts operations refused by the plan, labelled by feature
	// ("max_clients" for the client cap).
	EntitlementDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindcare_entitlement_denials_total",
		Help: "Operations refused by the active plan",
	}, []string{"feature"})

	// IdentityFailures counts identity service errors by operation.
	IdentityFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindcare_identity_failures_total",
		Help: "Identity service failures by operation",
	}, []string{"operation"})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
