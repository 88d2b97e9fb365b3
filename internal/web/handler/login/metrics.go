package login

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// outcomes counts authentication attempts by terminal outcome.
var outcomes = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "authentication_attempts_total",
		Help: "Number of authentication attempts, differentiated by outcome.",
	},
	[]string{"outcome"},
)

func observeOutcome(outcome string) {
	outcomes.WithLabelValues(outcome).Inc()
}
