package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	QuoteRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "softwork_quote_requests_total", Help: "Quote API requests by symbol and outcome"},
		[]string{"symbol", "outcome"},
	)
	TipSourceTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "softwork_tip_source_total", Help: "Tip list loads by source (live or fallback)"},
		[]string{"source"},
	)
	TipRotationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "softwork_tip_rotations_total", Help: "Timer-driven tip rotations"},
	)
	SubscriptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "softwork_subscriptions_total", Help: "Subscription attempts by result"},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(QuoteRequestsTotal, TipSourceTotal, TipRotationsTotal, SubscriptionsTotal)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
