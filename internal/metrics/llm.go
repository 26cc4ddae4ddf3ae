package metrics

import "github.com/prometheus/client_golang/prometheus"

// Quote/confirm Prometheus metrics.
var (
	QuotesIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "spendgate",
			Name:      "quotes_issued_total",
			Help:      "Total number of quotes issued",
		},
		[]string{"provider", "model"},
	)

	ConfirmsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "spendgate",
			Name:      "confirms_total",
			Help:      "Total number of confirm attempts by outcome",
		},
		[]string{"provider", "model", "outcome"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "spendgate",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream chat completion duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider", "model"},
	)

	UpstreamTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "spendgate",
			Name:      "upstream_tokens_total",
			Help:      "Actual tokens billed by the upstream provider",
		},
		[]string{"provider", "model", "type"},
	)

	UpstreamCostUSDTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "spendgate",
			Name:      "upstream_cost_usd_total",
			Help:      "Actual USD cost accumulated across confirmed runs",
		},
		[]string{"provider", "model"},
	)
)

// RegisterLLMMetrics registers quote/confirm metrics with the default
// registry. Called explicitly from the composition root (no init).
func RegisterLLMMetrics() {
	prometheus.MustRegister(
		QuotesIssuedTotal,
		ConfirmsTotal,
		UpstreamRequestDuration,
		UpstreamTokensTotal,
		UpstreamCostUSDTotal,
	)
}
