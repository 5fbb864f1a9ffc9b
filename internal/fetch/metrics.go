package fetch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Attempt outcomes.
const (
	outcomeOK       = "ok"
	outcomeHTTP     = "http_error"
	outcomeEmpty    = "empty"
	outcomeRedirect = "redirect"
	outcomeTooLarge = "too_large"
	outcomeNetwork  = "network"
	outcomeCanceled = "canceled"
)

var (
	fetchAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "directory_fetch_attempts_total",
			Help: "Sheet fetch attempts by outcome.",
		},
		[]string{"outcome"},
	)

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "directory_fetch_duration_seconds",
		Help:    "Time to fetch the sheet, retries included.",
		Buckets: prometheus.DefBuckets,
	})
)
