package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// ScansTotal counts completed scan pipelines by outcome.
	ScansTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "plantify",
		Subsystem: "scan",
		Name:      "total",
		Help:      "Total number of scan pipeline runs, labeled by outcome.",
	}, []string{"outcome"})

	// CareFallbackTotal counts scans that shipped the sentinel care profile.
	CareFallbackTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "plantify",
		Subsystem: "care",
		Name:      "fallback_total",
		Help:      "Total number of scans answered with the fallback care profile.",
	})

	// CareAttemptsTotal counts enrichment calls by provider and result.
	CareAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "plantify",
		Subsystem: "care",
		Name:      "attempts_total",
		Help:      "Total number of care provider calls, labeled by provider and result.",
	}, []string{"provider", "result"})

	// ScanDurationSeconds is end-to-end pipeline time.
	ScanDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "plantify",
		Subsystem: "scan",
		Name:      "duration_seconds",
		Help:      "End-to-end time of one scan pipeline run.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
	})
)

// Register registers scan metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			ScansTotal,
			CareFallbackTotal,
			CareAttemptsTotal,
			ScanDurationSeconds,
		)
	})
}
