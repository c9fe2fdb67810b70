package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	reloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "swapd",
			Subsystem: "manager",
			Name:      "reloads_total",
			Help:      "Reload cycles by outcome",
		},
		[]string{"outcome"},
	)

	loadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "swapd",
			Subsystem: "manager",
			Name:      "load_duration_seconds",
			Help:      "Duration of Resource.Load calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		},
	)

	drainsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "swapd",
			Subsystem: "manager",
			Name:      "drains_total",
			Help:      "Drain attempts on superseded slots by result",
		},
		[]string{"result"},
	)

	prunedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "swapd",
			Subsystem: "manager",
			Name:      "pruned_versions_total",
			Help:      "Version directories handled by the pruner",
		},
		[]string{"kind"},
	)

	readerLockFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "swapd",
			Subsystem: "manager",
			Name:      "reader_lock_failures_total",
			Help:      "Reader acquisitions that failed to take the shared lock in time",
		},
	)

	currentSlotGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "swapd",
			Subsystem: "manager",
			Name:      "current_slot",
			Help:      "Slot serving reads (0 none, 1 A, 2 B)",
		},
	)
)

func init() {
	prometheus.MustRegister(reloadsTotal, loadDuration, drainsTotal, prunedTotal, readerLockFailures, currentSlotGauge)
}
