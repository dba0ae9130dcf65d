package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cycle result label values.
const (
	ResultSuccess  = "success"
	ResultFallback = "fallback"
	ResultError    = "error"
)

var reconcileCyclesTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "kuberoute_reconcile_cycles_total",
		Help: "Total number of reconciliation passes by result " +
			"(fallback means the cluster API was unreachable and no DNS update was issued).",
	},
	[]string{"result"},
)

var dnsUpdateFailuresTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "kuberoute_dns_update_failures_total",
		Help: "Total number of failed DNS record updates; failures never abort the pass.",
	},
	[]string{"domain"},
)

var reconcileDurationSeconds = promauto.With(prometheus.DefaultRegisterer).NewHistogram(
	prometheus.HistogramOpts{
		Name:    "kuberoute_reconcile_duration_seconds",
		Help:    "Duration of successful reconciliation passes.",
		Buckets: prometheus.DefBuckets,
	},
)

// RecordReconcileCycle increments the pass counter for the given result.
func RecordReconcileCycle(result string) {
	reconcileCyclesTotal.WithLabelValues(result).Inc()
}

// RecordDNSUpdateFailure increments the failure counter for a domain.
func RecordDNSUpdateFailure(domain string) {
	dnsUpdateFailuresTotal.WithLabelValues(domain).Inc()
}

// ObserveReconcileDuration records the duration of a successful pass.
func ObserveReconcileDuration(d time.Duration) {
	reconcileDurationSeconds.Observe(d.Seconds())
}
