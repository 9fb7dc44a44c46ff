package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	locatorLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "procguard",
			Subsystem: "locator",
			Name:      "lookups_total",
			Help:      "Number of pid lookups by outcome.",
		}, []string{"outcome"},
	)
	locatorLookupDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "procguard",
			Subsystem: "locator",
			Name:      "lookup_duration_seconds",
			Help:      "Observed wall time of pid lookups.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	actuatorActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "procguard",
			Subsystem: "actuator",
			Name:      "actions_total",
			Help:      "Number of corrective actions by action and outcome.",
		}, []string{"action", "outcome"},
	)
	auditSendFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "procguard",
			Subsystem: "audit",
			Name:      "send_failures_total",
			Help:      "Number of audit events that could not be delivered.",
		},
	)
)

// Outcome label values shared by the lookup and action counters.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{locatorLookups, locatorLookupDuration, actuatorActions, auditSendFailures}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			// If already registered, ignore (allows double Register with default registry)
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns an http.Handler that serves Prometheus metrics for the DefaultGatherer.
// The caller is responsible for starting an HTTP server and wiring the route.
func Handler() http.Handler { return promhttp.Handler() }

// Below are lightweight helpers used by internal packages to record metrics.
// They no-op if Register hasn't been called.

func IncLookup(ok bool) {
	if regOK.Load() {
		locatorLookups.WithLabelValues(outcome(ok)).Inc()
	}
}

func ObserveLookupDuration(seconds float64) {
	if regOK.Load() {
		locatorLookupDuration.Observe(seconds)
	}
}

func IncAction(action string, ok bool) {
	if regOK.Load() {
		actuatorActions.WithLabelValues(action, outcome(ok)).Inc()
	}
}

func IncAuditSendFailure() {
	if regOK.Load() {
		auditSendFailures.Inc()
	}
}

func outcome(ok bool) string {
	if ok {
		return OutcomeSuccess
	}
	return OutcomeFailure
}
