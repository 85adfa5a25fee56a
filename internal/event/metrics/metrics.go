// Package metrics exports dispatch statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dshills/herald/internal/event"
)

// Dispatch modes.
const (
	ModeLive = "live"
	ModeFake = "fake"
)

// Listener outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomePanic   = "panic"
)

// Metrics holds Prometheus metrics for an event manager.
// It implements event.Observer.
type Metrics struct {
	// DispatchesTotal is the total number of dispatches by mode.
	DispatchesTotal *prometheus.CounterVec

	// ListenerResultsTotal is the total number of listener invocations by outcome.
	ListenerResultsTotal *prometheus.CounterVec

	// DispatchDuration is the wall time of live dispatches.
	DispatchDuration prometheus.Histogram

	// DispatchErrorsTotal is the total number of dispatches that returned an error.
	DispatchErrorsTotal prometheus.Counter
}

var _ event.Observer = (*Metrics)(nil)

// New creates the metrics and registers them with reg. A nil reg uses
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		DispatchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatches_total",
				Help:      "Total number of dispatched occurrences",
			},
			[]string{"mode"},
		),

		ListenerResultsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "listener_results_total",
				Help:      "Total number of listener invocations by outcome",
			},
			[]string{"outcome"},
		),

		DispatchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dispatch_duration_seconds",
				Help:      "Time to run all listeners of one occurrence",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
		),

		DispatchErrorsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatch_errors_total",
				Help:      "Total number of dispatches aborted by a failing listener",
			},
		),
	}
}

// ObserveDispatch implements event.Observer.
func (m *Metrics) ObserveDispatch(info event.DispatchInfo) {
	if info.Faked {
		m.DispatchesTotal.WithLabelValues(ModeFake).Inc()
		return
	}

	m.DispatchesTotal.WithLabelValues(ModeLive).Inc()
	m.DispatchDuration.Observe(info.Duration.Seconds())

	for _, r := range info.Results {
		switch {
		case r.IsPanic():
			m.ListenerResultsTotal.WithLabelValues(OutcomePanic).Inc()
		case r.Error != nil:
			m.ListenerResultsTotal.WithLabelValues(OutcomeError).Inc()
		default:
			m.ListenerResultsTotal.WithLabelValues(OutcomeSuccess).Inc()
		}
	}

	if info.Err != nil {
		m.DispatchErrorsTotal.Inc()
	}
}
