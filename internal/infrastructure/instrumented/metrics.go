// Package instrumented decorates a definition.Repository with Prometheus
// metrics and OpenTelemetry spans.
package instrumented

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

// Outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid_argument"
	OutcomeConflict    = "constraint_violation"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// Metrics holds the repository collectors.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "definition_registry",
				Subsystem: "repository",
				Name:      "calls_total",
				Help:      "Repository calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "definition_registry",
				Subsystem: "repository",
				Name:      "duration_seconds",
				Help:      "Repository call latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
	for _, c := range []prometheus.Collector{m.calls, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Outcome classifies err for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, definition.ErrInvalidArgument):
		return OutcomeInvalid
	case errors.Is(err, definition.ErrConstraintViolation):
		return OutcomeConflict
	case errors.Is(err, definition.ErrStoreUnavailable):
		return OutcomeUnavailable
	default:
		return OutcomeError
	}
}
