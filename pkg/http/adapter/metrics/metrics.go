package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	motmedelErrors "github.com/Motmedel/response_adapter_go/pkg/errors"
)

const Namespace = "response_adapter"

// Metrics counts what the responders do. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Responses          *prometheus.CounterVec
	BodyCancellations  prometheus.Counter
	DiagnosticsSent    prometheus.Counter
	DiagnosticFailures prometheus.Counter
}

func (metrics *Metrics) ObserveResponse(statusCode int, bodyKind fmt.Stringer) {
	if metrics == nil {
		return
	}

	kind := "absent"
	if bodyKind != nil {
		kind = bodyKind.String()
	}
	metrics.Responses.WithLabelValues(strconv.Itoa(statusCode), kind).Inc()
}

func (metrics *Metrics) ObserveBodyCancellation() {
	if metrics == nil {
		return
	}
	metrics.BodyCancellations.Inc()
}

func (metrics *Metrics) ObserveDiagnostic(err error) {
	if metrics == nil {
		return
	}

	if err != nil {
		metrics.DiagnosticFailures.Inc()
		return
	}
	metrics.DiagnosticsSent.Inc()
}

func (metrics *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		metrics.Responses,
		metrics.BodyCancellations,
		metrics.DiagnosticsSent,
		metrics.DiagnosticFailures,
	}
}

// New creates the collectors and registers them with registerer, if one is given.
func New(registerer prometheus.Registerer) (*Metrics, error) {
	metrics := &Metrics{
		Responses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "responses_total",
				Help:      "Responses written, by status code and body kind.",
			},
			[]string{"code", "body"},
		),
		BodyCancellations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "body_cancellations_total",
				Help:      "Body drains cancelled because the client went away.",
			},
		),
		DiagnosticsSent: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "diagnostics_sent_total",
				Help:      "Error diagnostics pushed over the live-reload channel.",
			},
		),
		DiagnosticFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "diagnostic_failures_total",
				Help:      "Error diagnostics that could not be encoded or sent.",
			},
		),
	}

	if registerer == nil {
		return metrics, nil
	}

	var err error
	for _, collector := range metrics.collectors() {
		err = multierr.Append(err, registerer.Register(collector))
	}
	if err != nil {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("prometheus register: %w", err))
	}

	return metrics, nil
}
