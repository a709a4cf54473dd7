// Package metrics holds the pipeline's prometheus instrumentation. It is
// kept separate from pkg/pipeline so the driver can be constructed in
// tests without needing a live registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline groups the pipeline's counters and gauge. The driver updates
// EventsDispatched and ExtractorErrors while draining the write-log;
// QueueDepth is registered but pkg/pipeline never sets it, so it stays 0.
type Pipeline struct {
	EventsDispatched *prometheus.CounterVec
	ExtractorErrors  *prometheus.CounterVec
	QueueDepth       prometheus.Gauge
}

// NewPipeline registers a fresh set of pipeline metrics against reg. Pass
// prometheus.NewRegistry() in tests to avoid colliding with the global
// default registry across parallel test runs.
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	p := &Pipeline{
		EventsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "firn",
			Subsystem: "pipeline",
			Name:      "events_dispatched_total",
			Help:      "Number of write-log events dispatched to an extractor.",
		}, []string{"extractor"}),
		ExtractorErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "firn",
			Subsystem: "pipeline",
			Name:      "extractor_errors_total",
			Help:      "Number of errors returned by an extractor callback.",
		}, []string{"extractor"}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "firn",
			Subsystem: "pipeline",
			Name:      "write_log_depth",
			Help:      "Number of triplets queued in the write-log.",
		}),
	}

	reg.MustRegister(p.EventsDispatched, p.ExtractorErrors, p.QueueDepth)
	return p
}
