// Package pipeline implements the driver described in §4.8: it runs each
// registered extractor's Init once, then drains the write-log until the
// quiescence timeout elapses with nothing left to dispatch.
package pipeline

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tilfirn/firn/internal/metrics"
	"github.com/tilfirn/firn/pkg/extractor"
	"github.com/tilfirn/firn/pkg/triplestore"
)

// DefaultQuiescenceTimeout is the recommended bounded-wait window from
// §4.8.
const DefaultQuiescenceTimeout = 100 * time.Millisecond

// Driver initializes extractors in registration order and fans out
// write-log events to each of them in turn until quiescence.
type Driver struct {
	handle     extractor.Handle
	writeLog   *triplestore.WriteLog
	extractors []extractor.Extractor
	timeout    time.Duration
	log        *logrus.Logger
	metrics    *metrics.Pipeline
}

// Option configures a Driver at construction time.
type Option func(*Driver)

// WithTimeout overrides DefaultQuiescenceTimeout.
func WithTimeout(d time.Duration) Option {
	return func(drv *Driver) { drv.timeout = d }
}

// WithLogger overrides the driver's logrus.Logger. The default is
// logrus.StandardLogger().
func WithLogger(log *logrus.Logger) Option {
	return func(drv *Driver) { drv.log = log }
}

// WithMetrics attaches a prometheus instrumentation set. Without this
// option the driver runs uninstrumented.
func WithMetrics(m *metrics.Pipeline) Option {
	return func(drv *Driver) { drv.metrics = m }
}

// New constructs a Driver over handle and writeLog, dispatching to
// extractors in the order given.
func New(h extractor.Handle, writeLog *triplestore.WriteLog, extractors []extractor.Extractor, opts ...Option) *Driver {
	drv := &Driver{
		handle:     h,
		writeLog:   writeLog,
		extractors: extractors,
		timeout:    DefaultQuiescenceTimeout,
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(drv)
	}
	return drv
}

// Run executes the full driver algorithm: Init every extractor, then drain
// the write-log dispatching each event to every extractor in order, until
// a Receive times out with the queue empty (§4.8, §5 ordering guarantees).
func (d *Driver) Run() error {
	for _, ex := range d.extractors {
		if err := ex.Init(d.handle); err != nil {
			d.logExtractorError(ex, "init", err)
		}
	}

	for {
		t, status := d.writeLog.Receive(d.timeout)
		switch status {
		case triplestore.EventReady:
			d.dispatch(t)
		case triplestore.EventTimeout, triplestore.EventClosed:
			return nil
		}
	}
}

func (d *Driver) dispatch(t triplestore.Triplet) {
	for _, ex := range d.extractors {
		if d.metrics != nil {
			d.metrics.EventsDispatched.WithLabelValues(ex.Name()).Inc()
		}
		if err := ex.EntryAdded(d.handle, t.Entity, t.Attribute, t.Value); err != nil {
			d.logExtractorError(ex, "entry_added", err)
		}
	}
}

func (d *Driver) logExtractorError(ex extractor.Extractor, stage string, err error) {
	if d.metrics != nil {
		d.metrics.ExtractorErrors.WithLabelValues(ex.Name()).Inc()
	}
	d.log.WithFields(logrus.Fields{
		"extractor": ex.Name(),
		"stage":     stage,
	}).WithError(err).Error("extractor callback failed")
}
