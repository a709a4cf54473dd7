package extractors

import (
	"github.com/sirupsen/logrus"

	"github.com/tilfirn/firn/pkg/extractor"
	"github.com/tilfirn/firn/pkg/triplestore"
)

// Logger traces every triplet the driver dispatches, the Go counterpart
// of original_source's println-based Logger extractor in extractor/mod.rs
// — here routed through logrus to match the pipeline's structured logging
// (§10).
type Logger struct {
	Log *logrus.Logger
}

// Name implements extractor.Extractor.
func (l *Logger) Name() string { return "logger" }

// Init is a no-op.
func (l *Logger) Init(h extractor.Handle) error { return nil }

// EntryAdded logs the triplet at debug level.
func (l *Logger) EntryAdded(h extractor.Handle, entity triplestore.Entity, attribute triplestore.Attribute, value triplestore.Value) error {
	log := l.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log.WithFields(logrus.Fields{
		"entity":    entity,
		"attribute": attribute,
		"value":     value.String(),
	}).Debug("triplet")
	return nil
}
