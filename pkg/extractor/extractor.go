// Package extractor defines the pluggable callback contract implemented by
// every pipeline stage (§4.7).
package extractor

import (
	"io"

	"github.com/tilfirn/firn/pkg/triplestore"
)

// Extractor inspects blobs and derived triplets to emit further triplets.
// Both methods return an error rather than panicking: a failing extractor
// is logged and skipped for that event, it never aborts the pipeline.
type Extractor interface {
	// Name identifies the extractor in logs and metrics.
	Name() string

	// Init runs once, before any event is dispatched. It may perform bulk
	// scans of the blob root and insert initial triplets.
	Init(h Handle) error

	// EntryAdded is invoked once per triplet observed on the write-log, in
	// strict insertion order.
	EntryAdded(h Handle, entity triplestore.Entity, attribute triplestore.Attribute, value triplestore.Value) error
}

// Handle is the subset of pkg/handle.Handle that extractors need: mutation
// and lookup on the triplet store, plus blob access. Kept as a local
// interface so pkg/extractor does not import pkg/handle, which itself
// would otherwise need to import pkg/extractor's consumers.
type Handle interface {
	Insert(entity triplestore.Entity, attribute triplestore.Attribute, value triplestore.Value)
	Get(entity triplestore.Entity, attribute triplestore.Attribute) []triplestore.Value
	Blob(entity triplestore.Entity) (io.ReadSeekCloser, error)
}
