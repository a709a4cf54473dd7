package pipeline

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tilfirn/firn/pkg/extractor"
	"github.com/tilfirn/firn/pkg/handle"
	"github.com/tilfirn/firn/pkg/triplestore"
)

// recordingExtractor appends every dispatched triplet to a shared, mutex
// guarded log so tests can assert on dispatch order across extractors.
type recordingExtractor struct {
	name string
	mu   *sync.Mutex
	log  *[]triplestore.Triplet
	on   func(h extractor.Handle, t triplestore.Triplet) error
}

func (r *recordingExtractor) Name() string { return r.name }

func (r *recordingExtractor) Init(h extractor.Handle) error { return nil }

func (r *recordingExtractor) EntryAdded(h extractor.Handle, entity triplestore.Entity, attribute triplestore.Attribute, value triplestore.Value) error {
	t := triplestore.Triplet{Entity: entity, Attribute: attribute, Value: value}
	r.mu.Lock()
	*r.log = append(*r.log, t)
	r.mu.Unlock()

	if r.on != nil {
		return r.on(h, t)
	}
	return nil
}

func TestDriverQuiescenceAndDispatchOrder(t *testing.T) {
	root := t.TempDir()
	db, wl := triplestore.NewDatabase()
	h, err := handle.New(db, root)
	if err != nil {
		t.Fatalf("new handle: %v", err)
	}

	var mu sync.Mutex
	var seen []triplestore.Triplet

	e1 := &recordingExtractor{
		name: "mime",
		mu:   &mu,
		log:  &seen,
		on: func(h extractor.Handle, t triplestore.Triplet) error {
			if t.Attribute == "blob/size" {
				h.Insert(t.Entity, "type/mime", triplestore.Data("image/jpeg"))
			}
			return nil
		},
	}
	e2 := &recordingExtractor{
		name: "exif",
		mu:   &mu,
		log:  &seen,
		on: func(h extractor.Handle, t triplestore.Triplet) error {
			if t.Attribute == "type/mime" {
				h.Insert(t.Entity, "image/width", triplestore.Data("42"))
			}
			return nil
		},
	}

	drv := New(h, wl, []extractor.Extractor{e1, e2}, WithTimeout(20*time.Millisecond))

	db.Insert("A", "blob/size", triplestore.Data("100"))

	if err := drv.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	// Each extractor observes every triplet (including ones it produced
	// itself), in strict insertion order. Both extractors append to the
	// same log, so every triplet appears twice: first for e1, then for e2.
	want := []triplestore.Triplet{
		{Entity: "A", Attribute: "blob/size", Value: triplestore.Data("100")},
		{Entity: "A", Attribute: "blob/size", Value: triplestore.Data("100")},
		{Entity: "A", Attribute: "type/mime", Value: triplestore.Data("image/jpeg")},
		{Entity: "A", Attribute: "type/mime", Value: triplestore.Data("image/jpeg")},
		{Entity: "A", Attribute: "image/width", Value: triplestore.Data("42")},
		{Entity: "A", Attribute: "image/width", Value: triplestore.Data("42")},
	}
	if len(seen) != len(want) {
		t.Fatalf("want %d events, got %d: %v", len(want), len(seen), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("event %d: want %v, got %v", i, want[i], seen[i])
		}
	}
}

func TestDriverContinuesAfterExtractorError(t *testing.T) {
	root := t.TempDir()
	db, wl := triplestore.NewDatabase()
	h, err := handle.New(db, root)
	if err != nil {
		t.Fatalf("new handle: %v", err)
	}

	var mu sync.Mutex
	var seen []triplestore.Triplet

	failing := &recordingExtractor{
		name: "failing",
		mu:   &mu,
		log:  &seen,
		on: func(h extractor.Handle, t triplestore.Triplet) error {
			return errors.New("boom")
		},
	}
	following := &recordingExtractor{name: "following", mu: &mu, log: &seen}

	drv := New(h, wl, []extractor.Extractor{failing, following}, WithTimeout(20*time.Millisecond))

	db.Insert("A", "doc/size", triplestore.Data("5"))

	if err := drv.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(seen) != 2 {
		t.Fatalf("want both extractors to observe the event, got %d", len(seen))
	}
}

func TestDriverRunsInitBeforeDispatch(t *testing.T) {
	root := t.TempDir()
	db, wl := triplestore.NewDatabase()
	h, err := handle.New(db, root)
	if err != nil {
		t.Fatalf("new handle: %v", err)
	}

	initDone := false
	seeder := &seedingExtractor{seeded: &initDone}

	drv := New(h, wl, []extractor.Extractor{seeder}, WithTimeout(20*time.Millisecond))

	if err := drv.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	if !initDone {
		t.Fatal("want Init to have run")
	}
	values := db.Get("seed", "attr")
	if len(values) != 1 || values[0] != triplestore.Data("v") {
		t.Fatalf("want seeded triplet visible after Run, got %v", values)
	}
}

type seedingExtractor struct {
	seeded *bool
}

func (s *seedingExtractor) Name() string { return "seeder" }

func (s *seedingExtractor) Init(h extractor.Handle) error {
	*s.seeded = true
	h.Insert("seed", "attr", triplestore.Data("v"))
	return nil
}

func (s *seedingExtractor) EntryAdded(h extractor.Handle, entity triplestore.Entity, attribute triplestore.Attribute, value triplestore.Value) error {
	return nil
}
