package triplestore

import (
	"testing"
	"time"
)

func TestInsertPopulatesAllThreeIndices(t *testing.T) {
	db, wl := NewDatabase()
	db.Insert("1", "time/stamp", Data("42"))

	if got := db.Get("1", "time/stamp"); len(got) != 1 {
		t.Fatalf("EAV: expected 1 value, got %d", len(got))
	}
	if got := db.AVE().Values("time/stamp", Data("42")); len(got) != 1 || got[0] != "1" {
		t.Errorf("AVE: expected [1], got %v", got)
	}
	if got := db.VAE().Values(Data("42"), "time/stamp"); len(got) != 1 || got[0] != "1" {
		t.Errorf("VAE: expected [1], got %v", got)
	}

	triplet, status := wl.Receive(time.Second)
	if status != EventReady {
		t.Fatalf("expected EventReady, got %v", status)
	}
	if triplet.Entity != "1" || triplet.Attribute != "time/stamp" {
		t.Errorf("unexpected triplet on write-log: %+v", triplet)
	}
}

func TestInsertDuplicateProducesTwoOccurrences(t *testing.T) {
	db, wl := NewDatabase()
	db.Insert("1", "tag", Data("a"))
	db.Insert("1", "tag", Data("a"))

	if got := db.Get("1", "tag"); len(got) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(got))
	}

	for i := 0; i < 2; i++ {
		if _, status := wl.Receive(time.Second); status != EventReady {
			t.Fatalf("event %d: expected EventReady, got %v", i, status)
		}
	}
}

func TestWriteLogReceiveTimesOutWhenEmpty(t *testing.T) {
	_, wl := NewDatabase()
	_, status := wl.Receive(20 * time.Millisecond)
	if status != EventTimeout {
		t.Fatalf("expected EventTimeout, got %v", status)
	}
}

func TestRebuildIndicesPreservesEquivalence(t *testing.T) {
	db, _ := NewDatabase()
	db.Insert("1", "tag", Data("a"))
	db.Insert("1", "tag", Data("b"))
	db.Insert("2", "rel", Reference("1"))

	db.RebuildIndices()

	if got := db.AVE().Values("tag", Data("a")); len(got) != 1 || got[0] != "1" {
		t.Errorf("AVE after rebuild: got %v", got)
	}
	if got := db.VAE().Values(Reference("1"), "rel"); len(got) != 1 || got[0] != "2" {
		t.Errorf("VAE after rebuild: got %v", got)
	}
}

func TestGetReturnsEmptyForUnknownPair(t *testing.T) {
	db, _ := NewDatabase()
	if got := db.Get("missing", "missing"); len(got) != 0 {
		t.Errorf("expected no values, got %v", got)
	}
}
