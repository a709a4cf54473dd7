package triplestore

import "testing"

func TestTripletIndexAppendAndValues(t *testing.T) {
	idx := NewTripletIndex[Entity, Attribute, Value]()

	idx.Append("1", "tag", Data("a"))
	idx.Append("1", "tag", Data("b"))
	idx.Append("1", "tag", Data("c"))

	values := idx.Values("1", "tag")
	if len(values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(values))
	}

	want := []string{"a", "b", "c"}
	for i, v := range values {
		got, ok := v.AsData()
		if !ok || got != want[i] {
			t.Errorf("values[%d] = %v, want %s", i, v, want[i])
		}
	}
}

func TestTripletIndexValuesMissing(t *testing.T) {
	idx := NewTripletIndex[Entity, Attribute, Value]()
	if vs := idx.Values("nope", "nope"); vs != nil {
		t.Errorf("expected nil for missing key, got %v", vs)
	}
}

func TestTripletIndexGetScansSharedK1(t *testing.T) {
	idx := NewTripletIndex[Entity, Attribute, Value]()
	idx.Append("1", "a", Data("x"))
	idx.Append("1", "b", Data("y"))
	idx.Append("2", "a", Data("z"))

	pairs := idx.Get("1")
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs for k1=1, got %d", len(pairs))
	}
}

func TestTripletIndexScanFullEnumeration(t *testing.T) {
	idx := NewTripletIndex[Entity, Attribute, Value]()
	idx.Append("1", "a", Data("x"))
	idx.Append("2", "b", Data("y"))

	groups := idx.Scan()
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if idx.Len() != 2 {
		t.Errorf("Len() = %d, want 2", idx.Len())
	}
}

func TestTripletIndexClear(t *testing.T) {
	idx := NewTripletIndex[Entity, Attribute, Value]()
	idx.Append("1", "a", Data("x"))
	idx.Clear()

	if idx.Len() != 0 {
		t.Errorf("expected empty index after Clear, Len() = %d", idx.Len())
	}
	if vs := idx.Values("1", "a"); vs != nil {
		t.Errorf("expected nil after Clear, got %v", vs)
	}
}

func TestValueKindDistinguishesDataFromReference(t *testing.T) {
	idx := NewTripletIndex[Attribute, Value, Entity]()

	idx.Append("rel", Data("1"), "alpha")
	idx.Append("rel", Reference("1"), "beta")

	dataEntities := idx.Values("rel", Data("1"))
	refEntities := idx.Values("rel", Reference("1"))

	if len(dataEntities) != 1 || dataEntities[0] != "alpha" {
		t.Errorf("Data(1) bucket = %v, want [alpha]", dataEntities)
	}
	if len(refEntities) != 1 || refEntities[0] != "beta" {
		t.Errorf("Reference(1) bucket = %v, want [beta]", refEntities)
	}
}
