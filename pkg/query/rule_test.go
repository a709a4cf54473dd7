package query

import (
	"testing"

	"github.com/tilfirn/firn/pkg/triplestore"
)

func seedDB(t *testing.T) *triplestore.Database {
	t.Helper()
	db, wl := triplestore.NewDatabase()
	t.Cleanup(wl.Close)

	db.Insert("a.jpg", "time/creation", triplestore.Data("2024-01-01"))
	db.Insert("a.jpg", "doc/size", triplestore.Data("1024"))
	db.Insert("b.jpg", "time/creation", triplestore.Data("2024-02-02"))
	db.Insert("b.jpg", "doc/size", triplestore.Data("2048"))
	db.Insert("b.jpg", "rel/derived-from", triplestore.Reference("a.jpg"))
	return db
}

func TestRuleConstantConstantVariable(t *testing.T) {
	db := seedDB(t)

	rule := NewRule(
		EntityConst("a.jpg"),
		AttributeConst("doc/size"),
		ValueVarSlot(ValueVar("s")),
	)

	results, err := rule.Resolve(db, NewVariableSet())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("want 1 result, got %d", len(results))
	}
	val, ok := results[0].GetValue(ValueVar("s"))
	if !ok || val != triplestore.Data("1024") {
		t.Fatalf("got %v, %v", val, ok)
	}
}

func TestRuleVariableConstantConstant(t *testing.T) {
	db := seedDB(t)

	rule := NewRule(
		EntityVarSlot(EntityVar("e")),
		AttributeConst("doc/size"),
		ValueConst(triplestore.Data("2048")),
	)

	results, err := rule.Resolve(db, NewVariableSet())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("want 1 result, got %d", len(results))
	}
	e, ok := results[0].GetEntity(EntityVar("e"))
	if !ok || e != triplestore.Entity("b.jpg") {
		t.Fatalf("got %v, %v", e, ok)
	}
}

func TestRuleUnsupportedPattern(t *testing.T) {
	db := seedDB(t)

	rule := NewRule(
		EntityConst("a.jpg"),
		AttributeVarSlot(AttributeVar("a")),
		ValueConst(triplestore.Data("1024")),
	)

	if _, err := rule.Resolve(db, NewVariableSet()); err != ErrUnsupportedPattern {
		t.Fatalf("want ErrUnsupportedPattern, got %v", err)
	}
}

func TestRuleValueEntityVarCoercion(t *testing.T) {
	db := seedDB(t)

	// {#b, :"rel/derived-from", #a} — the object position binds an
	// entity-typed variable via the coercion rule.
	rule := NewRule(
		EntityVarSlot(EntityVar("b")),
		AttributeConst("rel/derived-from"),
		ValueEntityVarSlot(EntityVar("a")),
	)

	results, err := rule.Resolve(db, NewVariableSet())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("want 1 result, got %d", len(results))
	}
	a, ok := results[0].GetEntity(EntityVar("a"))
	if !ok || a != triplestore.Entity("a.jpg") {
		t.Fatalf("got %v, %v", a, ok)
	}
	b, ok := results[0].GetEntity(EntityVar("b"))
	if !ok || b != triplestore.Entity("b.jpg") {
		t.Fatalf("got %v, %v", b, ok)
	}
}

func TestRuleFullScan(t *testing.T) {
	db := seedDB(t)

	rule := NewRule(
		EntityVarSlot(EntityVar("e")),
		AttributeVarSlot(AttributeVar("a")),
		ValueVarSlot(ValueVar("v")),
	)

	results, err := rule.Resolve(db, NewVariableSet())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("want 5 results (one per inserted triplet), got %d", len(results))
	}
}

func TestRuleNoMatchDropsBranch(t *testing.T) {
	db := seedDB(t)

	rule := NewRule(
		EntityConst("missing.jpg"),
		AttributeConst("doc/size"),
		ValueVarSlot(ValueVar("s")),
	)

	results, err := rule.Resolve(db, NewVariableSet())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("want 0 results, got %d", len(results))
	}
}
