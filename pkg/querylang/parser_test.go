package querylang

import (
	"testing"

	"github.com/tilfirn/firn/pkg/query"
	"github.com/tilfirn/firn/pkg/triplestore"
)

func TestParseSimplePattern(t *testing.T) {
	rules, err := Parse(`{#e, :"time/stamp", ?"42"}, {#e, :"doc/size", ?s}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("want 2 rules, got %d", len(rules))
	}

	db, wl := triplestore.NewDatabase()
	t.Cleanup(wl.Close)
	db.Insert("1", "time/stamp", triplestore.Data("42"))
	db.Insert("1", "doc/size", triplestore.Data("255"))
	db.Insert("2", "time/stamp", triplestore.Data("42"))
	db.Insert("2", "doc/size", triplestore.Data("37"))
	db.Insert("3", "time/stamp", triplestore.Data("1337"))
	db.Insert("3", "doc/size", triplestore.Data("37"))

	results, err := query.Query(db, rules)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("want 2 solutions, got %d", len(results))
	}
}

func TestParseCoercionPattern(t *testing.T) {
	rules, err := Parse(`{#a, :"time/stamp", ?"42"}, {#b, :"rel/something", #a}, {#b, :"doc/size", ?s}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rules) != 3 {
		t.Fatalf("want 3 rules, got %d", len(rules))
	}

	db, wl := triplestore.NewDatabase()
	t.Cleanup(wl.Close)
	db.Insert("1", "time/stamp", triplestore.Data("42"))
	db.Insert("3", "rel/something", triplestore.Reference("1"))
	db.Insert("3", "doc/size", triplestore.Data("69"))

	results, err := query.Query(db, rules)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("want 1 solution, got %d", len(results))
	}

	a, _ := results[0].GetEntity(query.EntityVar("a"))
	b, _ := results[0].GetEntity(query.EntityVar("b"))
	s, _ := results[0].GetValue(query.ValueVar("s"))
	if a != "1" || b != "3" || s != triplestore.Data("69") {
		t.Fatalf("got a=%v b=%v s=%v", a, b, s)
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	if _, err := Parse(`{#e, "doc/size", ?s}`); err == nil {
		t.Fatal("want error for attribute slot missing ':' sigil")
	}
	if _, err := Parse(`{#e, :"doc/size", ?s`); err == nil {
		t.Fatal("want error for unterminated pattern")
	}
}
