package query

import (
	"github.com/mitchellh/copystructure"

	"github.com/tilfirn/firn/pkg/triplestore"
)

// VariableSet is a partial or complete mapping from variables to bound
// values, split into three disjoint sub-mappings by kind (§4.3). It is
// persistent: Constrain never mutates the receiver, it returns an extended
// copy, so the resolver can fork a branch per candidate completion without
// the branches interfering with one another.
type VariableSet struct {
	entities   map[string]triplestore.Entity
	attributes map[string]triplestore.Attribute
	values     map[string]triplestore.Value
}

// NewVariableSet returns an empty binding.
func NewVariableSet() *VariableSet {
	return &VariableSet{
		entities:   make(map[string]triplestore.Entity),
		attributes: make(map[string]triplestore.Attribute),
		values:     make(map[string]triplestore.Value),
	}
}

// clone forks the set via copystructure so the fork is independent of the
// receiver even though Entity/Attribute/Value hold no pointers — the
// dependency pays for itself once binding sets grow nested maps of
// references during multi-rule joins (§9 "Persistent partial-binding
// snapshots").
func (vs *VariableSet) clone() *VariableSet {
	copied, err := copystructure.Copy(vs)
	if err != nil {
		// Entity/Attribute/Value are plain values with a Copy() escape
		// hatch (triplestore.Value.Copy); copystructure cannot fail on
		// them short of running out of memory.
		panic("query: unexpected copystructure failure: " + err.Error())
	}
	return copied.(*VariableSet)
}

// Bindings flattens the three sub-mappings into a single string-keyed map
// for display or wire encoding, where the caller does not need to know
// which kind a given variable name bound to. Entity and Value bindings
// for the same name coincide under §4.3's coercion rule, so the map holds
// one entry per distinct name, not per sub-mapping.
func (vs *VariableSet) Bindings() map[string]string {
	out := make(map[string]string, len(vs.entities)+len(vs.attributes)+len(vs.values))
	for name, e := range vs.entities {
		out[name] = string(e)
	}
	for name, a := range vs.attributes {
		out[name] = string(a)
	}
	for name, v := range vs.values {
		if _, ok := out[name]; ok {
			continue
		}
		out[name] = v.String()
	}
	return out
}

// GetEntity looks up an entity-typed variable's binding.
func (vs *VariableSet) GetEntity(v Variable) (triplestore.Entity, bool) {
	e, ok := vs.entities[v.Name]
	return e, ok
}

// GetAttribute looks up an attribute-typed variable's binding.
func (vs *VariableSet) GetAttribute(v Variable) (triplestore.Attribute, bool) {
	a, ok := vs.attributes[v.Name]
	return a, ok
}

// GetValue looks up a value-typed variable's binding.
func (vs *VariableSet) GetValue(v Variable) (triplestore.Value, bool) {
	val, ok := vs.values[v.Name]
	return val, ok
}

// ConstrainEntity binds variable v to entity e, applying the
// value-coercion rule: the same name is also recorded in the value
// sub-mapping as Reference(e), so a later rule can treat this entity as
// the object of a triple without explicit join syntax (§4.3). If v is
// already bound to a different entity — or its coerced value binding
// conflicts with a binding already present — Constrain refuses to extend
// and returns (nil, false); the caller must drop the branch.
func (vs *VariableSet) ConstrainEntity(v Variable, e triplestore.Entity) (*VariableSet, bool) {
	next := vs.clone()

	if existing, ok := next.entities[v.Name]; ok {
		if existing != e {
			return nil, false
		}
	} else {
		next.entities[v.Name] = e
	}

	ref := triplestore.Reference(e)
	if existing, ok := next.values[v.Name]; ok {
		if existing != ref {
			return nil, false
		}
	} else {
		next.values[v.Name] = ref
	}

	return next, true
}

// ConstrainAttribute binds variable v to attribute a. Attributes never
// participate in coercion (§4.3 only coerces between Entity and Value).
func (vs *VariableSet) ConstrainAttribute(v Variable, a triplestore.Attribute) (*VariableSet, bool) {
	next := vs.clone()

	if existing, ok := next.attributes[v.Name]; ok {
		if existing != a {
			return nil, false
		}
		return next, true
	}

	next.attributes[v.Name] = a
	return next, true
}

// ConstrainValue binds variable v to value val, applying the entity
// coercion rule in reverse: if val is a Reference(e), the entity
// sub-mapping also records e under the same name.
func (vs *VariableSet) ConstrainValue(v Variable, val triplestore.Value) (*VariableSet, bool) {
	next := vs.clone()

	if existing, ok := next.values[v.Name]; ok {
		if existing != val {
			return nil, false
		}
	} else {
		next.values[v.Name] = val
	}

	if e, ok := val.AsEntity(); ok {
		if existing, ok := next.entities[v.Name]; ok {
			if existing != e {
				return nil, false
			}
		} else {
			next.entities[v.Name] = e
		}
	}

	return next, true
}
