package query

import (
	"errors"

	"github.com/tilfirn/firn/pkg/triplestore"
)

// ErrUnsupportedPattern is returned when a rule's slots form the
// (Constant, Variable, Constant) combination: an unbound attribute variable
// with both entity and value already constant. The resolver has no index
// that can answer "which attribute connects these two constants" without a
// full scan of attribute-space, so the pattern is rejected outright rather
// than synthesized (§4.4, §9 open question).
var ErrUnsupportedPattern = errors.New("query: (constant, variable, constant) pattern is unsupported")

// EntitySlot is a Rule's subject position: either bound to a constant
// Entity or left as an entity-typed Variable.
type EntitySlot struct {
	isVar    bool
	variable Variable
	constant triplestore.Entity
}

// EntityConst constructs a constant entity slot.
func EntityConst(e triplestore.Entity) EntitySlot { return EntitySlot{constant: e} }

// EntityVarSlot constructs a variable entity slot. v must be entity-typed.
func EntityVarSlot(v Variable) EntitySlot {
	if v.Kind != EntityKind {
		panic("query: EntityVarSlot requires an entity-typed variable")
	}
	return EntitySlot{isVar: true, variable: v}
}

// AttributeSlot is a Rule's predicate position: either bound to a constant
// Attribute or left as an attribute-typed Variable.
type AttributeSlot struct {
	isVar    bool
	variable Variable
	constant triplestore.Attribute
}

// AttributeConst constructs a constant attribute slot.
func AttributeConst(a triplestore.Attribute) AttributeSlot { return AttributeSlot{constant: a} }

// AttributeVarSlot constructs a variable attribute slot. v must be
// attribute-typed.
func AttributeVarSlot(v Variable) AttributeSlot {
	if v.Kind != AttributeKind {
		panic("query: AttributeVarSlot requires an attribute-typed variable")
	}
	return AttributeSlot{isVar: true, variable: v}
}

// ValueSlot is a Rule's object position: a constant Value, a value-typed
// Variable, or — the coercion case from §4.3/§6 — an entity-typed
// Variable used where the surface syntax writes "#x" in the object
// position. Binding is still keyed by the variable's Name, so an
// entity-typed slot here shares its binding with any entity-typed slot of
// the same name elsewhere in the rule list.
type ValueSlot struct {
	isVar    bool
	variable Variable
	constant triplestore.Value
}

// ValueConst constructs a constant value slot.
func ValueConst(v triplestore.Value) ValueSlot { return ValueSlot{constant: v} }

// ValueVarSlot constructs a value-typed variable slot.
func ValueVarSlot(v Variable) ValueSlot {
	if v.Kind != ValueKind {
		panic("query: ValueVarSlot requires a value-typed variable")
	}
	return ValueSlot{isVar: true, variable: v}
}

// ValueEntityVarSlot constructs a value-position slot from an entity-typed
// variable (the "#x in object position" case, §4.3's coercion rule).
func ValueEntityVarSlot(v Variable) ValueSlot {
	if v.Kind != EntityKind {
		panic("query: ValueEntityVarSlot requires an entity-typed variable")
	}
	return ValueSlot{isVar: true, variable: v}
}

// Rule is a single triple-pattern with constant and/or variable slots
// (§4.4).
type Rule struct {
	Entity    EntitySlot
	Attribute AttributeSlot
	Value     ValueSlot
}

// NewRule constructs a Rule from its three slots.
func NewRule(entity EntitySlot, attribute AttributeSlot, value ValueSlot) Rule {
	return Rule{Entity: entity, Attribute: attribute, Value: value}
}

// loadedEntity is the entity slot after pre-substitution: either a bound
// constant or a still-unbound variable.
type loadedEntity struct {
	bound    bool
	constant triplestore.Entity
	variable Variable
}

func (r Rule) loadEntity(set *VariableSet) loadedEntity {
	if !r.Entity.isVar {
		return loadedEntity{bound: true, constant: r.Entity.constant}
	}
	if e, ok := set.GetEntity(r.Entity.variable); ok {
		return loadedEntity{bound: true, constant: e}
	}
	return loadedEntity{variable: r.Entity.variable}
}

type loadedAttribute struct {
	bound    bool
	constant triplestore.Attribute
	variable Variable
}

func (r Rule) loadAttribute(set *VariableSet) loadedAttribute {
	if !r.Attribute.isVar {
		return loadedAttribute{bound: true, constant: r.Attribute.constant}
	}
	if a, ok := set.GetAttribute(r.Attribute.variable); ok {
		return loadedAttribute{bound: true, constant: a}
	}
	return loadedAttribute{variable: r.Attribute.variable}
}

type loadedValue struct {
	bound    bool
	constant triplestore.Value
	variable Variable
}

func (r Rule) loadValue(set *VariableSet) loadedValue {
	if !r.Value.isVar {
		return loadedValue{bound: true, constant: r.Value.constant}
	}
	// Binding storage is keyed purely by name (see ValueEntityVarSlot), so
	// this lookup works whether the slot was declared value- or
	// entity-typed.
	if v, ok := set.values[r.Value.variable.Name]; ok {
		return loadedValue{bound: true, constant: v}
	}
	return loadedValue{variable: r.Value.variable}
}

// Resolve applies the rule against db starting from set, returning one
// extended VariableSet per completion. An empty, nil-error result means the
// rule matched nothing and the branch should be dropped (§4.4 "Failure").
func (r Rule) Resolve(db *triplestore.Database, set *VariableSet) ([]*VariableSet, error) {
	e := r.loadEntity(set)
	a := r.loadAttribute(set)
	v := r.loadValue(set)

	switch {
	case e.bound && a.bound && v.bound:
		// All constants already satisfied by prior rules or literals: a
		// pass-through, not re-verified against the store (§4.4).
		return []*VariableSet{set}, nil

	case !e.bound && a.bound && v.bound:
		// (V, C, C) -> VAE Single: enumerate E from (V, A).
		var out []*VariableSet
		for _, entity := range db.VAE().Values(v.constant, a.constant) {
			if next, ok := set.ConstrainEntity(e.variable, entity); ok {
				out = append(out, next)
			}
		}
		return out, nil

	case e.bound && a.bound && !v.bound:
		// (C, C, V) -> EAV Single: enumerate V from (E, A).
		var out []*VariableSet
		for _, value := range db.EAV().Values(e.constant, a.constant) {
			if next, ok := set.ConstrainValue(v.variable, value); ok {
				out = append(out, next)
			}
		}
		return out, nil

	case e.bound && !a.bound && v.bound:
		return nil, ErrUnsupportedPattern

	case e.bound && !a.bound && !v.bound:
		// (C, V, V) -> EAV Double: scan attribute-space for a given E.
		var out []*VariableSet
		for _, pair := range db.EAV().Get(e.constant) {
			for _, value := range pair.Values {
				withAttr, ok := set.ConstrainAttribute(a.variable, pair.K2)
				if !ok {
					continue
				}
				if next, ok := withAttr.ConstrainValue(v.variable, value); ok {
					out = append(out, next)
				}
			}
		}
		return out, nil

	case !e.bound && !a.bound && v.bound:
		// (V, V, C) -> VAE Double: scan attribute-space for a given V.
		var out []*VariableSet
		for _, pair := range db.VAE().Get(v.constant) {
			for _, entity := range pair.Values {
				withAttr, ok := set.ConstrainAttribute(a.variable, pair.K2)
				if !ok {
					continue
				}
				if next, ok := withAttr.ConstrainEntity(e.variable, entity); ok {
					out = append(out, next)
				}
			}
		}
		return out, nil

	case !e.bound && a.bound && !v.bound:
		// (V, C, V) -> AVE Double: scan value-space for a given A.
		var out []*VariableSet
		for _, pair := range db.AVE().Get(a.constant) {
			for _, entity := range pair.Values {
				withValue, ok := set.ConstrainValue(v.variable, pair.K2)
				if !ok {
					continue
				}
				if next, ok := withValue.ConstrainEntity(e.variable, entity); ok {
					out = append(out, next)
				}
			}
		}
		return out, nil

	default:
		// (V, V, V) -> EAV Triple: full scan, binding all three.
		var out []*VariableSet
		for _, group := range db.EAV().Scan() {
			withEntity, ok := set.ConstrainEntity(e.variable, group.K1)
			if !ok {
				continue
			}
			withAttr, ok := withEntity.ConstrainAttribute(a.variable, group.K2)
			if !ok {
				continue
			}
			for _, value := range group.Values {
				if next, ok := withAttr.ConstrainValue(v.variable, value); ok {
					out = append(out, next)
				}
			}
		}
		return out, nil
	}
}
