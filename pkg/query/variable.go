// Package query implements the pattern query engine: typed variables and
// partial bindings (§4.3), the single-rule resolver (§4.4), and the
// recursive rule-list engine (§4.5).
package query

// Kind is the tagged-variant discriminator for Variable — a disjoint
// three-way split (Entity / Attribute / Value) expressed as a flat enum
// rather than through subclassing (§9 "Typed variables without language
// inheritance").
type Kind byte

const (
	// EntityKind ranges over triplestore.Entity.
	EntityKind Kind = iota
	// AttributeKind ranges over triplestore.Attribute.
	AttributeKind
	// ValueKind ranges over triplestore.Value.
	ValueKind
)

func (k Kind) String() string {
	switch k {
	case EntityKind:
		return "entity"
	case AttributeKind:
		return "attribute"
	case ValueKind:
		return "value"
	default:
		return "unknown"
	}
}

// Variable is typed by what it ranges over. Two variables are equal iff
// their (Name, Kind) pair matches.
type Variable struct {
	Name string
	Kind Kind
}

// EntityVar constructs an entity-typed variable.
func EntityVar(name string) Variable { return Variable{Name: name, Kind: EntityKind} }

// AttributeVar constructs an attribute-typed variable.
func AttributeVar(name string) Variable { return Variable{Name: name, Kind: AttributeKind} }

// ValueVar constructs a value-typed variable.
func ValueVar(name string) Variable { return Variable{Name: name, Kind: ValueKind} }

func (v Variable) String() string {
	switch v.Kind {
	case EntityKind:
		return "#" + v.Name
	case AttributeKind:
		return ":" + v.Name
	default:
		return "?" + v.Name
	}
}
