// Package triplestore implements the main-memory, three-index triplet
// database that backs the rest of firn: a multiset of (entity, attribute,
// value) facts, kept simultaneously in EAV, AVE and VAE order.
package triplestore

import "fmt"

// Entity is an opaque identifier naming the subject of a triplet — typically
// a blob filename, but synthetic ids (e.g. "geoname:12345") are equally
// legal. Entities are implicitly created by first use; nothing validates
// that an entity corresponds to an actual blob.
type Entity string

// Attribute is a slash-delimited namespaced label such as "time/creation"
// or "device/manufacturer". The slash is convention only: attributes are
// compared for plain string equality.
type Attribute string

// ValueKind distinguishes the two variants of Value.
type ValueKind byte

const (
	// KindData marks a Value holding a scalar payload string.
	KindData ValueKind = iota
	// KindReference marks a Value pointing at another Entity.
	KindReference
)

// Value is a tagged union: either a scalar Data string or a Reference to
// another Entity. References participate in queries both as values and,
// via the coercion rule in pkg/query, as entities.
type Value struct {
	kind ValueKind
	data string
}

// Data constructs a scalar Value.
func Data(s string) Value { return Value{kind: KindData, data: s} }

// Reference constructs a Value pointing at entity e.
func Reference(e Entity) Value { return Value{kind: KindReference, data: string(e)} }

// IsReference reports whether v holds an Entity reference.
func (v Value) IsReference() bool { return v.kind == KindReference }

// IsData reports whether v holds a scalar payload.
func (v Value) IsData() bool { return v.kind == KindData }

// AsData returns the scalar payload and true, or ("", false) if v is a
// reference.
func (v Value) AsData() (string, bool) {
	if v.kind != KindData {
		return "", false
	}
	return v.data, true
}

// AsEntity returns the referenced entity and true, or ("", false) if v
// holds scalar data.
func (v Value) AsEntity() (Entity, bool) {
	if v.kind != KindReference {
		return "", false
	}
	return Entity(v.data), true
}

// String renders the value for debugging; references are shown as "->e".
func (v Value) String() string {
	if v.kind == KindReference {
		return "->" + v.data
	}
	return v.data
}

// Copy implements github.com/mitchellh/copystructure's Copier interface.
// Value has unexported fields but no pointers or slices behind them, so a
// plain value copy is already a correct deep copy; without this method
// copystructure would silently zero the unexported fields when it forks a
// VariableSet (pkg/query), since it cannot Set them through reflection.
func (v Value) Copy() (any, error) {
	return v, nil
}

// Triplet is an ordered (Entity, Attribute, Value) fact.
type Triplet struct {
	Entity    Entity
	Attribute Attribute
	Value     Value
}

func (t Triplet) String() string {
	return fmt.Sprintf("(%s %s %s)", t.Entity, t.Attribute, t.Value)
}
