package triplestore

import (
	"encoding/binary"
	"sort"

	"github.com/zeebo/xxh3"
)

// Keyable is implemented by every type usable as an index key component
// (Entity, Attribute, Value). Bytes must be an unambiguous, order-preserving
// free encoding so that two distinct (k1, k2) pairs never collide once
// length-prefixed and concatenated.
type Keyable interface {
	Bytes() []byte
}

// Bytes implements Keyable for Entity.
func (e Entity) Bytes() []byte { return []byte(e) }

// Bytes implements Keyable for Attribute.
func (a Attribute) Bytes() []byte { return []byte(a) }

// Bytes implements Keyable for Value. The kind tag is included so that a
// Data("e1") value never collides with a Reference("e1") value of the same
// textual payload.
func (v Value) Bytes() []byte {
	b := make([]byte, 0, len(v.data)+1)
	b = append(b, byte(v.kind))
	return append(b, v.data...)
}

// entry is one (k1, k2) group: the bound key pair plus the ordered
// multiset of third-component values appended under it.
type entry[K1, K2 Keyable, V any] struct {
	k1     K1
	k2     K2
	values []V
	seq    int
}

// TripletIndex is a hash-bucketed map from a (K1, K2) pair to an
// insertion-ordered list of V — component A of the spec: EAV, AVE and VAE
// are each one instantiation of this type. The bucket key is derived with
// xxh3, a fast non-cryptographic hash well suited to the short, frequently
// re-hashed string keys a triplet store produces; collisions are resolved
// by a linear scan of the bucket, same as any other open hash table.
type TripletIndex[K1, K2 Keyable, V any] struct {
	buckets map[uint64][]*entry[K1, K2, V]
	groups  int
	nextSeq int
}

// NewTripletIndex constructs an empty index.
func NewTripletIndex[K1, K2 Keyable, V any]() *TripletIndex[K1, K2, V] {
	return &TripletIndex[K1, K2, V]{buckets: make(map[uint64][]*entry[K1, K2, V])}
}

func bucketKey(k1, k2 Keyable) uint64 {
	b1 := k1.Bytes()
	b2 := k2.Bytes()

	buf := make([]byte, 0, binary.MaxVarintLen64*2+len(b1)+len(b2))
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], uint64(len(b1)))
	buf = append(buf, tmp[:n]...)
	buf = append(buf, b1...)
	n = binary.PutUvarint(tmp[:], uint64(len(b2)))
	buf = append(buf, tmp[:n]...)
	buf = append(buf, b2...)

	return xxh3.Hash(buf)
}

func (idx *TripletIndex[K1, K2, V]) find(k1 K1, k2 K2) (*entry[K1, K2, V], uint64) {
	h := bucketKey(k1, k2)
	for _, e := range idx.buckets[h] {
		if string(e.k1.Bytes()) == string(k1.Bytes()) && string(e.k2.Bytes()) == string(k2.Bytes()) {
			return e, h
		}
	}
	return nil, h
}

// Append pushes v onto the list at (k1, k2), creating the group if absent.
// O(1) amortized.
func (idx *TripletIndex[K1, K2, V]) Append(k1 K1, k2 K2, v V) {
	e, h := idx.find(k1, k2)
	if e == nil {
		e = &entry[K1, K2, V]{k1: k1, k2: k2, seq: idx.nextSeq}
		idx.nextSeq++
		idx.buckets[h] = append(idx.buckets[h], e)
		idx.groups++
	}
	e.values = append(e.values, v)
}

// Values returns the (possibly empty) list of values stored at (k1, k2), in
// insertion order. The returned slice must not be mutated by callers.
func (idx *TripletIndex[K1, K2, V]) Values(k1 K1, k2 K2) []V {
	e, _ := idx.find(k1, k2)
	if e == nil {
		return nil
	}
	return e.values
}

// Pair is one (k2, values) group returned by Get.
type Pair[K2 Keyable, V any] struct {
	K2     K2
	Values []V
}

// Get scans all groups sharing k1, returning each paired k2 with its value
// list in the order their (k1, k2) group was first created — the engine
// relies on this being stable across calls so that query results don't
// jitter from run to run of the same insert sequence.
func (idx *TripletIndex[K1, K2, V]) Get(k1 K1) []Pair[K2, V] {
	var matches []*entry[K1, K2, V]
	k1Bytes := string(k1.Bytes())
	for _, bucket := range idx.buckets {
		for _, e := range bucket {
			if string(e.k1.Bytes()) == k1Bytes {
				matches = append(matches, e)
			}
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].seq < matches[j].seq })

	out := make([]Pair[K2, V], len(matches))
	for i, e := range matches {
		out[i] = Pair[K2, V]{K2: e.k2, Values: e.values}
	}
	return out
}

// Group is one full (k1, k2, values) triple returned by Scan.
type Group[K1, K2 Keyable, V any] struct {
	K1     K1
	K2     K2
	Values []V
}

// Scan enumerates every (k1, k2, values) group in the index, ordered by
// group creation — the same stability guarantee as Get.
func (idx *TripletIndex[K1, K2, V]) Scan() []Group[K1, K2, V] {
	all := make([]*entry[K1, K2, V], 0, idx.groups)
	for _, bucket := range idx.buckets {
		all = append(all, bucket...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seq < all[j].seq })

	out := make([]Group[K1, K2, V], len(all))
	for i, e := range all {
		out[i] = Group[K1, K2, V]{K1: e.k1, K2: e.k2, Values: e.values}
	}
	return out
}

// Clear removes every entry from the index.
func (idx *TripletIndex[K1, K2, V]) Clear() {
	idx.buckets = make(map[uint64][]*entry[K1, K2, V])
	idx.groups = 0
	idx.nextSeq = 0
}

// Len returns the number of distinct (k1, k2) groups.
func (idx *TripletIndex[K1, K2, V]) Len() int {
	return idx.groups
}
