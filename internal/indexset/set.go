// Package indexset provides a growable set of small non-negative integers
// that can also represent "every index except a few".
//
// A Set is a tagged pair (Mode, bits). In Inclusion mode the stored bits are
// the members. In Exclusion mode the stored bits are the indices left out of
// an otherwise universal set, so "everything" is an Exclusion set with no
// bits and costs nothing to store.
//
// # Combine Rules
//
// Binary operators never look at the raw bit layout to decide what to do.
// Each operator owns a 2x2 table of strategies indexed by the modes of its
// operands (see rules.go). Every strategy works on the finite bit vectors
// only, so the size of a result is bounded by the indices actually seen.
//
// # Growth
//
// Inserting an index past the current capacity grows the bit vector. Growth
// only changes which indices are representable; it never changes the answer
// Contains gives for any index.
package indexset

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Mode tags how the stored bits of a Set are interpreted.
type Mode uint8

const (
	// Inclusion means the stored bits are the members of the set.
	Inclusion Mode = iota

	// Exclusion means the stored bits are the only indices NOT in the set.
	Exclusion
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case Inclusion:
		return "inclusion"
	case Exclusion:
		return "exclusion"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// emptyBits is shared by read paths on a zero Set. It is never mutated.
var emptyBits = &bitset.BitSet{}

// Set is a set of non-negative indices with complement support.
//
// The zero value is an empty Inclusion set ready for use. A Set must not be
// copied by value once populated; use Clone.
type Set struct {
	mode Mode
	bits *bitset.BitSet
}

// New returns an Inclusion set holding the given indices.
func New(indices ...int) *Set {
	s := &Set{}
	for _, i := range indices {
		s.Insert(i)
	}
	return s
}

// All returns a set containing every index.
func All() *Set {
	return &Set{mode: Exclusion, bits: &bitset.BitSet{}}
}

// AllExcept returns a set containing every index except the given ones.
func AllExcept(indices ...int) *Set {
	s := All()
	for _, i := range indices {
		s.Remove(i)
	}
	return s
}

// view returns the stored bits for reading.
func (s *Set) view() *bitset.BitSet {
	if s.bits == nil {
		return emptyBits
	}
	return s.bits
}

// mut returns the stored bits for writing, allocating them on first use.
func (s *Set) mut() *bitset.BitSet {
	if s.bits == nil {
		s.bits = &bitset.BitSet{}
	}
	return s.bits
}

func checkIndex(i int) uint {
	if i < 0 {
		panic(fmt.Sprintf("indexset: negative index %d", i))
	}
	return uint(i)
}

// Mode reports how the stored bits are interpreted.
func (s *Set) Mode() Mode {
	return s.mode
}

// Complemented reports whether the set is in Exclusion mode.
func (s *Set) Complemented() bool {
	return s.mode == Exclusion
}

// Insert adds i to the set. In Exclusion mode this drops i from the
// exception list.
func (s *Set) Insert(i int) {
	u := checkIndex(i)
	if s.mode == Exclusion {
		if s.bits != nil {
			s.bits.Clear(u)
		}
		return
	}
	s.mut().Set(u)
}

// Remove deletes i from the set. In Exclusion mode this records i as an
// exception.
func (s *Set) Remove(i int) {
	u := checkIndex(i)
	if s.mode == Exclusion {
		s.mut().Set(u)
		return
	}
	if s.bits != nil {
		s.bits.Clear(u)
	}
}

// Contains reports whether i is a member.
func (s *Set) Contains(i int) bool {
	if i < 0 {
		return false
	}
	return (s.mode == Exclusion) != s.view().Test(uint(i))
}

// IsEmpty reports whether the set has no members. An Exclusion set is never
// empty because its domain is unbounded.
func (s *Set) IsEmpty() bool {
	return s.mode == Inclusion && s.view().None()
}

// IsAll reports whether the set contains every index.
func (s *Set) IsAll() bool {
	return s.mode == Exclusion && s.view().None()
}

// SetAll makes the set contain every index.
func (s *Set) SetAll() {
	s.mode = Exclusion
	if s.bits != nil {
		s.bits.ClearAll()
	}
}

// Clear makes the set empty.
func (s *Set) Clear() {
	s.mode = Inclusion
	if s.bits != nil {
		s.bits.ClearAll()
	}
}

// Clone returns a deep copy.
func (s *Set) Clone() *Set {
	return &Set{mode: s.mode, bits: s.view().Clone()}
}

// CloneFrom overwrites s with a deep copy of other.
func (s *Set) CloneFrom(other *Set) {
	s.mode = other.mode
	s.bits = other.view().Clone()
}

// Equal reports whether both sets have the same members. Capacity is
// ignored.
func (s *Set) Equal(other *Set) bool {
	if s.mode != other.mode {
		return false
	}
	return s.view().SymmetricDifferenceCardinality(other.view()) == 0
}

// Len returns the number of members of an Inclusion set, or the number of
// exceptions of an Exclusion set.
func (s *Set) Len() int {
	return int(s.view().Count())
}

// Indices returns the members in ascending order. The second result is false
// for an Exclusion set, whose members cannot be enumerated.
func (s *Set) Indices() ([]int, bool) {
	if s.mode == Exclusion {
		return nil, false
	}
	return s.ones(), true
}

// Exceptions returns the indices excluded from an Exclusion set, or nil for
// an Inclusion set.
func (s *Set) Exceptions() []int {
	if s.mode == Inclusion {
		return nil
	}
	return s.ones()
}

func (s *Set) ones() []int {
	b := s.view()
	out := make([]int, 0, b.Count())
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}

// ForEach calls fn for every member of an Inclusion set in ascending order,
// stopping early when fn returns false. It panics on an Exclusion set.
func (s *Set) ForEach(fn func(i int) bool) {
	if s.mode == Exclusion {
		panic("indexset: cannot enumerate a complemented set")
	}
	b := s.view()
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		if !fn(int(i)) {
			return
		}
	}
}

// String renders the set as "{1, 3}", "all" or "all except {4}".
func (s *Set) String() string {
	list := formatIndices(s.ones())
	if s.mode == Inclusion {
		return list
	}
	if s.view().None() {
		return "all"
	}
	return "all except " + list
}

func formatIndices(idx []int) string {
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = fmt.Sprint(v)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
