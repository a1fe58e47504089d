package indexset

import "github.com/bits-and-blooms/bitset"

// combineRule computes the mode and bits of "a OP b" from the stored bits of
// both operands. Rules never mutate their inputs.
type combineRule func(a, b *bitset.BitSet) (Mode, *bitset.BitSet)

// testRule answers a relation between two sets from their stored bits.
type testRule func(a, b *bitset.BitSet) bool

// Tables are indexed [mode of a][mode of b]. In the comments I(x) is the
// Inclusion set with bits x and E(x) the Exclusion set with bits x.

var unionRules = [2][2]combineRule{
	Inclusion: {
		// I(A) ∪ I(B) = I(A ∪ B)
		Inclusion: func(a, b *bitset.BitSet) (Mode, *bitset.BitSet) { return Inclusion, a.Union(b) },
		// I(A) ∪ E(B) = E(B \ A)
		Exclusion: func(a, b *bitset.BitSet) (Mode, *bitset.BitSet) { return Exclusion, b.Difference(a) },
	},
	Exclusion: {
		// E(A) ∪ I(B) = E(A \ B)
		Inclusion: func(a, b *bitset.BitSet) (Mode, *bitset.BitSet) { return Exclusion, a.Difference(b) },
		// E(A) ∪ E(B) = E(A ∩ B)
		Exclusion: func(a, b *bitset.BitSet) (Mode, *bitset.BitSet) { return Exclusion, a.Intersection(b) },
	},
}

var intersectRules = [2][2]combineRule{
	Inclusion: {
		// I(A) ∩ I(B) = I(A ∩ B)
		Inclusion: func(a, b *bitset.BitSet) (Mode, *bitset.BitSet) { return Inclusion, a.Intersection(b) },
		// I(A) ∩ E(B) = I(A \ B)
		Exclusion: func(a, b *bitset.BitSet) (Mode, *bitset.BitSet) { return Inclusion, a.Difference(b) },
	},
	Exclusion: {
		// E(A) ∩ I(B) = I(B \ A)
		Inclusion: func(a, b *bitset.BitSet) (Mode, *bitset.BitSet) { return Inclusion, b.Difference(a) },
		// E(A) ∩ E(B) = E(A ∪ B)
		Exclusion: func(a, b *bitset.BitSet) (Mode, *bitset.BitSet) { return Exclusion, a.Union(b) },
	},
}

var differenceRules = [2][2]combineRule{
	Inclusion: {
		// I(A) \ I(B) = I(A \ B)
		Inclusion: func(a, b *bitset.BitSet) (Mode, *bitset.BitSet) { return Inclusion, a.Difference(b) },
		// I(A) \ E(B) = I(A ∩ B)
		Exclusion: func(a, b *bitset.BitSet) (Mode, *bitset.BitSet) { return Inclusion, a.Intersection(b) },
	},
	Exclusion: {
		// E(A) \ I(B) = E(A ∪ B)
		Inclusion: func(a, b *bitset.BitSet) (Mode, *bitset.BitSet) { return Exclusion, a.Union(b) },
		// E(A) \ E(B) = I(B \ A)
		Exclusion: func(a, b *bitset.BitSet) (Mode, *bitset.BitSet) { return Inclusion, b.Difference(a) },
	},
}

var subsetRules = [2][2]testRule{
	Inclusion: {
		// I(A) ⊆ I(B) iff A ⊆ B
		Inclusion: func(a, b *bitset.BitSet) bool { return b.IsSuperSet(a) },
		// I(A) ⊆ E(B) iff A ∩ B = ∅
		Exclusion: disjointBits,
	},
	Exclusion: {
		// An unbounded set is never inside a finite one.
		Inclusion: func(a, b *bitset.BitSet) bool { return false },
		// E(A) ⊆ E(B) iff B ⊆ A
		Exclusion: func(a, b *bitset.BitSet) bool { return a.IsSuperSet(b) },
	},
}

var disjointRules = [2][2]testRule{
	Inclusion: {
		// I(A) ∩ I(B) = ∅ iff A ∩ B = ∅
		Inclusion: disjointBits,
		// I(A) ∩ E(B) = ∅ iff A ⊆ B
		Exclusion: func(a, b *bitset.BitSet) bool { return b.IsSuperSet(a) },
	},
	Exclusion: {
		// E(A) ∩ I(B) = ∅ iff B ⊆ A
		Inclusion: func(a, b *bitset.BitSet) bool { return a.IsSuperSet(b) },
		// Two unbounded sets always meet.
		Exclusion: func(a, b *bitset.BitSet) bool { return false },
	},
}

func disjointBits(a, b *bitset.BitSet) bool {
	return a.IntersectionCardinality(b) == 0
}

func (s *Set) apply(rules *[2][2]combineRule, other *Set) {
	mode, bits := rules[s.mode][other.mode](s.view(), other.view())
	s.mode = mode
	s.bits = bits
}

// UnionWith sets s = s ∪ other.
func (s *Set) UnionWith(other *Set) {
	s.apply(&unionRules, other)
}

// IntersectWith sets s = s ∩ other.
func (s *Set) IntersectWith(other *Set) {
	s.apply(&intersectRules, other)
}

// DifferenceWith sets s = s \ other.
func (s *Set) DifferenceWith(other *Set) {
	s.apply(&differenceRules, other)
}

// Union returns s ∪ other without modifying either operand.
func (s *Set) Union(other *Set) *Set {
	out := s.Clone()
	out.UnionWith(other)
	return out
}

// Intersection returns s ∩ other without modifying either operand.
func (s *Set) Intersection(other *Set) *Set {
	out := s.Clone()
	out.IntersectWith(other)
	return out
}

// Difference returns s \ other without modifying either operand.
func (s *Set) Difference(other *Set) *Set {
	out := s.Clone()
	out.DifferenceWith(other)
	return out
}

// IsSubset reports whether every member of s is a member of other.
func (s *Set) IsSubset(other *Set) bool {
	return subsetRules[s.mode][other.mode](s.view(), other.view())
}

// IsSuperset reports whether every member of other is a member of s.
func (s *Set) IsSuperset(other *Set) bool {
	return other.IsSubset(s)
}

// IsDisjoint reports whether s and other share no member.
func (s *Set) IsDisjoint(other *Set) bool {
	return disjointRules[s.mode][other.mode](s.view(), other.view())
}
