package access

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilteredAccessSet_CombinedAccess(t *testing.T) {
	s := NewFilteredAccessSet()
	s.AddUnfilteredResourceRead(2)

	f := MatchesEverything()
	f.AddResourceWrite(2)

	assert.Equal(t, []int{2}, conflictIndices(t, s.GetConflictsSingle(f)))
	assert.False(t, s.IsCompatibleSingle(f))
}

func TestFilteredAccessSet_CombinedIsUnionOfMembers(t *testing.T) {
	r := rand.New(rand.NewPCG(21, 34))
	s := NewFilteredAccessSet()
	want := New()

	for n := 0; n < 20; n++ {
		f := randomFiltered(r)
		want.Extend(f.Access())
		s.Add(f)
		require.True(t, s.CombinedAccess().Equal(want))
	}
	s.ReadAll()
	want.ReadAll()
	assert.True(t, s.CombinedAccess().Equal(want))
	assert.Equal(t, 21, s.Len())

	s.Clear()
	assert.Zero(t, s.Len())
	assert.True(t, s.CombinedAccess().Equal(New()))
}

func TestFilteredAccessSet_CoarseCheckSkipsMembers(t *testing.T) {
	a := NewFilteredAccessSet()
	q := MatchesEverything()
	q.AddComponentRead(0)
	a.Add(q)

	b := NewFilteredAccessSet()
	q = MatchesEverything()
	q.AddComponentRead(0)
	q.AddResourceRead(1)
	b.Add(q)

	assert.True(t, a.IsCompatible(b))
	assert.True(t, a.GetConflicts(b).IsEmpty())
}

func TestFilteredAccessSet_FiltersRescueCombinedConflict(t *testing.T) {
	// Two queries writing the same component on disjoint rows: combined
	// access conflicts, pairwise filters prove it safe.
	a := NewFilteredAccessSet()
	q := MatchesEverything()
	q.AddComponentWrite(0)
	q.AndWith(1)
	a.Add(q)

	b := NewFilteredAccessSet()
	q = MatchesEverything()
	q.AddComponentWrite(0)
	q.AndWithout(1)
	b.Add(q)

	assert.False(t, a.CombinedAccess().IsCompatible(b.CombinedAccess()))
	assert.True(t, a.IsCompatible(b))
	assert.True(t, a.GetConflicts(b).IsEmpty())
}

func TestFilteredAccessSet_AllAbsorbs(t *testing.T) {
	a := NewFilteredAccessSet()
	a.WriteAll()

	b := NewFilteredAccessSet()
	q := MatchesEverything()
	q.AddComponentRead(3)
	b.Add(q)
	b.ReadAll()

	c := a.GetConflicts(b)
	assert.True(t, c.IsAll())
	assert.False(t, a.IsCompatible(b))

	d := a.DomainConflicts(b)
	assert.True(t, d.Components.IsAll())
	assert.True(t, d.Resources.IsAll())
}

func TestFilteredAccessSet_Extend(t *testing.T) {
	a := NewFilteredAccessSet()
	a.AddUnfilteredResourceWrite(0)

	b := NewFilteredAccessSet()
	q := MatchesEverything()
	q.AddComponentWrite(4)
	b.Add(q)

	a.Extend(b)
	require.Len(t, a.Members(), 2)
	assert.True(t, a.CombinedAccess().HasResourceWrite(0))
	assert.True(t, a.CombinedAccess().HasComponentWrite(4))

	b.Members()[0].AccessMut().AddComponentWrite(9)
	assert.False(t, a.Members()[1].Access().HasComponentWrite(9), "members are copied")
	assert.False(t, a.CombinedAccess().HasComponentWrite(9))
	assert.True(t, a.Members()[1].Access().HasComponentWrite(4))
}

func TestFilteredAccessSet_WriteAllDominates(t *testing.T) {
	s := NewFilteredAccessSet()
	s.AddUnfilteredResourceRead(0)
	s.WriteAll()

	q := MatchesEverything()
	q.AddComponentRead(4)
	assert.True(t, s.GetConflictsSingle(q).IsAll())
	assert.False(t, s.IsCompatibleSingle(q))
}

func TestFilteredAccessSet_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(55, 89))
	randomSet := func() *FilteredAccessSet {
		s := NewFilteredAccessSet()
		for n := r.IntN(3) + 1; n > 0; n-- {
			s.Add(randomFiltered(r))
		}
		return s
	}

	for iter := 0; iter < 500; iter++ {
		a, b := randomSet(), randomSet()
		require.Equal(t, a.IsCompatible(b), b.IsCompatible(a))
		require.Equal(t, a.IsCompatible(b), a.GetConflicts(b).IsEmpty())

		f := randomFiltered(r)
		require.Equal(t, a.IsCompatibleSingle(f), a.GetConflictsSingle(f).IsEmpty())
	}
}
