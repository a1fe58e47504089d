package access

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilteredAccess_Identities(t *testing.T) {
	everything := MatchesEverything()
	require.Len(t, everything.FilterSets(), 1)
	assert.True(t, everything.FilterSets()[0].IsUnconstrained())

	nothing := MatchesNothing()
	assert.Empty(t, nothing.FilterSets())

	// MatchesNothing is absorbing under Extend.
	q := MatchesEverything()
	q.AddComponentRead(1)
	q.Extend(nothing)
	assert.Empty(t, q.FilterSets())
}

func TestFilteredAccess_ReadImpliesWith(t *testing.T) {
	f := MatchesEverything()
	f.AppendOr(MatchesEverything())
	f.AddComponentRead(1)
	f.AddComponentWrite(2)
	f.AddResourceWrite(9)

	assert.Equal(t, []int{1, 2}, f.Required())
	assert.Equal(t, [][]int{{1, 2}, {1, 2}}, f.WithFilters())
	assert.Equal(t, [][]int{{}, {}}, f.WithoutFilters())
	assert.True(t, f.Access().HasResourceWrite(9))
}

func TestFilteredAccess_Extend(t *testing.T) {
	a := MatchesEverything()
	a.AddComponentRead(0)
	a.AddComponentRead(1)
	a.AndWith(2)

	b := MatchesEverything()
	b.AddComponentRead(0)
	b.AddComponentWrite(3)
	b.AndWithout(4)

	a.Extend(b)

	expected := MatchesEverything()
	expected.AddComponentRead(0)
	expected.AddComponentRead(1)
	expected.AndWith(2)
	expected.AddComponentWrite(3)
	expected.AndWithout(4)

	assert.True(t, a.Equal(expected), "got %s want %s", a, expected)
}

func TestFilteredAccess_ExtendOr(t *testing.T) {
	// Exclusive access to two components.
	a := MatchesEverything()
	a.AddComponentWrite(0)
	a.AddComponentWrite(1)

	// With(2)
	b := MatchesEverything()
	b.AndWith(2)

	// (With(3), Without(4))
	c := MatchesEverything()
	c.AndWith(3)
	c.AndWithout(4)

	b.AppendOr(c)
	a.Extend(b)

	require.Len(t, a.FilterSets(), 2)
	assert.Equal(t, [][]int{{0, 1, 2}, {0, 1, 3}}, a.WithFilters())
	assert.Equal(t, [][]int{{}, {4}}, a.WithoutFilters())
	assert.True(t, a.Access().HasComponentWrite(0))
	assert.True(t, a.Access().HasComponentWrite(1))
	assert.Equal(t, []int{0, 1}, a.Required())
}

func TestFilteredAccess_ExtendCrossProduct(t *testing.T) {
	// (With(0) | With(1)) AND (Without(2) | Without(3))
	left := MatchesEverything()
	left.AndWith(0)
	alt := MatchesEverything()
	alt.AndWith(1)
	left.AppendOr(alt)

	right := MatchesEverything()
	right.AndWithout(2)
	alt = MatchesEverything()
	alt.AndWithout(3)
	right.AppendOr(alt)

	left.Extend(right)

	assert.Equal(t, [][]int{{0}, {0}, {1}, {1}}, left.WithFilters())
	assert.Equal(t, [][]int{{2}, {3}, {2}, {3}}, left.WithoutFilters())
}

func TestFilteredAccess_FilterRefinedDisjointness(t *testing.T) {
	a := MatchesEverything()
	a.AddComponentWrite(0)
	a.AndWith(5)

	b := MatchesEverything()
	b.AddComponentWrite(0)
	b.AndWithout(5)

	assert.False(t, a.Access().IsCompatible(b.Access()), "raw access overlaps")
	assert.True(t, a.IsCompatible(b))
	assert.True(t, b.IsCompatible(a))
	assert.True(t, a.GetConflicts(b).IsEmpty())
}

func TestFilteredAccess_OrFilters(t *testing.T) {
	// Or(With(A), Without(B)) is disjoint from (With(B), Without(A)) but
	// Or(Without(A), Without(B)) is not disjoint from Or(With(A), With(B)).
	const comp, compA, compB = 0, 1, 2

	orWithAWithoutB := func() *FilteredAccess {
		f := MatchesEverything()
		f.AddComponentWrite(comp)
		branches := MatchesNothing()
		x := MatchesEverything()
		x.AndWith(compA)
		y := MatchesEverything()
		y.AndWithout(compB)
		branches.AppendOr(x)
		branches.AppendOr(y)
		f.Extend(branches)
		return f
	}
	withBWithoutA := MatchesEverything()
	withBWithoutA.AddComponentWrite(comp)
	withBWithoutA.AndWith(compB)
	withBWithoutA.AndWithout(compA)

	assert.True(t, orWithAWithoutB().IsCompatible(withBWithoutA))

	orWithout := MatchesEverything()
	orWithout.AddComponentWrite(comp)
	branches := MatchesNothing()
	for _, idx := range []int{compA, compB} {
		x := MatchesEverything()
		x.AndWithout(idx)
		branches.AppendOr(x)
	}
	orWithout.Extend(branches)

	orWith := MatchesEverything()
	orWith.AddComponentWrite(comp)
	branches = MatchesNothing()
	for _, idx := range []int{compA, compB} {
		x := MatchesEverything()
		x.AndWith(idx)
		branches.AppendOr(x)
	}
	orWith.Extend(branches)

	assert.False(t, orWithout.IsCompatible(orWith))
	assert.Equal(t, []int{comp}, conflictIndices(t, orWithout.GetConflicts(orWith)))
}

func TestFilteredAccess_ResourceConflictsIgnoreUnfilteredRows(t *testing.T) {
	a := MatchesEverything()
	a.AddResourceWrite(1)
	b := MatchesEverything()
	b.AddResourceRead(1)

	assert.False(t, a.IsCompatible(b))
	d := a.DomainConflicts(b)
	assert.True(t, d.Components.IsEmpty())
	assert.Equal(t, []int{1}, conflictIndices(t, d.Resources))
}

func randomFiltered(r *rand.Rand) *FilteredAccess {
	f := MatchesEverything()
	for n := r.IntN(4); n > 0; n-- {
		switch r.IntN(6) {
		case 0:
			f.AddComponentRead(r.IntN(4))
		case 1:
			f.AddComponentWrite(r.IntN(4))
		case 2:
			f.AndWith(4 + r.IntN(3))
		case 3:
			f.AndWithout(4 + r.IntN(3))
		case 4:
			f.AddResourceWrite(r.IntN(2))
		case 5:
			alt := MatchesEverything()
			alt.AndWith(4 + r.IntN(3))
			other := MatchesEverything()
			other.AndWithout(4 + r.IntN(3))
			branches := MatchesNothing()
			branches.AppendOr(alt)
			branches.AppendOr(other)
			f.Extend(branches)
		}
	}
	return f
}

func TestFilteredAccess_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(8, 13))
	for iter := 0; iter < 1000; iter++ {
		a, b := randomFiltered(r), randomFiltered(r)

		require.Equal(t, a.IsCompatible(b), b.IsCompatible(a), "%s / %s", a, b)
		require.Equal(t, a.IsCompatible(b), a.GetConflicts(b).IsEmpty(), "%s / %s", a, b)
		if a.Access().IsCompatible(b.Access()) {
			require.True(t, a.IsCompatible(b))
		}
	}
}

func TestFilteredAccess_IsSubset(t *testing.T) {
	small := MatchesEverything()
	small.AddComponentRead(1)

	big := MatchesEverything()
	big.AddComponentRead(1)
	big.AddComponentWrite(2)

	assert.True(t, small.IsSubset(big))
	assert.False(t, big.IsSubset(small))

	// Access alone is not enough: the required set must be covered too.
	unfiltered := MatchesEverything()
	unfiltered.AccessMut().AddComponentRead(1)
	assert.False(t, small.IsSubset(unfiltered))
}

func TestFilteredAccess_CloneIsDeep(t *testing.T) {
	original := MatchesEverything()
	original.AddComponentRead(2)
	original.AddComponentWrite(3)
	original.AndWith(4)
	original.AndWithout(5)

	cloned := original.Clone()
	assert.True(t, original.Equal(cloned))

	cloned.AndWith(9)
	assert.False(t, original.Equal(cloned))
	assert.Equal(t, [][]int{{2, 3, 4}}, original.WithFilters())
}

func TestFilteredAccess_FromAccess(t *testing.T) {
	a := New()
	a.AddComponentWrite(1)

	f := FromAccess(a)
	assert.True(t, f.Access().Equal(a))
	assert.Empty(t, f.Required())
	require.Len(t, f.FilterSets(), 1)
	assert.True(t, f.FilterSets()[0].IsUnconstrained())
}
