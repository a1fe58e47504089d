package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConflicts_Add(t *testing.T) {
	c := NoConflicts()
	assert.True(t, c.IsEmpty())

	c.Add(IndividualConflicts(3))
	c.Add(IndividualConflicts(1, 3))
	assert.Equal(t, "{1, 3}", c.String())

	c.Add(AllConflicts())
	assert.True(t, c.IsAll())
	_, ok := c.Indices()
	assert.False(t, ok)

	c.Add(IndividualConflicts(9))
	assert.True(t, c.IsAll(), "all absorbs later additions")
	assert.Equal(t, "all", c.String())
}

func TestConflicts_AddDoesNotAlias(t *testing.T) {
	base := IndividualConflicts(1)
	copied := base
	copied.Add(IndividualConflicts(2))

	assert.Equal(t, "{1}", base.String())
	assert.Equal(t, "{1, 2}", copied.String())
}

func TestConflicts_Equal(t *testing.T) {
	assert.True(t, IndividualConflicts(1, 2).Equal(IndividualConflicts(2, 1)))
	assert.False(t, IndividualConflicts(1).Equal(AllConflicts()))
	assert.True(t, AllConflicts().Equal(AllConflicts()))
	assert.True(t, NoConflicts().Equal(IndividualConflicts()))
}

func TestDomainConflicts_Merged(t *testing.T) {
	d := DomainConflicts{
		Components: IndividualConflicts(0, 4),
		Resources:  IndividualConflicts(2),
	}
	assert.False(t, d.IsEmpty())
	assert.Equal(t, "{0, 2, 4}", d.Merged().String())
	assert.Equal(t, "{0, 4}", d.Components.String(), "merge leaves the parts alone")

	d.Add(DomainConflicts{Resources: AllConflicts()})
	assert.True(t, d.Merged().IsAll())
	assert.False(t, d.Components.IsAll())
}

func TestRowFilter_IsRuledOutBy(t *testing.T) {
	tests := []struct {
		name  string
		a, b  *RowFilter
		ruled bool
	}{
		{"with vs without", NewRowFilter([]int{1}, nil), NewRowFilter(nil, []int{1}), true},
		{"without vs with", NewRowFilter(nil, []int{2}), NewRowFilter([]int{2}, nil), true},
		{"both with", NewRowFilter([]int{1}, nil), NewRowFilter([]int{1}, nil), false},
		{"unrelated", NewRowFilter([]int{1}, []int{2}), NewRowFilter([]int{3}, []int{4}), false},
		{"unconstrained", &RowFilter{}, &RowFilter{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ruled, tt.a.IsRuledOutBy(tt.b))
			assert.Equal(t, tt.ruled, tt.b.IsRuledOutBy(tt.a))
		})
	}
}

func TestRowFilter_Contradictory(t *testing.T) {
	f := NewRowFilter([]int{1, 2}, []int{2})
	assert.True(t, f.IsContradictory())
	assert.False(t, f.IsUnconstrained())
	assert.Equal(t, "{with: {1, 2}, without: {2}}", f.String())

	g := f.Clone()
	g.With.Insert(7)
	assert.False(t, f.Equal(g))
	assert.False(t, f.With.Contains(7))
}
