package queryir

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ecsaccess/internal/ir"
)

func TestLower_Nil(t *testing.T) {
	f, err := Lower(nil)
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestLower_Tree(t *testing.T) {
	n := &ir.FilterNode{Op: ir.FilterAll, Args: []ir.FilterNode{
		{Op: ir.FilterWithout, Component: "Frozen"},
		{Op: ir.FilterAny, Args: []ir.FilterNode{
			{Op: ir.FilterWith, Component: "Player"},
			{Op: ir.FilterChanged, Component: "Health"},
			{Op: ir.FilterAdded, Component: "Spawned"},
		}},
	}}

	f, err := Lower(n)
	require.NoError(t, err)

	want := All{Filters: []Filter{
		Without{Component: "Frozen"},
		Any{Filters: []Filter{
			With{Component: "Player"},
			Changed{Component: "Health"},
			Added{Component: "Spawned"},
		}},
	}}
	assert.Equal(t, want, f)
	assert.Equal(t, "All(Without(Frozen), Any(With(Player), Changed(Health), Added(Spawned)))", f.String())
	assert.Equal(t, []string{"Frozen", "Player", "Health", "Spawned"}, Components(f))
}

func TestLower_Errors(t *testing.T) {
	tests := []struct {
		name string
		node ir.FilterNode
		path string
	}{
		{"leaf without component", ir.FilterNode{Op: ir.FilterWith}, "filter"},
		{"leaf with args", ir.FilterNode{Op: ir.FilterWithout, Component: "A", Args: []ir.FilterNode{{Op: ir.FilterWith, Component: "B"}}}, "filter"},
		{"combinator with component", ir.FilterNode{Op: ir.FilterAny, Component: "A"}, "filter"},
		{"unknown op", ir.FilterNode{Op: "xor", Component: "A"}, "filter"},
		{"nested error", ir.FilterNode{Op: ir.FilterAll, Args: []ir.FilterNode{
			{Op: ir.FilterWith, Component: "A"},
			{Op: ir.FilterWith},
		}}, "filter.all[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lower(&tt.node)
			require.Error(t, err)

			var lowerErr *LowerError
			require.True(t, errors.As(err, &lowerErr))
			assert.Equal(t, tt.path, lowerErr.Path)
		})
	}
}

func TestClauses(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"nil matches everything", nil, []string{"true"}},
		{"empty all", All{}, []string{"true"}},
		{"empty any", Any{}, []string{}},
		{"leaf", Without{Component: "A"}, []string{"Without(A)"}},
		{"changed counts as with", Changed{Component: "A"}, []string{"With(A)"}},
		{
			name: "and over or",
			filter: All{Filters: []Filter{
				With{Component: "A"},
				Any{Filters: []Filter{
					With{Component: "C"},
					All{Filters: []Filter{With{Component: "D"}, Without{Component: "E"}}},
				}},
			}},
			want: []string{"With(A) & With(C)", "With(A) & With(D) & Without(E)"},
		},
		{
			name: "cross product",
			filter: All{Filters: []Filter{
				Any{Filters: []Filter{With{Component: "A"}, With{Component: "B"}}},
				Any{Filters: []Filter{Without{Component: "C"}, Without{Component: "D"}}},
			}},
			want: []string{
				"With(A) & Without(C)",
				"With(A) & Without(D)",
				"With(B) & Without(C)",
				"With(B) & Without(D)",
			},
		},
		{
			name:   "duplicates collapse",
			filter: All{Filters: []Filter{With{Component: "B"}, With{Component: "A"}, Added{Component: "B"}}},
			want:   []string{"With(A) & With(B)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clauses := Clauses(tt.filter)
			got := make([]string, len(clauses))
			for i, c := range clauses {
				got[i] = c.String()
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_Clean(t *testing.T) {
	result := Validate(All{Filters: []Filter{With{Component: "A"}, Without{Component: "B"}}})
	assert.True(t, result.Satisfiable)
	assert.Empty(t, result.Warnings)

	result = Validate(nil)
	assert.True(t, result.Satisfiable)
	assert.Empty(t, result.Warnings)
}

func TestValidate_Contradiction(t *testing.T) {
	result := Validate(All{Filters: []Filter{With{Component: "A"}, Without{Component: "A"}}})

	assert.False(t, result.Satisfiable)
	require.Len(t, result.Warnings, 2)
	assert.Equal(t, "clause With(A) & Without(A) requires and excludes A", result.Warnings[0])
	assert.Contains(t, result.Warnings[1], "matches no row")
}

func TestValidate_PartiallyContradictory(t *testing.T) {
	f := Any{Filters: []Filter{
		All{Filters: []Filter{With{Component: "A"}, Without{Component: "A"}}},
		With{Component: "B"},
	}}
	result := Validate(f)

	assert.True(t, result.Satisfiable, "one live branch keeps the filter satisfiable")
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "requires and excludes A")
}

func TestValidate_EmptyAnyAndDuplicates(t *testing.T) {
	result := Validate(All{Filters: []Filter{
		With{Component: "A"},
		With{Component: "A"},
		Any{},
	}})

	assert.False(t, result.Satisfiable)
	assert.Equal(t, []string{
		"All repeats With(A)",
		"Any() has no branches",
		"filter All(With(A), With(A), Any()) matches no row",
	}, result.Warnings)
}
