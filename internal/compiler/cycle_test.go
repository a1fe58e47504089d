package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ecsaccess/internal/ir"
)

func orderedSchedule(systems ...ir.SystemSpec) *ir.Schedule {
	for i := range systems {
		systems[i].Params = []ir.Param{{Kind: ir.ParamWorld}}
	}
	return &ir.Schedule{Name: "S", Systems: systems}
}

func TestAnalyzeOrdering_Empty(t *testing.T) {
	assert.Empty(t, AnalyzeOrdering(&ir.Schedule{}))
}

func TestAnalyzeOrdering_DAG(t *testing.T) {
	s := orderedSchedule(
		ir.SystemSpec{Name: "input", Before: []string{"physics"}},
		ir.SystemSpec{Name: "physics"},
		ir.SystemSpec{Name: "render", After: []string{"physics", "input"}},
	)
	assert.Empty(t, AnalyzeOrdering(s))
}

func TestAnalyzeOrdering_SelfLoop(t *testing.T) {
	s := orderedSchedule(ir.SystemSpec{Name: "a", After: []string{"a"}})

	cycles := AnalyzeOrdering(s)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"a", "a"}, cycles[0].Path)
	assert.Contains(t, cycles[0].Message, "before itself")
}

func TestAnalyzeOrdering_ThreeCycle(t *testing.T) {
	s := orderedSchedule(
		ir.SystemSpec{Name: "a", Before: []string{"b"}},
		ir.SystemSpec{Name: "b", Before: []string{"c"}},
		ir.SystemSpec{Name: "c", Before: []string{"a"}},
		ir.SystemSpec{Name: "d", After: []string{"c"}},
	)

	cycles := AnalyzeOrdering(s)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"a", "b", "c", "a"}, cycles[0].Path)
	assert.Equal(t, "ordering cycle: a → b → c → a", cycles[0].Message)
}

func TestAnalyzeOrdering_AfterEdgesCount(t *testing.T) {
	s := orderedSchedule(
		ir.SystemSpec{Name: "a", Before: []string{"b"}},
		ir.SystemSpec{Name: "b"},
		ir.SystemSpec{Name: "c", After: []string{"b"}, Before: []string{"a"}},
	)

	cycles := AnalyzeOrdering(s)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"a", "b", "c", "a"}, cycles[0].Path)
}

func TestAnalyzeOrdering_Deterministic(t *testing.T) {
	s := orderedSchedule(
		ir.SystemSpec{Name: "x", Before: []string{"y"}},
		ir.SystemSpec{Name: "y", Before: []string{"x"}},
		ir.SystemSpec{Name: "p", Before: []string{"q"}},
		ir.SystemSpec{Name: "q", Before: []string{"p"}},
	)

	first := AnalyzeOrdering(s)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, AnalyzeOrdering(s))
	}
	require.Len(t, first, 2)
}

func TestOrderingGraph_Reaches(t *testing.T) {
	s := orderedSchedule(
		ir.SystemSpec{Name: "a", Before: []string{"b"}},
		ir.SystemSpec{Name: "b"},
		ir.SystemSpec{Name: "c", After: []string{"b"}},
		ir.SystemSpec{Name: "d", Before: []string{"ghost"}},
	)
	g := BuildOrderingGraph(s)

	assert.True(t, g.Reaches("a", "c"), "transitive through b")
	assert.False(t, g.Reaches("c", "a"))
	assert.True(t, g.Ordered("c", "a"))
	assert.False(t, g.Ordered("a", "d"))
	assert.Empty(t, g.Successors("d"), "unknown targets are dropped")
	assert.Equal(t, []string{"b"}, g.Successors("a"))
}
