package conflict

import (
	"github.com/roach88/ecsaccess/internal/ir"
)

// Report renders the graph as an ir.Report. scheduleHash is the content
// hash of the analysed schedule; warnings are carried through unchanged.
func (g *Graph) Report(scheduleHash string) ir.Report {
	r := ir.Report{
		Schedule:     g.schedule.Name,
		ScheduleHash: scheduleHash,
		Systems:      make([]ir.SystemReport, 0, len(g.systems)),
		Conflicts:    make([]ir.ConflictEntry, 0, len(g.edges)),
	}

	for _, sa := range g.systems {
		combined := sa.Set.CombinedAccess()
		r.Systems = append(r.Systems, ir.SystemReport{
			Name: sa.Name,
			Components: ir.AccessSummary{
				Reads:  summarize(g.registry.Components, combined.Components().Reads()),
				Writes: summarize(g.registry.Components, combined.Components().Writes()),
			},
			Resources: ir.AccessSummary{
				Reads:  summarize(g.registry.Resources, combined.Resources().Reads()),
				Writes: summarize(g.registry.Resources, combined.Resources().Writes()),
			},
		})
		r.Warnings = append(r.Warnings, sa.Warnings...)
	}

	for _, e := range g.edges {
		r.Conflicts = append(r.Conflicts, ir.ConflictEntry{
			A:          e.A,
			B:          e.B,
			Components: e.Components,
			Resources:  e.Resources,
			Ordered:    e.Ordered,
		})
	}

	return r
}
