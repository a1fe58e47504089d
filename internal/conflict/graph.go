// Package conflict compares the access of every pair of systems in a
// schedule.
//
// It reports which pairs cannot run at the same time, over which names,
// and whether an explicit before/after chain already keeps them apart. It
// never decides an order itself.
package conflict

import (
	"fmt"
	"slices"

	"github.com/roach88/ecsaccess/internal/access"
	"github.com/roach88/ecsaccess/internal/analysis"
	"github.com/roach88/ecsaccess/internal/compiler"
	"github.com/roach88/ecsaccess/internal/indexset"
	"github.com/roach88/ecsaccess/internal/ir"
	"github.com/roach88/ecsaccess/internal/registry"
)

// Edge is a conflicting pair of systems. A precedes B in declaration order.
type Edge struct {
	A, B       string
	Components ir.NameSet
	Resources  ir.NameSet
	Ordered    bool
}

// Graph holds the pairwise conflicts of one schedule.
type Graph struct {
	schedule *ir.Schedule
	systems  []analysis.SystemAccess
	byName   map[string]int
	registry *registry.Registry
	ordering *compiler.OrderingGraph
	edges    []Edge
}

// Build compares every pair of systems. systems must be in the schedule's
// declaration order, as returned by Analyzer.AnalyzeSchedule.
func Build(s *ir.Schedule, systems []analysis.SystemAccess, reg *registry.Registry) *Graph {
	g := &Graph{
		schedule: s,
		systems:  systems,
		byName:   make(map[string]int, len(systems)),
		registry: reg,
		ordering: compiler.BuildOrderingGraph(s),
	}
	for i, sa := range systems {
		g.byName[sa.Name] = i
	}

	for i := range systems {
		for j := i + 1; j < len(systems); j++ {
			a, b := &systems[i], &systems[j]
			conflicts := a.Set.DomainConflicts(b.Set)
			if conflicts.IsEmpty() {
				continue
			}
			g.edges = append(g.edges, Edge{
				A:          a.Name,
				B:          b.Name,
				Components: conflictNames(reg.Components, conflicts.Components),
				Resources:  conflictNames(reg.Resources, conflicts.Resources),
				Ordered:    g.ordering.Ordered(a.Name, b.Name),
			})
		}
	}
	return g
}

// Edges returns every conflicting pair.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Ambiguities returns the conflicting pairs with no fixed relative order.
func (g *Graph) Ambiguities() []Edge {
	var out []Edge
	for _, e := range g.edges {
		if !e.Ordered {
			out = append(out, e)
		}
	}
	return out
}

// Compatible reports whether systems a and b may run at the same time.
func (g *Graph) Compatible(a, b string) (bool, error) {
	sa, err := g.system(a)
	if err != nil {
		return false, err
	}
	sb, err := g.system(b)
	if err != nil {
		return false, err
	}
	return sa.Set.IsCompatible(sb.Set), nil
}

// Conflict returns the edge between a and b, if they conflict.
func (g *Graph) Conflict(a, b string) (Edge, bool) {
	for _, e := range g.edges {
		if (e.A == a && e.B == b) || (e.A == b && e.B == a) {
			return e, true
		}
	}
	return Edge{}, false
}

// StageAccess returns the combined access of every system in the schedule.
func (g *Graph) StageAccess() *access.Access {
	out := access.New()
	for _, sa := range g.systems {
		out.Extend(sa.Set.CombinedAccess())
	}
	return out
}

// WritersOf returns the systems that may write resource, in declaration
// order. Systems holding a write-all count as writers of every resource.
func (g *Graph) WritersOf(resource string) []string {
	idx, known := g.registry.Resources.Lookup(resource)
	var out []string
	for _, sa := range g.systems {
		combined := sa.Set.CombinedAccess()
		if combined.HasWriteAllResources() || (known && combined.HasResourceWrite(idx)) {
			out = append(out, sa.Name)
		}
	}
	return out
}

func (g *Graph) system(name string) (*analysis.SystemAccess, error) {
	i, ok := g.byName[name]
	if !ok {
		return nil, fmt.Errorf("schedule %q has no system %q", g.schedule.Name, name)
	}
	return &g.systems[i], nil
}

func conflictNames(d *registry.Domain, c access.Conflicts) ir.NameSet {
	idx, ok := c.Indices()
	if !ok {
		return ir.NameSet{All: true, Names: []string{}}
	}
	return ir.NameSet{Names: namesOf(d, idx)}
}

// summarize names the members of s. An Exclusion set becomes All with its
// exceptions listed.
func summarize(d *registry.Domain, s *indexset.Set) ir.NameSet {
	if idx, ok := s.Indices(); ok {
		return ir.NameSet{Names: namesOf(d, idx)}
	}
	return ir.NameSet{All: true, Names: namesOf(d, s.Exceptions())}
}

// namesOf resolves indices to names. Indices past the registry come from
// complemented sets and are skipped.
func namesOf(d *registry.Domain, idx []int) []string {
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		if name, err := d.Name(i); err == nil {
			out = append(out, name)
		}
	}
	return slices.Clip(out)
}
