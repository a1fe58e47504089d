package compiler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/ecsaccess/internal/ir"
)

// OrderingCycle is a set of systems whose before/after constraints cannot
// all hold.
type OrderingCycle struct {
	Path    []string `json:"path"`    // Cycle path: ["a", "b", "a"]
	Message string   `json:"message"` // Human-readable description
}

// OrderingGraph holds "runs before" edges between systems. An edge a -> b
// comes from a declaring before: [b] or b declaring after: [a]. Edges to
// unknown systems are dropped.
type OrderingGraph struct {
	nodes []string
	edges map[string][]string
}

// BuildOrderingGraph collects the ordering edges of s. Neighbor lists are
// sorted and free of duplicates so traversal order is deterministic.
func BuildOrderingGraph(s *ir.Schedule) *OrderingGraph {
	g := &OrderingGraph{edges: make(map[string][]string)}
	known := make(map[string]bool)
	for _, sys := range s.Systems {
		if !known[sys.Name] {
			known[sys.Name] = true
			g.nodes = append(g.nodes, sys.Name)
			g.edges[sys.Name] = []string{}
		}
	}

	for _, sys := range s.Systems {
		for _, target := range sys.Before {
			if known[target] {
				g.edges[sys.Name] = append(g.edges[sys.Name], target)
			}
		}
		for _, source := range sys.After {
			if known[source] {
				g.edges[source] = append(g.edges[source], sys.Name)
			}
		}
	}

	for node, next := range g.edges {
		slices.Sort(next)
		g.edges[node] = slices.Compact(next)
	}
	return g
}

// Successors returns the systems a must run before, directly.
func (g *OrderingGraph) Successors(a string) []string {
	return g.edges[a]
}

// Reaches reports whether a must run before b, directly or transitively.
func (g *OrderingGraph) Reaches(a, b string) bool {
	visited := map[string]bool{a: true}
	queue := []string{a}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.edges[cur] {
			if next == b {
				return true
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// Ordered reports whether the pair has a fixed relative order.
func (g *OrderingGraph) Ordered(a, b string) bool {
	return g.Reaches(a, b) || g.Reaches(b, a)
}

// AnalyzeOrdering finds before/after constraints that contradict each
// other.
//
// The algorithm:
//  1. Build the "runs before" graph from before/after declarations
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with size > 1 or self-loops as a cycle
//
// An acyclic schedule returns an empty list.
func AnalyzeOrdering(s *ir.Schedule) []OrderingCycle {
	g := BuildOrderingGraph(s)
	cycles := []OrderingCycle{}
	for _, scc := range tarjanSCC(g) {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], g)) {
			cycles = append(cycles, sccToCycle(scc, g))
		}
	}
	return cycles
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node string, g *OrderingGraph) bool {
	return slices.Contains(g.edges[node], node)
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in declaration order; each SCC lists its members in
// declaration order.
func tarjanSCC(g *OrderingGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	position := make(map[string]int, len(g.nodes))
	for i, n := range g.nodes {
		position[n] = i
	}

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.edges[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			slices.SortFunc(scc, func(a, b string) int { return position[a] - position[b] })
			sccs = append(sccs, scc)
		}
	}

	for _, node := range g.nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

func sccToCycle(scc []string, g *OrderingGraph) OrderingCycle {
	if len(scc) == 1 {
		name := scc[0]
		return OrderingCycle{
			Path:    []string{name, name},
			Message: fmt.Sprintf("system ordered before itself: %s → %s", name, name),
		}
	}

	path := reconstructCyclePath(scc, g)
	return OrderingCycle{
		Path:    path,
		Message: fmt.Sprintf("ordering cycle: %s", strings.Join(path, " → ")),
	}
}

// reconstructCyclePath walks from the first SCC member along edges inside
// the SCC until it returns to the start.
func reconstructCyclePath(scc []string, g *OrderingGraph) []string {
	if len(scc) == 0 {
		return []string{}
	}

	inSCC := make(map[string]bool)
	for _, node := range scc {
		inSCC[node] = true
	}

	start := scc[0]
	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range g.edges[current] {
			if inSCC[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}

		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}

	return path
}
