// Package queryir provides the typed row-filter tree that sits between
// declared query filters and the access analysis.
//
// ARCHITECTURE:
//
//	[ir.FilterNode] → Lower → [queryir.Filter] → analysis (FilteredAccess)
//	                                           → Clauses (DNF, for lint)
//
// Declarations arrive as loosely typed ir.FilterNode values. Lower checks
// their shape once and produces a sealed tree that later stages can switch
// over exhaustively.
//
// FILTER TERMS:
//
//	With(C)     row has component C
//	Without(C)  row lacks component C
//	Changed(C)  row has C and C changed since the system last ran
//	Added(C)    row has C and C was added since the system last ran
//	All(...)    every child holds (conjunction; empty = always true)
//	Any(...)    some child holds (disjunction; empty = never true)
//
// Changed and Added read the component's change ticks, so for access
// purposes they behave like With plus a component read.
//
// SEALED INTERFACE:
//
// Filter is sealed with a marker method. Only types in this package
// implement it, so a type switch over With, Without, Changed, Added, All
// and Any is exhaustive.
//
// DISJUNCTIVE NORMAL FORM:
//
// Clauses expands a filter into a list of conjunctions. The expansion is the
// same distribution of AND over OR that FilteredAccess.Extend performs on
// index sets, which lets Validate lint a filter by name before any index is
// assigned. Contradictory clauses (a component both required and excluded)
// are reported as warnings and never rejected: they match no row, which is
// occasionally what the author wants.
package queryir
