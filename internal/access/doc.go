// Package access decides whether two work units may run at the same time
// from the access they declare up front.
//
// A work unit (a "system") declares which components and resources it reads
// or writes. The scheduler asks this package two questions about a pair of
// declarations: are they compatible, and if not, which indices conflict.
// Nothing here executes work, orders it, or takes locks.
//
// # Types
//
//	Record            reads-and-writes + writes for one index domain
//	Access            component Record + resource Record + archetypal set
//	RowFilter         one conjunction of "has" / "lacks" clauses
//	FilteredAccess    Access + required set + disjunction of RowFilters
//	FilteredAccessSet many FilteredAccess values + their combined Access
//	Conflicts         All, or a finite set of conflicting indices
//
// # Compatibility
//
// Two Records conflict when one side's writes meet the other side's reads or
// writes. Both sets may be complemented ("everything except ..."), which is
// how whole-world access is expressed without naming every index.
//
// Two FilteredAccess values whose raw access conflicts are still compatible
// when no single row can satisfy both filters: every clause of one must be
// ruled out by every clause of the other, meaning one requires an index the
// other excludes.
//
// A FilteredAccessSet first compares combined access. Combined access is a
// superset of every member, so a compatible combined pair proves every
// member pair compatible and the pairwise check is skipped.
//
// # Lifecycle
//
// Values are built by one analysis pass and then treated as read-only
// snapshots. There is no internal locking; callers must not mutate a value
// another goroutine is reading.
package access
