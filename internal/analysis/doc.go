// Package analysis lowers declared system parameters into access records.
//
// # Lowering
//
// Each parameter becomes one access.FilteredAccess:
//
//	query     data terms, then the filter, combined with Extend
//	res       resource read
//	res_mut   resource write
//	world     read of every component and resource
//	world_mut write of every component and resource
//
// Query data terms follow ECS fetch semantics. A read or write also
// requires the component on every visited row; optional terms touch the
// access only; has records archetypal access, which never conflicts.
//
// The filter is lowered into its own FilteredAccess before being ANDed
// into the query, so Changed(T) next to a write of T is legal. An Any
// filter becomes the union of its branches' clauses while keeping every
// branch's access.
//
// # Parameter Conflicts
//
// A query that both reads and writes one component (B0001), and a system
// whose parameters conflict with each other (B0002), are rejected with a
// ParamConflictError. Conflicts between different systems are the concern
// of package conflict.
package analysis
