package access

import "github.com/roach88/ecsaccess/internal/indexset"

// Conflicts records how two accesses conflict.
//
// It is either All, meaning every index must be assumed to conflict and the
// set must never be enumerated, or a finite set of individual indices. The
// zero value is the empty (conflict-free) result.
type Conflicts struct {
	all     bool
	indices indexset.Set
}

// NoConflicts returns the conflict-free result.
func NoConflicts() Conflicts {
	return Conflicts{}
}

// AllConflicts returns the result that conflicts on every index.
func AllConflicts() Conflicts {
	return Conflicts{all: true}
}

// IndividualConflicts returns a result conflicting on exactly indices.
func IndividualConflicts(indices ...int) Conflicts {
	return Conflicts{indices: *indexset.New(indices...)}
}

// IsAll reports whether every index conflicts.
func (c Conflicts) IsAll() bool {
	return c.all
}

// IsEmpty reports whether there is no conflict at all.
func (c Conflicts) IsEmpty() bool {
	return !c.all && c.indices.IsEmpty()
}

// Indices returns the conflicting indices in ascending order. The second
// result is false for All.
func (c Conflicts) Indices() ([]int, bool) {
	if c.all {
		return nil, false
	}
	return c.indices.Indices()
}

// Add merges other into c. All absorbs everything; otherwise the index sets
// are unioned.
func (c *Conflicts) Add(other Conflicts) {
	switch {
	case c.all:
	case other.all:
		c.all = true
		c.indices = indexset.Set{}
	default:
		c.indices.UnionWith(&other.indices)
	}
}

// Clone returns a deep copy.
func (c Conflicts) Clone() Conflicts {
	out := Conflicts{all: c.all}
	out.indices.CloneFrom(&c.indices)
	return out
}

// Equal reports whether both results are identical.
func (c Conflicts) Equal(other Conflicts) bool {
	if c.all || other.all {
		return c.all == other.all
	}
	return c.indices.Equal(&other.indices)
}

// String renders "all" or the index list.
func (c Conflicts) String() string {
	if c.all {
		return "all"
	}
	return c.indices.String()
}

// DomainConflicts keeps component and resource conflicts apart, since the
// two domains use independent index spaces.
type DomainConflicts struct {
	Components Conflicts
	Resources  Conflicts
}

// IsEmpty reports whether neither domain conflicts.
func (d DomainConflicts) IsEmpty() bool {
	return d.Components.IsEmpty() && d.Resources.IsEmpty()
}

// Add merges other into d domain by domain.
func (d *DomainConflicts) Add(other DomainConflicts) {
	d.Components.Add(other.Components)
	d.Resources.Add(other.Resources)
}

// Merged folds both domains into one result.
func (d DomainConflicts) Merged() Conflicts {
	out := d.Components.Clone()
	out.Add(d.Resources)
	return out
}
