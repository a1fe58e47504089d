package access

// FilteredAccessSet collects the FilteredAccess of many parameters (or many
// systems) plus their combined Access.
//
// combined is always the union of every member's access. It is a superset
// of each member, so a compatible combined pair proves every member pair
// compatible and the pairwise check is skipped.
type FilteredAccessSet struct {
	combined Access
	members  []*FilteredAccess
}

// NewFilteredAccessSet returns an empty set.
func NewFilteredAccessSet() *FilteredAccessSet {
	return &FilteredAccessSet{}
}

// CombinedAccess returns the union of every member's access. The result
// must not be modified.
func (s *FilteredAccessSet) CombinedAccess() *Access {
	return &s.combined
}

// Members returns the member accesses in insertion order. The result must
// not be modified.
func (s *FilteredAccessSet) Members() []*FilteredAccess {
	return s.members
}

// Len returns the number of members.
func (s *FilteredAccessSet) Len() int {
	return len(s.members)
}

// Add appends fa. The set takes ownership of fa.
func (s *FilteredAccessSet) Add(fa *FilteredAccess) {
	s.combined.Extend(&fa.access)
	s.members = append(s.members, fa)
}

// AddUnfilteredResourceRead adds a member that only reads a resource.
func (s *FilteredAccessSet) AddUnfilteredResourceRead(index int) {
	fa := MatchesEverything()
	fa.AddResourceRead(index)
	s.Add(fa)
}

// AddUnfilteredResourceWrite adds a member that only writes a resource.
func (s *FilteredAccessSet) AddUnfilteredResourceWrite(index int) {
	fa := MatchesEverything()
	fa.AddResourceWrite(index)
	s.Add(fa)
}

// ReadAll adds an unfiltered member that reads everything.
func (s *FilteredAccessSet) ReadAll() {
	fa := MatchesEverything()
	fa.ReadAll()
	s.Add(fa)
}

// WriteAll adds an unfiltered member that writes everything.
func (s *FilteredAccessSet) WriteAll() {
	fa := MatchesEverything()
	fa.WriteAll()
	s.Add(fa)
}

// Extend adds a copy of every member of other to s. Later changes to
// either set do not show up in the other.
func (s *FilteredAccessSet) Extend(other *FilteredAccessSet) {
	s.combined.Extend(&other.combined)
	for _, ofa := range other.members {
		s.members = append(s.members, ofa.Clone())
	}
}

// Clear removes every member.
func (s *FilteredAccessSet) Clear() {
	s.combined.Clear()
	s.combined.archetypal.Clear()
	s.members = nil
}

// IsCompatible reports whether every member of s is compatible with every
// member of other.
func (s *FilteredAccessSet) IsCompatible(other *FilteredAccessSet) bool {
	if s.combined.IsCompatible(&other.combined) {
		return true
	}
	for _, fa := range s.members {
		for _, ofa := range other.members {
			if !fa.IsCompatible(ofa) {
				return false
			}
		}
	}
	return true
}

// IsCompatibleSingle reports whether every member of s is compatible with fa.
func (s *FilteredAccessSet) IsCompatibleSingle(fa *FilteredAccess) bool {
	if s.combined.IsCompatible(&fa.access) {
		return true
	}
	for _, m := range s.members {
		if !m.IsCompatible(fa) {
			return false
		}
	}
	return true
}

// GetConflicts returns every index that some member of s and some member of
// other cannot access at the same time.
func (s *FilteredAccessSet) GetConflicts(other *FilteredAccessSet) Conflicts {
	return s.DomainConflicts(other).Merged()
}

// GetConflictsSingle returns every index that some member of s and fa cannot
// access at the same time.
func (s *FilteredAccessSet) GetConflictsSingle(fa *FilteredAccess) Conflicts {
	return s.DomainConflictsSingle(fa).Merged()
}

// DomainConflicts is GetConflicts with component and resource indices kept
// apart.
func (s *FilteredAccessSet) DomainConflicts(other *FilteredAccessSet) DomainConflicts {
	var out DomainConflicts
	if s.combined.IsCompatible(&other.combined) {
		return out
	}
	for _, fa := range s.members {
		for _, ofa := range other.members {
			out.Add(fa.DomainConflicts(ofa))
		}
	}
	return out
}

// DomainConflictsSingle is GetConflictsSingle with component and resource
// indices kept apart.
func (s *FilteredAccessSet) DomainConflictsSingle(fa *FilteredAccess) DomainConflicts {
	var out DomainConflicts
	if s.combined.IsCompatible(&fa.access) {
		return out
	}
	for _, m := range s.members {
		out.Add(m.DomainConflicts(fa))
	}
	return out
}
