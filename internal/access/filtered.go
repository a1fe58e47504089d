package access

import (
	"fmt"
	"strings"

	"github.com/roach88/ecsaccess/internal/indexset"
)

// FilteredAccess is an Access narrowed by a row filter in disjunctive
// normal form.
//
// A row is visited when it satisfies any clause in filterSets. Reading or
// writing a component through AddComponentRead or AddComponentWrite also
// requires that component, both in required and in every clause.
type FilteredAccess struct {
	access     Access
	required   indexset.Set
	filterSets []*RowFilter
}

// MatchesEverything returns a FilteredAccess with no access and a single
// unconstrained clause. It is the identity for Extend.
func MatchesEverything() *FilteredAccess {
	return &FilteredAccess{filterSets: []*RowFilter{{}}}
}

// MatchesNothing returns a FilteredAccess with no access and no clauses. It
// is the identity for AppendOr.
func MatchesNothing() *FilteredAccess {
	return &FilteredAccess{}
}

// FromAccess wraps an existing Access with an unconstrained filter.
func FromAccess(a *Access) *FilteredAccess {
	f := MatchesEverything()
	f.access.CloneFrom(a)
	return f
}

// Access returns the unfiltered access. The result must not be modified.
func (f *FilteredAccess) Access() *Access {
	return &f.access
}

// AccessMut returns the unfiltered access for in-place changes that must
// not touch the filter.
func (f *FilteredAccess) AccessMut() *Access {
	return &f.access
}

// Required returns the indices every visited row must have.
func (f *FilteredAccess) Required() []int {
	idx, _ := f.required.Indices()
	return idx
}

// FilterSets returns the disjunction of clauses. The result must not be
// modified.
func (f *FilteredAccess) FilterSets() []*RowFilter {
	return f.filterSets
}

// AddComponentRead reads a component and requires its presence.
func (f *FilteredAccess) AddComponentRead(index int) {
	f.access.AddComponentRead(index)
	f.AddRequired(index)
	f.AndWith(index)
}

// AddComponentWrite writes a component and requires its presence.
func (f *FilteredAccess) AddComponentWrite(index int) {
	f.access.AddComponentWrite(index)
	f.AddRequired(index)
	f.AndWith(index)
}

// AddResourceRead reads a resource. Resources are not row data, so the
// filter is unchanged.
func (f *FilteredAccess) AddResourceRead(index int) {
	f.access.AddResourceRead(index)
}

// AddResourceWrite writes a resource. The filter is unchanged.
func (f *FilteredAccess) AddResourceWrite(index int) {
	f.access.AddResourceWrite(index)
}

// AddRequired marks index as present on every visited row.
func (f *FilteredAccess) AddRequired(index int) {
	f.required.Insert(index)
}

// AndWith requires index in every clause.
func (f *FilteredAccess) AndWith(index int) {
	for _, fs := range f.filterSets {
		fs.With.Insert(index)
	}
}

// AndWithout excludes index in every clause.
func (f *FilteredAccess) AndWithout(index int) {
	for _, fs := range f.filterSets {
		fs.Without.Insert(index)
	}
}

// AppendOr adds other's clauses as further alternatives.
func (f *FilteredAccess) AppendOr(other *FilteredAccess) {
	for _, fs := range other.filterSets {
		f.filterSets = append(f.filterSets, fs.Clone())
	}
}

// ExtendAccess adds other's access without touching the filter.
func (f *FilteredAccess) ExtendAccess(other *FilteredAccess) {
	f.access.Extend(&other.access)
}

// Extend ANDs other into f: access and required are unioned and the clauses
// become the pairwise conjunction of both disjunctions.
func (f *FilteredAccess) Extend(other *FilteredAccess) {
	f.access.Extend(&other.access)
	f.required.UnionWith(&other.required)

	if len(other.filterSets) == 1 {
		only := other.filterSets[0]
		for _, fs := range f.filterSets {
			fs.merge(only)
		}
		return
	}

	product := make([]*RowFilter, 0, len(f.filterSets)*len(other.filterSets))
	for _, fs := range f.filterSets {
		for _, ofs := range other.filterSets {
			clause := fs.Clone()
			clause.merge(ofs)
			product = append(product, clause)
		}
	}
	f.filterSets = product
}

// ReadAll reads every component and resource.
func (f *FilteredAccess) ReadAll() {
	f.access.ReadAll()
}

// WriteAll writes every component and resource.
func (f *FilteredAccess) WriteAll() {
	f.access.WriteAll()
}

// ReadAllComponents reads every component.
func (f *FilteredAccess) ReadAllComponents() {
	f.access.ReadAllComponents()
}

// WriteAllComponents writes every component.
func (f *FilteredAccess) WriteAllComponents() {
	f.access.WriteAllComponents()
}

// IsCompatible reports whether f and other can be active at the same time.
//
// Conflicting raw access is still compatible when every clause of f is
// ruled out by every clause of other, since then no row is visited by both.
func (f *FilteredAccess) IsCompatible(other *FilteredAccess) bool {
	if f.access.IsCompatible(&other.access) {
		return true
	}
	return f.rowsDisjoint(other)
}

func (f *FilteredAccess) rowsDisjoint(other *FilteredAccess) bool {
	for _, fs := range f.filterSets {
		for _, ofs := range other.filterSets {
			if !fs.IsRuledOutBy(ofs) {
				return false
			}
		}
	}
	return true
}

// GetConflicts returns the indices f and other cannot access at the same
// time, or NoConflicts when they are compatible.
func (f *FilteredAccess) GetConflicts(other *FilteredAccess) Conflicts {
	return f.DomainConflicts(other).Merged()
}

// DomainConflicts is GetConflicts with component and resource indices kept
// apart.
func (f *FilteredAccess) DomainConflicts(other *FilteredAccess) DomainConflicts {
	if f.IsCompatible(other) {
		return DomainConflicts{}
	}
	return f.access.DomainConflicts(&other.access)
}

// IsSubset reports whether other requires and accesses at least everything
// f does.
func (f *FilteredAccess) IsSubset(other *FilteredAccess) bool {
	return f.required.IsSubset(&other.required) && f.access.IsSubset(&other.access)
}

// WithFilters returns, per clause, the indices that clause requires.
func (f *FilteredAccess) WithFilters() [][]int {
	out := make([][]int, len(f.filterSets))
	for i, fs := range f.filterSets {
		out[i], _ = fs.With.Indices()
	}
	return out
}

// WithoutFilters returns, per clause, the indices that clause excludes.
func (f *FilteredAccess) WithoutFilters() [][]int {
	out := make([][]int, len(f.filterSets))
	for i, fs := range f.filterSets {
		out[i], _ = fs.Without.Indices()
	}
	return out
}

// Clone returns a deep copy.
func (f *FilteredAccess) Clone() *FilteredAccess {
	out := &FilteredAccess{filterSets: make([]*RowFilter, len(f.filterSets))}
	out.access.CloneFrom(&f.access)
	out.required.CloneFrom(&f.required)
	for i, fs := range f.filterSets {
		out.filterSets[i] = fs.Clone()
	}
	return out
}

// Equal reports whether both values have the same access, required set and
// clauses in the same order.
func (f *FilteredAccess) Equal(other *FilteredAccess) bool {
	if !f.access.Equal(&other.access) || !f.required.Equal(&other.required) {
		return false
	}
	if len(f.filterSets) != len(other.filterSets) {
		return false
	}
	for i := range f.filterSets {
		if !f.filterSets[i].Equal(other.filterSets[i]) {
			return false
		}
	}
	return true
}

// String renders the value for diagnostics.
func (f *FilteredAccess) String() string {
	clauses := make([]string, len(f.filterSets))
	for i, fs := range f.filterSets {
		clauses[i] = fs.String()
	}
	return fmt.Sprintf("{access: %s, required: %s, filters: [%s]}",
		&f.access, &f.required, strings.Join(clauses, " | "))
}
