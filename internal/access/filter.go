package access

import (
	"fmt"

	"github.com/roach88/ecsaccess/internal/indexset"
)

// RowFilter is one conjunction of presence clauses: a row matches when it
// has every index in With and none in Without.
//
// A RowFilter with both sets empty matches every row. A RowFilter whose With
// and Without overlap matches no row; it is kept as-is rather than rejected.
type RowFilter struct {
	With    indexset.Set
	Without indexset.Set
}

// NewRowFilter returns a filter requiring with and excluding without.
func NewRowFilter(with, without []int) *RowFilter {
	return &RowFilter{
		With:    *indexset.New(with...),
		Without: *indexset.New(without...),
	}
}

// IsRuledOutBy reports whether no row can satisfy both f and other: one side
// requires an index the other side excludes.
func (f *RowFilter) IsRuledOutBy(other *RowFilter) bool {
	return !f.With.IsDisjoint(&other.Without) || !f.Without.IsDisjoint(&other.With)
}

// IsUnconstrained reports whether the filter matches every row.
func (f *RowFilter) IsUnconstrained() bool {
	return f.With.IsEmpty() && f.Without.IsEmpty()
}

// IsContradictory reports whether the filter requires and excludes the same
// index.
func (f *RowFilter) IsContradictory() bool {
	return !f.With.IsDisjoint(&f.Without)
}

// Clone returns a deep copy.
func (f *RowFilter) Clone() *RowFilter {
	out := &RowFilter{}
	out.With.CloneFrom(&f.With)
	out.Without.CloneFrom(&f.Without)
	return out
}

// Equal reports whether both filters have identical clauses.
func (f *RowFilter) Equal(other *RowFilter) bool {
	return f.With.Equal(&other.With) && f.Without.Equal(&other.Without)
}

// merge folds other's clauses into f (logical AND).
func (f *RowFilter) merge(other *RowFilter) {
	f.With.UnionWith(&other.With)
	f.Without.UnionWith(&other.Without)
}

// String renders the filter for diagnostics.
func (f *RowFilter) String() string {
	return fmt.Sprintf("{with: %s, without: %s}", &f.With, &f.Without)
}
