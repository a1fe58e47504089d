package access

import (
	"fmt"

	"github.com/roach88/ecsaccess/internal/indexset"
)

// Record tracks read and write access to one index domain.
//
// Every written index is also read: AddWrite calls AddRead first and
// WriteAll calls ReadAll first. Nothing ever repairs the invariant after
// the fact.
type Record struct {
	readsAndWrites indexset.Set
	writes         indexset.Set
}

// NewRecord returns a Record with no access.
func NewRecord() *Record {
	return &Record{}
}

// AddRead grants read access to index.
func (r *Record) AddRead(index int) {
	r.readsAndWrites.Insert(index)
}

// AddWrite grants write access to index. Write implies read.
func (r *Record) AddWrite(index int) {
	r.AddRead(index)
	r.writes.Insert(index)
}

// HasRead reports whether index may be read.
func (r *Record) HasRead(index int) bool {
	return r.readsAndWrites.Contains(index)
}

// HasWrite reports whether index may be written.
func (r *Record) HasWrite(index int) bool {
	return r.writes.Contains(index)
}

// HasAnyRead reports whether anything may be read.
func (r *Record) HasAnyRead() bool {
	return !r.readsAndWrites.IsEmpty()
}

// HasAnyWrite reports whether anything may be written.
func (r *Record) HasAnyWrite() bool {
	return !r.writes.IsEmpty()
}

// ReadAll grants read access to every index.
func (r *Record) ReadAll() {
	r.readsAndWrites.SetAll()
}

// WriteAll grants write access to every index.
func (r *Record) WriteAll() {
	r.ReadAll()
	r.writes.SetAll()
}

// HasReadAll reports whether every index may be read.
func (r *Record) HasReadAll() bool {
	return r.readsAndWrites.IsAll()
}

// HasWriteAll reports whether every index may be written.
func (r *Record) HasWriteAll() bool {
	return r.writes.IsAll()
}

// ClearWrites drops all write access and keeps reads.
func (r *Record) ClearWrites() {
	r.writes.Clear()
}

// Clear drops all access.
func (r *Record) Clear() {
	r.ClearWrites()
	r.readsAndWrites.Clear()
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	out := &Record{}
	out.CloneFrom(r)
	return out
}

// CloneFrom overwrites r with a deep copy of other.
func (r *Record) CloneFrom(other *Record) {
	r.readsAndWrites.CloneFrom(&other.readsAndWrites)
	r.writes.CloneFrom(&other.writes)
}

// Reads returns a copy of the readable indices, written ones included.
func (r *Record) Reads() *indexset.Set {
	return r.readsAndWrites.Clone()
}

// Writes returns a copy of the writable indices.
func (r *Record) Writes() *indexset.Set {
	return r.writes.Clone()
}

// Equal reports whether both records grant the same access.
func (r *Record) Equal(other *Record) bool {
	return r.readsAndWrites.Equal(&other.readsAndWrites) && r.writes.Equal(&other.writes)
}

// Extend adds all access granted by other.
func (r *Record) Extend(other *Record) {
	r.readsAndWrites.UnionWith(&other.readsAndWrites)
	r.writes.UnionWith(&other.writes)
}

// IsCompatible reports whether r and other can be active at the same time:
// neither side writes an index the other reads or writes.
func (r *Record) IsCompatible(other *Record) bool {
	return r.writesAvoid(other) && other.writesAvoid(r)
}

// writesAvoid is the one-sided test: r's writes miss other's reads and
// writes.
func (r *Record) writesAvoid(other *Record) bool {
	return r.writes.IsDisjoint(&other.readsAndWrites)
}

// IsSubset reports whether other grants at least all access r grants.
func (r *Record) IsSubset(other *Record) bool {
	return r.readsAndWrites.IsSubset(&other.readsAndWrites) && r.writes.IsSubset(&other.writes)
}

// Conflicts returns the indices r and other cannot access at the same time:
// (r writes ∩ other reads-or-writes) ∪ (other writes ∩ r reads-or-writes).
// An unbounded result is reported as All, and so is any conflict with a
// side that writes everything.
func (r *Record) Conflicts(other *Record) Conflicts {
	if (r.HasWriteAll() && other.HasAnyRead()) || (other.HasWriteAll() && r.HasAnyRead()) {
		return AllConflicts()
	}
	mine := r.writes.Intersection(&other.readsAndWrites)
	theirs := other.writes.Intersection(&r.readsAndWrites)
	mine.UnionWith(theirs)
	if mine.Complemented() {
		return AllConflicts()
	}
	return Conflicts{indices: *mine}
}

// String renders the record for diagnostics.
func (r *Record) String() string {
	return fmt.Sprintf("{reads_and_writes: %s, writes: %s}", &r.readsAndWrites, &r.writes)
}
