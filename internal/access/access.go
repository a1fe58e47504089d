package access

import (
	"fmt"

	"github.com/roach88/ecsaccess/internal/indexset"
)

// Access tracks read and write access to components and resources.
//
// Components and resources are separate index domains. Archetypal indices
// are components whose presence changes which rows a unit visits but whose
// values are never touched; they never cause conflicts.
//
// The zero value has no access.
type Access struct {
	components Record
	resources  Record
	archetypal indexset.Set
}

// New returns an Access with no access.
func New() *Access {
	return &Access{}
}

// Components returns the component record. The result must not be
// modified.
func (a *Access) Components() *Record {
	return &a.components
}

// Resources returns the resource record. The result must not be modified.
func (a *Access) Resources() *Record {
	return &a.resources
}

// AddComponentRead grants read access to a component.
func (a *Access) AddComponentRead(index int) {
	a.components.AddRead(index)
}

// AddComponentWrite grants write access to a component.
func (a *Access) AddComponentWrite(index int) {
	a.components.AddWrite(index)
}

// AddResourceRead grants read access to a resource.
func (a *Access) AddResourceRead(index int) {
	a.resources.AddRead(index)
}

// AddResourceWrite grants write access to a resource.
func (a *Access) AddResourceWrite(index int) {
	a.resources.AddWrite(index)
}

// AddArchetypal records a presence-only dependency on a component.
func (a *Access) AddArchetypal(index int) {
	a.archetypal.Insert(index)
}

// HasComponentRead reports whether a component may be read.
func (a *Access) HasComponentRead(index int) bool {
	return a.components.HasRead(index)
}

// HasAnyComponentRead reports whether any component may be read.
func (a *Access) HasAnyComponentRead() bool {
	return a.components.HasAnyRead()
}

// HasComponentWrite reports whether a component may be written.
func (a *Access) HasComponentWrite(index int) bool {
	return a.components.HasWrite(index)
}

// HasAnyComponentWrite reports whether any component may be written.
func (a *Access) HasAnyComponentWrite() bool {
	return a.components.HasAnyWrite()
}

// HasResourceRead reports whether a resource may be read.
func (a *Access) HasResourceRead(index int) bool {
	return a.resources.HasRead(index)
}

// HasAnyResourceRead reports whether any resource may be read.
func (a *Access) HasAnyResourceRead() bool {
	return a.resources.HasAnyRead()
}

// HasResourceWrite reports whether a resource may be written.
func (a *Access) HasResourceWrite(index int) bool {
	return a.resources.HasWrite(index)
}

// HasAnyResourceWrite reports whether any resource may be written.
func (a *Access) HasAnyResourceWrite() bool {
	return a.resources.HasAnyWrite()
}

// HasArchetypal reports whether a component is a presence-only dependency.
func (a *Access) HasArchetypal(index int) bool {
	return a.archetypal.Contains(index)
}

// Archetypal returns the presence-only component indices in ascending order.
func (a *Access) Archetypal() []int {
	idx, _ := a.archetypal.Indices()
	return idx
}

// ReadAllComponents grants read access to every component (an entity
// reference).
func (a *Access) ReadAllComponents() {
	a.components.ReadAll()
}

// WriteAllComponents grants write access to every component (a mutable
// entity reference).
func (a *Access) WriteAllComponents() {
	a.components.WriteAll()
}

// ReadAllResources grants read access to every resource.
func (a *Access) ReadAllResources() {
	a.resources.ReadAll()
}

// WriteAllResources grants write access to every resource.
func (a *Access) WriteAllResources() {
	a.resources.WriteAll()
}

// ReadAll grants read access to everything (a shared world borrow).
func (a *Access) ReadAll() {
	a.ReadAllComponents()
	a.ReadAllResources()
}

// WriteAll grants write access to everything (an exclusive world borrow).
func (a *Access) WriteAll() {
	a.WriteAllComponents()
	a.WriteAllResources()
}

// HasReadAllComponents reports whether every component may be read.
func (a *Access) HasReadAllComponents() bool {
	return a.components.HasReadAll()
}

// HasWriteAllComponents reports whether every component may be written.
func (a *Access) HasWriteAllComponents() bool {
	return a.components.HasWriteAll()
}

// HasReadAllResources reports whether every resource may be read.
func (a *Access) HasReadAllResources() bool {
	return a.resources.HasReadAll()
}

// HasWriteAllResources reports whether every resource may be written.
func (a *Access) HasWriteAllResources() bool {
	return a.resources.HasWriteAll()
}

// HasReadAll reports whether everything may be read.
func (a *Access) HasReadAll() bool {
	return a.HasReadAllComponents() && a.HasReadAllResources()
}

// HasWriteAll reports whether everything may be written.
func (a *Access) HasWriteAll() bool {
	return a.HasWriteAllComponents() && a.HasWriteAllResources()
}

// ClearWrites narrows the access to read-only.
func (a *Access) ClearWrites() {
	a.components.ClearWrites()
	a.resources.ClearWrites()
}

// Clear drops all component and resource access.
func (a *Access) Clear() {
	a.components.Clear()
	a.resources.Clear()
}

// Clone returns a deep copy.
func (a *Access) Clone() *Access {
	out := &Access{}
	out.CloneFrom(a)
	return out
}

// CloneFrom overwrites a with a deep copy of other.
func (a *Access) CloneFrom(other *Access) {
	a.components.CloneFrom(&other.components)
	a.resources.CloneFrom(&other.resources)
	a.archetypal.CloneFrom(&other.archetypal)
}

// Equal reports whether both accesses are identical, archetypal set
// included.
func (a *Access) Equal(other *Access) bool {
	return a.components.Equal(&other.components) &&
		a.resources.Equal(&other.resources) &&
		a.archetypal.Equal(&other.archetypal)
}

// Extend adds all access from other.
func (a *Access) Extend(other *Access) {
	a.components.Extend(&other.components)
	a.resources.Extend(&other.resources)
	a.archetypal.UnionWith(&other.archetypal)
}

// IsComponentsCompatible reports whether the component access of a and
// other can be active at the same time.
func (a *Access) IsComponentsCompatible(other *Access) bool {
	return a.components.IsCompatible(&other.components)
}

// IsResourcesCompatible reports whether the resource access of a and other
// can be active at the same time.
func (a *Access) IsResourcesCompatible(other *Access) bool {
	return a.resources.IsCompatible(&other.resources)
}

// IsCompatible reports whether a and other can be active at the same time.
// Archetypal access is ignored.
func (a *Access) IsCompatible(other *Access) bool {
	return a.IsComponentsCompatible(other) && a.IsResourcesCompatible(other)
}

// IsSubsetComponents reports whether other's component access covers a's.
func (a *Access) IsSubsetComponents(other *Access) bool {
	return a.components.IsSubset(&other.components)
}

// IsSubsetResources reports whether other's resource access covers a's.
func (a *Access) IsSubsetResources(other *Access) bool {
	return a.resources.IsSubset(&other.resources)
}

// IsSubset reports whether other grants at least all access a grants.
func (a *Access) IsSubset(other *Access) bool {
	return a.IsSubsetComponents(other) && a.IsSubsetResources(other)
}

// ComponentConflicts returns the component indices a and other cannot
// access at the same time.
func (a *Access) ComponentConflicts(other *Access) Conflicts {
	return a.components.Conflicts(&other.components)
}

// ResourceConflicts returns the resource indices a and other cannot access
// at the same time.
func (a *Access) ResourceConflicts(other *Access) Conflicts {
	return a.resources.Conflicts(&other.resources)
}

// DomainConflicts returns component and resource conflicts separately.
func (a *Access) DomainConflicts(other *Access) DomainConflicts {
	return DomainConflicts{
		Components: a.ComponentConflicts(other),
		Resources:  a.ResourceConflicts(other),
	}
}

// GetConflicts returns the indices a and other cannot access at the same
// time, component and resource indices merged. The result is empty exactly
// when IsCompatible holds.
func (a *Access) GetConflicts(other *Access) Conflicts {
	return a.DomainConflicts(other).Merged()
}

// String renders the access for diagnostics.
func (a *Access) String() string {
	return fmt.Sprintf("{components: %s, resources: %s, archetypal: %s}",
		&a.components, &a.resources, &a.archetypal)
}
