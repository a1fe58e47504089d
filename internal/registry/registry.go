// Package registry assigns dense zero-based indices to component and
// resource names.
//
// Components and resources are independent index spaces: component 0 and
// resource 0 are unrelated. Names are NFC normalized before lookup so that
// visually identical names declared in different files map to one index.
package registry

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Domain maps names to dense indices in first-seen order.
type Domain struct {
	kind    string
	indices map[string]int
	names   []string
}

// NewDomain returns an empty domain. kind names the domain in errors
// ("component", "resource").
func NewDomain(kind string) *Domain {
	return &Domain{kind: kind, indices: make(map[string]int)}
}

// Kind returns the domain label.
func (d *Domain) Kind() string {
	return d.kind
}

// Index returns the index for name, assigning the next free index on first
// use.
func (d *Domain) Index(name string) int {
	key := norm.NFC.String(name)
	if i, ok := d.indices[key]; ok {
		return i
	}
	i := len(d.names)
	d.indices[key] = i
	d.names = append(d.names, key)
	return i
}

// Lookup returns the index for name without assigning one.
func (d *Domain) Lookup(name string) (int, bool) {
	i, ok := d.indices[norm.NFC.String(name)]
	return i, ok
}

// Name returns the name assigned to index.
func (d *Domain) Name(index int) (string, error) {
	if index < 0 || index >= len(d.names) {
		return "", fmt.Errorf("%s index %d not assigned", d.kind, index)
	}
	return d.names[index], nil
}

// MustName is like Name but panics on an unassigned index.
func (d *Domain) MustName(index int) string {
	name, err := d.Name(index)
	if err != nil {
		panic(err)
	}
	return name
}

// Names returns the names of the given indices, or every name in index
// order when no index is given.
func (d *Domain) Names(indices ...int) []string {
	if len(indices) == 0 {
		return append([]string(nil), d.names...)
	}
	out := make([]string, len(indices))
	for i, idx := range indices {
		out[i] = d.MustName(idx)
	}
	return out
}

// Len returns the number of assigned indices.
func (d *Domain) Len() int {
	return len(d.names)
}

// Registry holds the component and resource domains for one analysis pass.
type Registry struct {
	Components *Domain
	Resources  *Domain
}

// New returns a registry with empty domains.
func New() *Registry {
	return &Registry{
		Components: NewDomain("component"),
		Resources:  NewDomain("resource"),
	}
}

// Seed assigns indices to the given names in order, so declared orderings
// take precedence over first-seen order.
func (r *Registry) Seed(components, resources []string) {
	for _, c := range components {
		r.Components.Index(c)
	}
	for _, res := range resources {
		r.Resources.Index(res)
	}
}
