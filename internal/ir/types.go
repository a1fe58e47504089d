package ir

// Schedule is a named group of systems that a scheduler may run in one
// stage. Components and Resources optionally fix the index order used for
// those names; names not listed get indices in first-seen order.
type Schedule struct {
	Name       string       `json:"name"`
	Components []string     `json:"components,omitempty"`
	Resources  []string     `json:"resources,omitempty"`
	Systems    []SystemSpec `json:"systems"`
}

// SystemSpec declares one system: the parameters it borrows and the
// systems it must run before or after.
type SystemSpec struct {
	Name   string   `json:"name"`
	Params []Param  `json:"params"`
	Before []string `json:"before,omitempty"`
	After  []string `json:"after,omitempty"`
}

// Param kinds.
const (
	ParamQuery    = "query"     // row query over components
	ParamRes      = "res"       // shared resource borrow
	ParamResMut   = "res_mut"   // exclusive resource borrow
	ParamWorld    = "world"     // shared borrow of everything
	ParamWorldMut = "world_mut" // exclusive borrow of everything
)

// ValidParamKinds defines allowed parameter kinds.
var ValidParamKinds = map[string]bool{
	ParamQuery:    true,
	ParamRes:      true,
	ParamResMut:   true,
	ParamWorld:    true,
	ParamWorldMut: true,
}

// Param is one declared system parameter. Query is set for ParamQuery and
// Resource for ParamRes and ParamResMut.
type Param struct {
	Kind     string     `json:"kind"`
	Query    *QuerySpec `json:"query,omitempty"`
	Resource string     `json:"resource,omitempty"`
}

// QuerySpec is a row query: the data it fetches and an optional filter.
type QuerySpec struct {
	Data   []DataTerm  `json:"data"`
	Filter *FilterNode `json:"filter,omitempty"`
}

// Data term kinds.
const (
	TermRead        = "read"         // &T
	TermWrite       = "write"        // &mut T
	TermOptional    = "optional"     // Option<&T>
	TermOptionalMut = "optional_mut" // Option<&mut T>
	TermHas         = "has"          // presence flag, no value access
	TermEntityRef   = "entity_ref"   // shared view of a whole entity
	TermEntityMut   = "entity_mut"   // exclusive view of a whole entity
)

// ValidTermKinds defines allowed data term kinds.
var ValidTermKinds = map[string]bool{
	TermRead:        true,
	TermWrite:       true,
	TermOptional:    true,
	TermOptionalMut: true,
	TermHas:         true,
	TermEntityRef:   true,
	TermEntityMut:   true,
}

// TermNeedsComponent reports whether a term kind names a component.
func TermNeedsComponent(kind string) bool {
	return kind != TermEntityRef && kind != TermEntityMut
}

// DataTerm is one element of a query's fetched data.
type DataTerm struct {
	Kind      string `json:"kind"`
	Component string `json:"component,omitempty"`
}

// Filter node ops.
const (
	FilterWith    = "with"
	FilterWithout = "without"
	FilterChanged = "changed"
	FilterAdded   = "added"
	FilterAll     = "all"
	FilterAny     = "any"
)

// ValidFilterOps defines allowed filter ops.
var ValidFilterOps = map[string]bool{
	FilterWith:    true,
	FilterWithout: true,
	FilterChanged: true,
	FilterAdded:   true,
	FilterAll:     true,
	FilterAny:     true,
}

// FilterNode is a declared row filter. Leaf ops (with, without, changed,
// added) set Component; all and any set Args.
type FilterNode struct {
	Op        string       `json:"op"`
	Component string       `json:"component,omitempty"`
	Args      []FilterNode `json:"args,omitempty"`
}

// IsLeaf reports whether the node names a component rather than combining
// child nodes.
func (n FilterNode) IsLeaf() bool {
	return n.Op != FilterAll && n.Op != FilterAny
}

// SystemNames returns the system names in declaration order.
func (s Schedule) SystemNames() []string {
	names := make([]string, len(s.Systems))
	for i, sys := range s.Systems {
		names[i] = sys.Name
	}
	return names
}

// System returns the system with the given name.
func (s Schedule) System(name string) (SystemSpec, bool) {
	for _, sys := range s.Systems {
		if sys.Name == name {
			return sys, true
		}
	}
	return SystemSpec{}, false
}
