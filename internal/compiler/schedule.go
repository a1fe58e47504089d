package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/ecsaccess/internal/ir"
)

// CompileSchedule parses a CUE value into a Schedule.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the schedule struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`schedule: Update: { systems: { ... } }`)
//	s, err := CompileSchedule(v.LookupPath(cue.ParsePath("schedule.Update")))
//
// Systems keep their declaration order. Compile checks shape only; kind
// names and references are checked by Validate.
func CompileSchedule(v cue.Value) (*ir.Schedule, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	s := &ir.Schedule{Name: labelOf(v)}

	var err error
	if s.Components, err = parseStringList(v, "components"); err != nil {
		return nil, err
	}
	if s.Resources, err = parseStringList(v, "resources"); err != nil {
		return nil, err
	}

	systemsVal := v.LookupPath(cue.ParsePath("systems"))
	if !systemsVal.Exists() {
		return nil, &CompileError{
			Field:   "systems",
			Message: "systems is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := systemsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		sys, err := CompileSystem(iter.Value())
		if err != nil {
			return nil, err
		}
		s.Systems = append(s.Systems, *sys)
	}

	return s, nil
}

// CompileSystem parses one system declaration. The system name is the
// struct label.
func CompileSystem(v cue.Value) (*ir.SystemSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	sys := &ir.SystemSpec{Name: labelOf(v)}
	field := "systems." + sys.Name

	paramsVal := v.LookupPath(cue.ParsePath("params"))
	if paramsVal.Exists() {
		iter, err := paramsVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for i := 0; iter.Next(); i++ {
			p, err := parseParam(iter.Value(), fmt.Sprintf("%s.params[%d]", field, i))
			if err != nil {
				return nil, err
			}
			sys.Params = append(sys.Params, p)
		}
	}

	var err error
	if sys.Before, err = parseStringList(v, "before"); err != nil {
		return nil, err
	}
	if sys.After, err = parseStringList(v, "after"); err != nil {
		return nil, err
	}

	return sys, nil
}

// parseParam decodes a parameter. Supported forms:
//   - "world" or "world_mut"
//   - { res: "Time" } / { res_mut: "Score" }
//   - { query: { data: [...], filter: {...} } }
func parseParam(v cue.Value, field string) (ir.Param, error) {
	if kind, err := v.String(); err == nil {
		return ir.Param{Kind: kind}, nil
	}

	key, inner, err := singleField(v, field)
	if err != nil {
		return ir.Param{}, err
	}

	switch key {
	case ir.ParamQuery:
		q, err := parseQuery(inner, field+".query")
		if err != nil {
			return ir.Param{}, err
		}
		return ir.Param{Kind: key, Query: q}, nil
	case ir.ParamWorld, ir.ParamWorldMut:
		return ir.Param{Kind: key}, nil
	default:
		name, err := inner.String()
		if err != nil {
			return ir.Param{}, &CompileError{
				Field:   field + "." + key,
				Message: "resource name must be a string",
				Pos:     inner.Pos(),
			}
		}
		return ir.Param{Kind: key, Resource: name}, nil
	}
}

func parseQuery(v cue.Value, field string) (*ir.QuerySpec, error) {
	q := &ir.QuerySpec{}

	dataVal := v.LookupPath(cue.ParsePath("data"))
	if dataVal.Exists() {
		iter, err := dataVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for i := 0; iter.Next(); i++ {
			term, err := parseDataTerm(iter.Value(), fmt.Sprintf("%s.data[%d]", field, i))
			if err != nil {
				return nil, err
			}
			q.Data = append(q.Data, term)
		}
	}

	filterVal := v.LookupPath(cue.ParsePath("filter"))
	if filterVal.Exists() {
		node, err := parseFilterNode(filterVal, field+".filter")
		if err != nil {
			return nil, err
		}
		q.Filter = &node
	}

	return q, nil
}

// parseDataTerm decodes "entity_ref" / "entity_mut" or a single-key struct
// such as { write: "Transform" }.
func parseDataTerm(v cue.Value, field string) (ir.DataTerm, error) {
	if kind, err := v.String(); err == nil {
		return ir.DataTerm{Kind: kind}, nil
	}

	key, inner, err := singleField(v, field)
	if err != nil {
		return ir.DataTerm{}, err
	}
	component, err := inner.String()
	if err != nil {
		return ir.DataTerm{}, &CompileError{
			Field:   field + "." + key,
			Message: "component name must be a string",
			Pos:     inner.Pos(),
		}
	}
	return ir.DataTerm{Kind: key, Component: component}, nil
}

// parseFilterNode decodes { with: "A" } style leaves and { all: [...] } /
// { any: [...] } combinators.
func parseFilterNode(v cue.Value, field string) (ir.FilterNode, error) {
	key, inner, err := singleField(v, field)
	if err != nil {
		return ir.FilterNode{}, err
	}

	if inner.IncompleteKind() == cue.ListKind {
		node := ir.FilterNode{Op: key, Args: []ir.FilterNode{}}
		iter, err := inner.List()
		if err != nil {
			return ir.FilterNode{}, formatCUEError(err)
		}
		for i := 0; iter.Next(); i++ {
			child, err := parseFilterNode(iter.Value(), fmt.Sprintf("%s.%s[%d]", field, key, i))
			if err != nil {
				return ir.FilterNode{}, err
			}
			node.Args = append(node.Args, child)
		}
		return node, nil
	}

	component, err := inner.String()
	if err != nil {
		return ir.FilterNode{}, &CompileError{
			Field:   field + "." + key,
			Message: "filter operand must be a component name or a list of filters",
			Pos:     inner.Pos(),
		}
	}
	return ir.FilterNode{Op: key, Component: component}, nil
}

// singleField returns the only field of a struct value.
func singleField(v cue.Value, field string) (string, cue.Value, error) {
	iter, err := v.Fields()
	if err != nil {
		return "", cue.Value{}, &CompileError{
			Field:   field,
			Message: "expected a string or a struct with exactly one field",
			Pos:     v.Pos(),
		}
	}

	var (
		key   string
		inner cue.Value
		n     int
	)
	for iter.Next() {
		key, inner = iter.Label(), iter.Value()
		n++
	}
	if n != 1 {
		return "", cue.Value{}, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("expected exactly one field, found %d", n),
			Pos:     v.Pos(),
		}
	}
	return key, inner, nil
}

func parseStringList(v cue.Value, path string) ([]string, error) {
	listVal := v.LookupPath(cue.ParsePath(path))
	if !listVal.Exists() {
		return nil, nil
	}
	iter, err := listVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

func labelOf(v cue.Value) string {
	labels := v.Path().Selectors()
	if len(labels) == 0 {
		return ""
	}
	return labels[len(labels)-1].String()
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
