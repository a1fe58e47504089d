package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/ecsaccess/internal/ir"
	"github.com/roach88/ecsaccess/internal/queryir"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrUnsupportedIRType = "E100" // unsupported IR type for validation

	// Schedule errors (E101-E109)
	ErrScheduleEmpty   = "E101" // schedule declares no systems
	ErrSystemNoParams  = "E102" // system borrows nothing
	ErrEmptyName       = "E103" // empty system, component or resource name
	ErrDuplicateName   = "E105" // duplicate system or declared name
	ErrSelfOrdering    = "E106" // system ordered relative to itself
	ErrDuplicateAccess = "E107" // same data term repeated in one query

	// Parameter errors (E110-E119)
	ErrUnknownOrderingTarget = "E110" // before/after names no system
	ErrInvalidParam          = "E111" // unknown param kind or bad shape
	ErrInvalidDataTerm       = "E112" // unknown data term kind or bad shape
	ErrInvalidFilter         = "E113" // filter node cannot be lowered
	ErrOrderingCycle         = "E114" // before/after constraints form a cycle
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate validates compiled IR against schema rules.
// Returns all errors found (does not fail-fast).
// Supports Schedule and SystemSpec types.
func Validate(v any) []ValidationError {
	switch ir := v.(type) {
	case *ir.Schedule:
		return validateSchedule(ir)
	case ir.Schedule:
		return validateSchedule(&ir)
	case *ir.SystemSpec:
		return validateSystem(ir, "system")
	case ir.SystemSpec:
		return validateSystem(&ir, "system")
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported IR type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

func validateSchedule(s *ir.Schedule) []ValidationError {
	var errs []ValidationError

	// E101: at least one system
	if len(s.Systems) == 0 {
		errs = append(errs, ValidationError{
			Field:   "systems",
			Message: fmt.Sprintf("schedule %q declares no systems", s.Name),
			Code:    ErrScheduleEmpty,
		})
	}

	errs = append(errs, validateDeclaredNames(s.Components, "components")...)
	errs = append(errs, validateDeclaredNames(s.Resources, "resources")...)

	systemNames := make(map[string]bool)
	for i := range s.Systems {
		sys := &s.Systems[i]
		field := fmt.Sprintf("systems[%d]", i)

		// E105: duplicate system name
		if systemNames[sys.Name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate system name: %q", sys.Name),
				Code:    ErrDuplicateName,
			})
		}
		systemNames[sys.Name] = true

		errs = append(errs, validateSystem(sys, field)...)
	}

	// E110: ordering targets must be systems of this schedule
	for i, sys := range s.Systems {
		for _, rel := range []struct {
			name    string
			targets []string
		}{{"before", sys.Before}, {"after", sys.After}} {
			for j, target := range rel.targets {
				if !systemNames[target] {
					errs = append(errs, ValidationError{
						Field:   fmt.Sprintf("systems[%d].%s[%d]", i, rel.name, j),
						Message: fmt.Sprintf("system %q is ordered %s unknown system %q", sys.Name, rel.name, target),
						Code:    ErrUnknownOrderingTarget,
					})
				}
			}
		}
	}

	// E114: ordering cycles
	for _, cycle := range AnalyzeOrdering(s) {
		if len(cycle.Path) == 2 && cycle.Path[0] == cycle.Path[1] {
			continue // reported as E106
		}
		errs = append(errs, ValidationError{
			Field:   "systems",
			Message: cycle.Message,
			Code:    ErrOrderingCycle,
		})
	}

	return errs
}

func validateDeclaredNames(names []string, field string) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: "name must be non-empty",
				Code:    ErrEmptyName,
			})
			continue
		}
		if seen[name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: fmt.Sprintf("%q declared twice", name),
				Code:    ErrDuplicateName,
			})
		}
		seen[name] = true
	}
	return errs
}

func validateSystem(sys *ir.SystemSpec, field string) []ValidationError {
	var errs []ValidationError

	// E103: system name
	if strings.TrimSpace(sys.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   field + ".name",
			Message: "system name must be non-empty",
			Code:    ErrEmptyName,
		})
	}

	// E102: at least one param
	if len(sys.Params) == 0 {
		errs = append(errs, ValidationError{
			Field:   field + ".params",
			Message: fmt.Sprintf("system %q must declare at least one parameter", sys.Name),
			Code:    ErrSystemNoParams,
		})
	}

	for i, p := range sys.Params {
		errs = append(errs, validateParam(p, fmt.Sprintf("%s.params[%d]", field, i))...)
	}

	// E106: self ordering
	for _, target := range append(append([]string(nil), sys.Before...), sys.After...) {
		if target == sys.Name {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("system %q is ordered relative to itself", sys.Name),
				Code:    ErrSelfOrdering,
			})
		}
	}

	return errs
}

func validateParam(p ir.Param, field string) []ValidationError {
	// E111: param kind
	if !ir.ValidParamKinds[p.Kind] {
		return []ValidationError{{
			Field:   field + ".kind",
			Message: fmt.Sprintf("invalid param kind %q, must be one of query, res, res_mut, world, world_mut", p.Kind),
			Code:    ErrInvalidParam,
		}}
	}

	switch p.Kind {
	case ir.ParamRes, ir.ParamResMut:
		if strings.TrimSpace(p.Resource) == "" {
			return []ValidationError{{
				Field:   field + ".resource",
				Message: fmt.Sprintf("%s requires a resource name", p.Kind),
				Code:    ErrInvalidParam,
			}}
		}
	case ir.ParamQuery:
		if p.Query == nil {
			return []ValidationError{{
				Field:   field + ".query",
				Message: "query param requires a query",
				Code:    ErrInvalidParam,
			}}
		}
		return validateQuery(p.Query, field+".query")
	}
	return nil
}

func validateQuery(q *ir.QuerySpec, field string) []ValidationError {
	var errs []ValidationError
	seen := make(map[ir.DataTerm]bool)

	for i, term := range q.Data {
		termField := fmt.Sprintf("%s.data[%d]", field, i)

		// E112: term kind and component
		if !ir.ValidTermKinds[term.Kind] {
			errs = append(errs, ValidationError{
				Field:   termField,
				Message: fmt.Sprintf("invalid data term %q", term.Kind),
				Code:    ErrInvalidDataTerm,
			})
			continue
		}
		needs := ir.TermNeedsComponent(term.Kind)
		if needs && strings.TrimSpace(term.Component) == "" {
			errs = append(errs, ValidationError{
				Field:   termField,
				Message: fmt.Sprintf("%s requires a component name", term.Kind),
				Code:    ErrInvalidDataTerm,
			})
			continue
		}
		if !needs && term.Component != "" {
			errs = append(errs, ValidationError{
				Field:   termField,
				Message: fmt.Sprintf("%s takes no component", term.Kind),
				Code:    ErrInvalidDataTerm,
			})
			continue
		}

		// E107: repeated term
		if seen[term] {
			errs = append(errs, ValidationError{
				Field:   termField,
				Message: fmt.Sprintf("data term %s %q repeated", term.Kind, term.Component),
				Code:    ErrDuplicateAccess,
			})
		}
		seen[term] = true
	}

	// E113: filter must lower
	if _, err := queryir.Lower(q.Filter); err != nil {
		var lowerErr *queryir.LowerError
		if errors.As(err, &lowerErr) {
			errs = append(errs, ValidationError{
				Field:   field + "." + lowerErr.Path,
				Message: lowerErr.Message,
				Code:    ErrInvalidFilter,
			})
		} else {
			errs = append(errs, ValidationError{
				Field:   field + ".filter",
				Message: err.Error(),
				Code:    ErrInvalidFilter,
			})
		}
	}

	return errs
}
