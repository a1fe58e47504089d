package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// Parameter conflict codes.
const (
	CodeQueryConflict  = "B0001" // one query reads and writes a component
	CodeSystemConflict = "B0002" // two params of one system conflict
)

// ParamConflictError reports access that a single system cannot hold at
// once.
type ParamConflictError struct {
	Code   string `json:"code"`
	System string `json:"system"`
	Param  int    `json:"param"` // index of the offending parameter

	// Components and Resources name the conflicting indices. All marks a
	// conflict over a whole domain.
	Components []string `json:"components,omitempty"`
	Resources  []string `json:"resources,omitempty"`
	All        bool     `json:"all,omitempty"`

	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ParamConflictError) Error() string {
	var on []string
	if e.All {
		on = append(on, "all access")
	}
	if len(e.Components) > 0 {
		on = append(on, "components "+strings.Join(e.Components, ", "))
	}
	if len(e.Resources) > 0 {
		on = append(on, "resources "+strings.Join(e.Resources, ", "))
	}
	msg := fmt.Sprintf("[%s] system %q param %d: %s", e.Code, e.System, e.Param, e.Message)
	if len(on) > 0 {
		msg += " (" + strings.Join(on, "; ") + ")"
	}
	return msg
}

// IsParamConflict reports whether err is a ParamConflictError.
func IsParamConflict(err error) bool {
	var pce *ParamConflictError
	return errors.As(err, &pce)
}

// AsParamConflict extracts a ParamConflictError from err.
func AsParamConflict(err error) (*ParamConflictError, bool) {
	var pce *ParamConflictError
	if errors.As(err, &pce) {
		return pce, true
	}
	return nil, false
}
