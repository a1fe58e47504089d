package analysis

import (
	"fmt"
	"log/slog"

	"github.com/roach88/ecsaccess/internal/access"
	"github.com/roach88/ecsaccess/internal/ir"
	"github.com/roach88/ecsaccess/internal/queryir"
	"github.com/roach88/ecsaccess/internal/registry"
)

// SystemAccess is the lowered access of one system.
type SystemAccess struct {
	Name string

	// Params holds one FilteredAccess per declared parameter, in order.
	Params []*access.FilteredAccess

	// Set combines every parameter of the system.
	Set *access.FilteredAccessSet

	// Warnings lists filter lint findings for the system's queries.
	Warnings []string
}

// Analyzer lowers schedules against a registry. Names are assigned indices
// on first use, so one Analyzer should see every schedule that will be
// compared.
type Analyzer struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// New returns an Analyzer. A nil logger uses slog.Default().
func New(reg *registry.Registry, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{registry: reg, logger: logger}
}

// Registry returns the registry names are resolved against.
func (a *Analyzer) Registry() *registry.Registry {
	return a.registry
}

// AnalyzeSchedule seeds the registry with the schedule's declared names and
// lowers every system in declaration order. It stops at the first
// parameter conflict.
func (a *Analyzer) AnalyzeSchedule(s *ir.Schedule) ([]SystemAccess, error) {
	a.registry.Seed(s.Components, s.Resources)

	out := make([]SystemAccess, 0, len(s.Systems))
	for _, sys := range s.Systems {
		sa, err := a.AnalyzeSystem(sys)
		if err != nil {
			return nil, err
		}
		out = append(out, sa)
	}

	a.logger.Info("schedule analysed",
		"schedule", s.Name,
		"systems", len(out),
		"components", a.registry.Components.Len(),
		"resources", a.registry.Resources.Len(),
	)
	return out, nil
}

// AnalyzeSystem lowers each parameter and folds it into the system's
// FilteredAccessSet, rejecting parameters that conflict with earlier ones.
func (a *Analyzer) AnalyzeSystem(sys ir.SystemSpec) (SystemAccess, error) {
	sa := SystemAccess{Name: sys.Name, Set: access.NewFilteredAccessSet()}

	for i, p := range sys.Params {
		fa, warnings, err := a.lowerParam(p)
		if err != nil {
			if pce, ok := AsParamConflict(err); ok {
				pce.System = sys.Name
				pce.Param = i
			}
			return SystemAccess{}, err
		}
		for _, w := range warnings {
			sa.Warnings = append(sa.Warnings, fmt.Sprintf("system %s param %d: %s", sys.Name, i, w))
		}

		if conflicts := sa.Set.DomainConflictsSingle(fa); !conflicts.IsEmpty() {
			return SystemAccess{}, a.conflictError(CodeSystemConflict, sys.Name, i,
				"conflicts with an earlier parameter of the same system", conflicts)
		}

		switch p.Kind {
		case ir.ParamRes:
			sa.Set.AddUnfilteredResourceRead(a.registry.Resources.Index(p.Resource))
		case ir.ParamResMut:
			sa.Set.AddUnfilteredResourceWrite(a.registry.Resources.Index(p.Resource))
		case ir.ParamWorld:
			sa.Set.ReadAll()
		case ir.ParamWorldMut:
			sa.Set.WriteAll()
		default:
			sa.Set.Add(fa)
		}
		sa.Params = append(sa.Params, fa)

		a.logger.Debug("param lowered",
			"system", sys.Name,
			"param", i,
			"kind", p.Kind,
			"access", fa.String(),
		)
	}

	return sa, nil
}

// LowerParam lowers one parameter outside any system.
func (a *Analyzer) LowerParam(p ir.Param) (*access.FilteredAccess, error) {
	fa, _, err := a.lowerParam(p)
	return fa, err
}

func (a *Analyzer) lowerParam(p ir.Param) (*access.FilteredAccess, []string, error) {
	fa := access.MatchesEverything()
	switch p.Kind {
	case ir.ParamQuery:
		if p.Query == nil {
			return nil, nil, fmt.Errorf("query param without query")
		}
		return a.lowerQuery(p.Query)
	case ir.ParamRes:
		fa.AddResourceRead(a.registry.Resources.Index(p.Resource))
	case ir.ParamResMut:
		fa.AddResourceWrite(a.registry.Resources.Index(p.Resource))
	case ir.ParamWorld:
		fa.ReadAll()
	case ir.ParamWorldMut:
		fa.WriteAll()
	default:
		return nil, nil, fmt.Errorf("unknown param kind %q", p.Kind)
	}
	return fa, nil, nil
}

func (a *Analyzer) lowerQuery(q *ir.QuerySpec) (*access.FilteredAccess, []string, error) {
	fa := access.MatchesEverything()
	components := a.registry.Components

	for _, term := range q.Data {
		switch term.Kind {
		case ir.TermRead, ir.TermOptional:
			idx := components.Index(term.Component)
			if fa.Access().HasComponentWrite(idx) {
				return nil, nil, a.queryConflict(term, idx)
			}
			if term.Kind == ir.TermRead {
				fa.AddComponentRead(idx)
			} else {
				fa.AccessMut().AddComponentRead(idx)
			}
		case ir.TermWrite, ir.TermOptionalMut:
			idx := components.Index(term.Component)
			if fa.Access().HasComponentRead(idx) {
				return nil, nil, a.queryConflict(term, idx)
			}
			if term.Kind == ir.TermWrite {
				fa.AddComponentWrite(idx)
			} else {
				fa.AccessMut().AddComponentWrite(idx)
			}
		case ir.TermHas:
			fa.AccessMut().AddArchetypal(components.Index(term.Component))
		case ir.TermEntityRef:
			if fa.Access().HasAnyComponentWrite() {
				return nil, nil, a.conflictError(CodeQueryConflict, "", 0,
					"entity_ref conflicts with a component write in the same query",
					access.DomainConflicts{Components: access.AllConflicts(), Resources: access.NoConflicts()})
			}
			fa.ReadAllComponents()
		case ir.TermEntityMut:
			if fa.Access().HasAnyComponentRead() {
				return nil, nil, a.conflictError(CodeQueryConflict, "", 0,
					"entity_mut conflicts with other component access in the same query",
					access.DomainConflicts{Components: access.AllConflicts(), Resources: access.NoConflicts()})
			}
			fa.WriteAllComponents()
		default:
			return nil, nil, fmt.Errorf("unknown data term %q", term.Kind)
		}
	}

	filter, err := queryir.Lower(q.Filter)
	if err != nil {
		return nil, nil, err
	}
	if filter == nil {
		return fa, nil, nil
	}

	filterAccess := access.MatchesEverything()
	a.applyFilter(filterAccess, filter)
	fa.Extend(filterAccess)

	return fa, queryir.Validate(filter).Warnings, nil
}

// applyFilter narrows fa by f. Changed and Added read the component's
// change ticks, which also requires the component.
func (a *Analyzer) applyFilter(fa *access.FilteredAccess, f queryir.Filter) {
	components := a.registry.Components
	switch f := f.(type) {
	case queryir.With:
		fa.AndWith(components.Index(f.Component))
	case queryir.Without:
		fa.AndWithout(components.Index(f.Component))
	case queryir.Changed:
		fa.AddComponentRead(components.Index(f.Component))
	case queryir.Added:
		fa.AddComponentRead(components.Index(f.Component))
	case queryir.All:
		for _, child := range f.Filters {
			a.applyFilter(fa, child)
		}
	case queryir.Any:
		union := access.MatchesNothing()
		for _, child := range f.Filters {
			branch := fa.Clone()
			a.applyFilter(branch, child)
			union.AppendOr(branch)
			union.ExtendAccess(branch)
		}
		for _, idx := range fa.Required() {
			union.AddRequired(idx)
		}
		*fa = *union
	}
}

func (a *Analyzer) queryConflict(term ir.DataTerm, idx int) error {
	return a.conflictError(CodeQueryConflict, "", 0,
		fmt.Sprintf("%s %s conflicts with another access to it in the same query", term.Kind, term.Component),
		access.DomainConflicts{Components: access.IndividualConflicts(idx), Resources: access.NoConflicts()})
}

func (a *Analyzer) conflictError(code, system string, param int, message string, conflicts access.DomainConflicts) *ParamConflictError {
	err := &ParamConflictError{
		Code:    code,
		System:  system,
		Param:   param,
		Message: message,
	}
	var all bool
	err.Components, all = names(a.registry.Components, conflicts.Components)
	err.All = err.All || all
	err.Resources, all = names(a.registry.Resources, conflicts.Resources)
	err.All = err.All || all
	return err
}

// names resolves conflict indices. The bool reports an unbounded conflict.
func names(d *registry.Domain, c access.Conflicts) ([]string, bool) {
	idx, ok := c.Indices()
	if !ok {
		return nil, true
	}
	if len(idx) == 0 {
		return nil, false
	}
	return d.Names(idx...), false
}
