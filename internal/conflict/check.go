package conflict

import (
	"fmt"
	"log/slog"

	"github.com/roach88/ecsaccess/internal/analysis"
	"github.com/roach88/ecsaccess/internal/ir"
	"github.com/roach88/ecsaccess/internal/registry"
)

// Check analyses s against a fresh registry and renders its report.
//
// The error is an *analysis.ParamConflictError when a parameter conflicts
// with itself or with an earlier parameter of the same system.
func Check(s *ir.Schedule, logger *slog.Logger) (*Graph, ir.Report, error) {
	reg := registry.New()
	systems, err := analysis.New(reg, logger).AnalyzeSchedule(s)
	if err != nil {
		return nil, ir.Report{}, err
	}

	hash, err := ir.ScheduleHash(*s)
	if err != nil {
		return nil, ir.Report{}, fmt.Errorf("hash schedule %q: %w", s.Name, err)
	}

	g := Build(s, systems, reg)
	return g, g.Report(hash), nil
}
