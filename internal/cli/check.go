package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ecsaccess/internal/analysis"
	"github.com/roach88/ecsaccess/internal/conflict"
	"github.com/roach88/ecsaccess/internal/ir"
	"github.com/roach88/ecsaccess/internal/store"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Database string // optional - persist reports
	Schedule string // optional - check one schedule only
	Strict   bool   // ambiguities fail the command

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to store.UUIDv7Generator.
	RunIDs store.RunIDGenerator
}

// ScheduleCheck is the outcome for one schedule.
type ScheduleCheck struct {
	Schedule    string                       `json:"schedule"`
	RunID       string                       `json:"run_id,omitempty"`
	Reused      bool                         `json:"reused,omitempty"`
	Ambiguities int                          `json:"ambiguities"`
	Report      *ir.Report                   `json:"report,omitempty"`
	Error       *analysis.ParamConflictError `json:"error,omitempty"`
}

// CheckResult holds the outcome for every checked schedule.
type CheckResult struct {
	Schedules   []ScheduleCheck `json:"schedules"`
	Ambiguities int             `json:"ambiguities"`
	Failed      int             `json:"failed"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <schedules-dir>",
		Short: "Report access conflicts between systems",
		Long: `Analyse every schedule and report conflicting systems.

A conflict is a pair of systems whose access cannot overlap, such as two
writers of the same component on rows their filters do not keep apart.
Conflicts not resolved by a before/after chain are ambiguities: the
scheduler may run the pair in either order.

A system whose own parameters conflict fails the check (B0001 within one
query, B0002 across parameters).

Exit codes:
  0 - Analysis succeeded (ambiguities allowed unless --strict)
  1 - A system parameter conflicts, or --strict and ambiguities exist
  2 - Command error (invalid paths, invalid schedules, database errors)

Examples:
  ecsaccess check ./schedules
  ecsaccess check ./schedules --schedule Update --strict
  ecsaccess check ./schedules --db ./ecsaccess.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database for run history")
	cmd.Flags().StringVar(&opts.Schedule, "schedule", "", "check only the named schedule")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail when any ambiguity remains")

	return cmd
}

func runCheck(opts *CheckOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := formatter.Logger()

	loadResult, validationErrs, err := ValidateSchedulesDir(dir)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", loadErr.Code, loadErr.Message))
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load schedules", err)
	}
	if len(validationErrs) > 0 {
		_ = formatter.Error(validationErrs[0].Code, validationErrs[0].Error(), validationErrs)
		return NewExitError(ExitCommandError, fmt.Sprintf("%d invalid schedule declaration(s); run validate for details", len(validationErrs)))
	}

	schedules := loadResult.Schedules
	if opts.Schedule != "" {
		s, ok := loadResult.Schedule(opts.Schedule)
		if !ok {
			msg := fmt.Sprintf("schedule %q not found in %s", opts.Schedule, dir)
			_ = formatter.Error(ErrCodeNotFound, msg, nil)
			return NewExitError(ExitCommandError, msg)
		}
		schedules = []ir.Schedule{*s}
	}

	var st *store.Store
	if opts.Database != "" {
		logger.Debug("opening database", "path", opts.Database)
		st, err = store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result := CheckResult{Schedules: make([]ScheduleCheck, 0, len(schedules))}
	for i := range schedules {
		sc, err := checkSchedule(ctx, opts, &schedules[i], st, logger)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to check schedule %s", schedules[i].Name), err)
		}
		result.Schedules = append(result.Schedules, sc)
		result.Ambiguities += sc.Ambiguities
		if sc.Error != nil {
			result.Failed++
		}
	}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		outputCheckText(formatter.Writer, result, opts.Verbose)
	}

	switch {
	case result.Failed > 0:
		return NewExitError(ExitFailure, fmt.Sprintf("%d schedule(s) have conflicting system parameters", result.Failed))
	case opts.Strict && result.Ambiguities > 0:
		return NewExitError(ExitFailure, fmt.Sprintf("%d ambiguity(ies) found", result.Ambiguities))
	}
	return nil
}

// checkSchedule analyses s and, when st is set, records the report. A
// report identical to the latest stored run of the same schedule hash is
// not written again.
func checkSchedule(ctx context.Context, opts *CheckOptions, s *ir.Schedule, st *store.Store, logger *slog.Logger) (ScheduleCheck, error) {
	sc := ScheduleCheck{Schedule: s.Name}

	_, report, err := conflict.Check(s, logger)
	if err != nil {
		if pce, ok := analysis.AsParamConflict(err); ok {
			logger.Warn("parameter conflict", "schedule", s.Name, "code", pce.Code, "system", pce.System, "param", pce.Param)
			sc.Error = pce
			return sc, nil
		}
		return sc, err
	}
	sc.Report = &report
	sc.Ambiguities = len(report.Ambiguities())

	if st == nil {
		return sc, nil
	}

	reportHash, err := ir.ReportHash(report)
	if err != nil {
		return sc, err
	}
	latest, found, err := st.LatestRunForHash(ctx, report.ScheduleHash)
	if err != nil {
		return sc, err
	}
	if found && latest.ReportHash == reportHash {
		logger.Debug("report unchanged", "schedule", s.Name, "run", latest.ID)
		sc.RunID = latest.ID
		sc.Reused = true
		return sc, nil
	}

	gen := opts.RunIDs
	if gen == nil {
		gen = store.UUIDv7Generator{}
	}
	run, err := st.WriteRun(ctx, gen.Generate(), report)
	if err != nil {
		return sc, err
	}
	logger.Info("run recorded", "schedule", s.Name, "run", run.ID, "seq", run.Seq)
	sc.RunID = run.ID
	return sc, nil
}

// outputCheckText prints one block per schedule.
func outputCheckText(w io.Writer, result CheckResult, verbose bool) {
	for _, sc := range result.Schedules {
		if sc.Error != nil {
			fmt.Fprintf(w, "✗ %s\n", sc.Schedule)
			fmt.Fprintf(w, "  %s\n\n", sc.Error.Error())
			continue
		}

		r := sc.Report
		fmt.Fprintf(w, "✓ %s: %d system(s), %d conflict(s), %d ambiguity(ies)\n",
			sc.Schedule, len(r.Systems), len(r.Conflicts), sc.Ambiguities)
		if sc.RunID != "" {
			fmt.Fprintf(w, "  run: %s\n", sc.RunID)
		}
		for _, c := range r.Conflicts {
			if c.Ordered && !verbose {
				continue
			}
			fmt.Fprintf(w, "  %s\n", formatConflict(c))
		}
		for _, warning := range r.Warnings {
			fmt.Fprintf(w, "  warning: %s\n", warning)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%d schedule(s) checked, %d ambiguity(ies), %d failed\n",
		len(result.Schedules), result.Ambiguities, result.Failed)
}

// formatConflict renders a conflict entry on one line.
func formatConflict(c ir.ConflictEntry) string {
	var on []string
	if s := formatNameSet(c.Components); s != "" {
		on = append(on, "components "+s)
	}
	if s := formatNameSet(c.Resources); s != "" {
		on = append(on, "resources "+s)
	}
	line := fmt.Sprintf("%s <-> %s: %s", c.A, c.B, strings.Join(on, "; "))
	if c.Ordered {
		line += " (ordered)"
	}
	return line
}

// formatNameSet renders a name set, or "" when it names nothing.
func formatNameSet(n ir.NameSet) string {
	switch {
	case n.All && len(n.Names) == 0:
		return "all"
	case n.All:
		return "all except " + strings.Join(n.Names, ", ")
	default:
		return strings.Join(n.Names, ", ")
	}
}
