package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ecsaccess/internal/ir"
	"github.com/roach88/ecsaccess/internal/store"
)

// ShowOptions holds flags for the show and forget commands.
type ShowOptions struct {
	*RootOptions
	Database string
}

// ShowResult holds one stored run and its report.
type ShowResult struct {
	Run    store.Run `json:"run"`
	Report ir.Report `json:"report"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print the report of a recorded run",
		Long: `Print the full report stored with a run: per-system access and every
conflicting pair, ordered or not.

Examples:
  ecsaccess show --db ./ecsaccess.db 0192f0c4-...
  ecsaccess show --db ./ecsaccess.db 0192f0c4-... --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(opts *ShowOptions, runID string, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	run, err := st.ReadRun(ctx, runID)
	if store.IsNotFound(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", runID))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	report, err := st.ReadReport(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read report", err)
	}

	if opts.Format == "json" {
		return newFormatter(opts.RootOptions, cmd).Success(ShowResult{Run: run, Report: report})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Run %s (seq %d)\n", run.ID, run.Seq)
	fmt.Fprintf(w, "Schedule: %s\n", run.Schedule)
	fmt.Fprintf(w, "Schedule hash: %s\n", run.ScheduleHash)
	fmt.Fprintf(w, "Analyzer: %s (IR %s)\n\n", run.AnalyzerVersion, run.IRVersion)

	fmt.Fprintln(w, "Systems:")
	for _, s := range report.Systems {
		fmt.Fprintf(w, "  %s\n", s.Name)
		printSummary(cmd, "components", s.Components)
		printSummary(cmd, "resources", s.Resources)
	}

	fmt.Fprintf(w, "\nConflicts (%d, %d ambiguous):\n", len(report.Conflicts), run.Ambiguities)
	for _, c := range report.Conflicts {
		fmt.Fprintf(w, "  %s\n", formatConflict(c))
	}
	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	return nil
}

func printSummary(cmd *cobra.Command, label string, a ir.AccessSummary) {
	reads, writes := formatNameSet(a.Reads), formatNameSet(a.Writes)
	if reads == "" && writes == "" {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "    %s: read [%s] write [%s]\n", label, reads, writes)
}

// NewForgetCommand creates the forget command.
func NewForgetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "forget <run-id>",
		Short:         "Delete a recorded run",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(opts.Database)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open database", err)
			}
			defer st.Close()

			err = st.DeleteRun(context.Background(), args[0])
			if store.IsNotFound(err) {
				return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", args[0]))
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to delete run", err)
			}

			formatter := newFormatter(opts.RootOptions, cmd)
			if opts.Format == "json" {
				return formatter.Success(map[string]string{"deleted": args[0]})
			}
			return formatter.Success("Deleted run " + args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}
