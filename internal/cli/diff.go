package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/ecsaccess/internal/ir"
	"github.com/roach88/ecsaccess/internal/store"
)

// DiffOptions holds flags for the diff command.
type DiffOptions struct {
	*RootOptions
	Database string
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiffOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diff <from-run> <to-run>",
		Short: "Compare the conflicts of two recorded runs",
		Long: `Compare the conflicts of two runs recorded by "check --db".

Pairs are matched by system names in either order. A pair present in both
runs is reported as changed when its conflicting names or its ordering
differ.

Exit codes:
  0 - The runs have identical conflicts
  1 - The conflicts differ
  2 - Command error (database or run not found, etc.)

Examples:
  ecsaccess diff --db ./ecsaccess.db <old-run> <new-run>
  ecsaccess diff --db ./ecsaccess.db <old-run> <new-run> --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runDiff(opts *DiffOptions, fromID, toID string, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	diff, err := st.DiffRuns(ctx, fromID, toID)
	if store.IsNotFound(err) {
		return WrapExitError(ExitCommandError, "run not found", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to diff runs", err)
	}

	if opts.Format == "json" {
		if err := newFormatter(opts.RootOptions, cmd).Success(diff); err != nil {
			return err
		}
	} else {
		outputDiffText(cmd.OutOrStdout(), diff)
	}

	if !diff.IsEmpty() {
		return NewExitError(ExitFailure, fmt.Sprintf("runs differ: %d added, %d removed, %d changed",
			len(diff.Added), len(diff.Removed), len(diff.Changed)))
	}
	return nil
}

func outputDiffText(w io.Writer, diff store.RunDiff) {
	if diff.IsEmpty() {
		fmt.Fprintf(w, "✓ No conflict changes between %s and %s\n", diff.From, diff.To)
		return
	}

	fmt.Fprintf(w, "Conflict changes from %s to %s:\n", diff.From, diff.To)
	printEntries(w, "+", diff.Added)
	printEntries(w, "-", diff.Removed)
	printEntries(w, "~", diff.Changed)
}

func printEntries(w io.Writer, mark string, entries []ir.ConflictEntry) {
	for _, c := range entries {
		fmt.Fprintf(w, "  %s %s\n", mark, formatConflict(c))
	}
}
