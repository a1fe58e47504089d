package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ecsaccess/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Schedule string // optional - one schedule only
	Pair     string // optional - "a,b": runs where the pair conflicted
}

// HistoryResult holds the listed runs.
type HistoryResult struct {
	Runs []store.Run `json:"runs"`
	Pair []string    `json:"pair,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded check runs",
		Long: `List the runs recorded by "check --db", oldest first.

With --pair, only runs in which the two systems conflicted are listed.

Examples:
  ecsaccess history --db ./ecsaccess.db
  ecsaccess history --db ./ecsaccess.db --schedule Update
  ecsaccess history --db ./ecsaccess.db --pair movement,gravity --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Schedule, "schedule", "", "list runs of one schedule only")
	cmd.Flags().StringVar(&opts.Pair, "pair", "", "list runs where two systems conflicted (a,b)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	var pair []string
	if opts.Pair != "" {
		pair = strings.Split(opts.Pair, ",")
		if len(pair) != 2 || pair[0] == "" || pair[1] == "" {
			return NewExitError(ExitCommandError, fmt.Sprintf("invalid --pair %q: want two system names separated by a comma", opts.Pair))
		}
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var runs []store.Run
	if opts.Schedule != "" {
		runs, err = st.ListRunsForSchedule(ctx, opts.Schedule)
	} else {
		runs, err = st.ListRuns(ctx)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if pair != nil {
		ids, err := st.PairHistory(ctx, pair[0], pair[1])
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read pair history", err)
		}
		keep := make(map[string]bool, len(ids))
		for _, id := range ids {
			keep[id] = true
		}
		filtered := runs[:0]
		for _, r := range runs {
			if keep[r.ID] {
				filtered = append(filtered, r)
			}
		}
		runs = filtered
	}

	if opts.Format == "json" {
		if runs == nil {
			runs = []store.Run{}
		}
		return newFormatter(opts.RootOptions, cmd).Success(HistoryResult{Runs: runs, Pair: pair})
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%4d  %s  %-16s  %s  %d ambiguity(ies)\n",
			r.Seq, r.ID, r.Schedule, shortHash(r.ScheduleHash), r.Ambiguities)
	}
	return nil
}

// shortHash trims a content hash for display.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
