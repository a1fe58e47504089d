package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/ecsaccess/internal/ir"
)

// RunDiff lists how the conflicts of one run differ from an earlier run.
// Pairs are matched by system names regardless of order.
type RunDiff struct {
	From string `json:"from"`
	To   string `json:"to"`

	Added   []ir.ConflictEntry `json:"added"`   // in To only
	Removed []ir.ConflictEntry `json:"removed"` // in From only
	Changed []ir.ConflictEntry `json:"changed"` // in both with different names or ordering; To's entry
}

// IsEmpty reports whether the runs have identical conflicts.
func (d RunDiff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// DiffRuns compares the stored conflicts of two runs.
func (s *Store) DiffRuns(ctx context.Context, fromID, toID string) (RunDiff, error) {
	diff := RunDiff{
		From:    fromID,
		To:      toID,
		Added:   []ir.ConflictEntry{},
		Removed: []ir.ConflictEntry{},
		Changed: []ir.ConflictEntry{},
	}

	for _, id := range []string{fromID, toID} {
		if _, err := s.ReadRun(ctx, id); err != nil {
			return diff, fmt.Errorf("diff runs: run %s: %w", id, err)
		}
	}

	from, err := s.ReadConflicts(ctx, fromID)
	if err != nil {
		return diff, fmt.Errorf("diff runs: %w", err)
	}
	to, err := s.ReadConflicts(ctx, toID)
	if err != nil {
		return diff, fmt.Errorf("diff runs: %w", err)
	}

	before := make(map[[2]string]ir.ConflictEntry, len(from))
	for _, c := range from {
		before[pairKey(c)] = c
	}

	seen := make(map[[2]string]bool, len(to))
	for _, c := range to {
		key := pairKey(c)
		seen[key] = true
		old, ok := before[key]
		switch {
		case !ok:
			diff.Added = append(diff.Added, c)
		case !sameConflict(old, c):
			diff.Changed = append(diff.Changed, c)
		}
	}
	for _, c := range from {
		if !seen[pairKey(c)] {
			diff.Removed = append(diff.Removed, c)
		}
	}

	return diff, nil
}

func pairKey(c ir.ConflictEntry) [2]string {
	if c.A <= c.B {
		return [2]string{c.A, c.B}
	}
	return [2]string{c.B, c.A}
}

func sameConflict(a, b ir.ConflictEntry) bool {
	return a.Ordered == b.Ordered && sameNames(a.Components, b.Components) && sameNames(a.Resources, b.Resources)
}

func sameNames(a, b ir.NameSet) bool {
	return a.All == b.All && slices.Equal(a.Names, b.Names)
}
