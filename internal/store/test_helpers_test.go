package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/ecsaccess/internal/ir"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// names builds a finite NameSet.
func names(n ...string) ir.NameSet {
	if n == nil {
		n = []string{}
	}
	return ir.NameSet{Names: n}
}

// createTestReport creates a report with two conflicts, one of them ordered.
func createTestReport(schedule, hash string) ir.Report {
	return ir.Report{
		Schedule:     schedule,
		ScheduleHash: hash,
		Systems: []ir.SystemReport{
			{
				Name: "movement",
				Components: ir.AccessSummary{
					Reads:  names("Transform", "Velocity"),
					Writes: names("Transform"),
				},
				Resources: ir.AccessSummary{Reads: names("Time"), Writes: names()},
			},
			{
				Name:       "render",
				Components: ir.AccessSummary{Reads: names("Transform"), Writes: names()},
				Resources:  ir.AccessSummary{Reads: names(), Writes: names()},
			},
			{
				Name:       "clock",
				Components: ir.AccessSummary{Reads: names(), Writes: names()},
				Resources:  ir.AccessSummary{Reads: names("Time"), Writes: names("Time")},
			},
		},
		Conflicts: []ir.ConflictEntry{
			{A: "movement", B: "render", Components: names("Transform"), Resources: names(), Ordered: true},
			{A: "movement", B: "clock", Components: names(), Resources: names("Time")},
		},
	}
}
