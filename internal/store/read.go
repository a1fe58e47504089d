package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/ecsaccess/internal/ir"
)

const runColumns = `id, seq, schedule, schedule_hash, report_hash, analyzer_version, ir_version, ambiguities`

// ReadRun returns the run with the given id.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// ReadReport returns the full report stored with a run.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadReport(ctx context.Context, id string) (ir.Report, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT report FROM runs WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return ir.Report{}, err
		}
		return ir.Report{}, fmt.Errorf("read report: %w", err)
	}
	return unmarshalReport(data)
}

// ListRuns returns every run, oldest first.
// Returns an empty slice (not nil) when the store has no runs.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	return s.queryRuns(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
}

// ListRunsForSchedule returns the runs of one schedule name, oldest first.
func (s *Store) ListRunsForSchedule(ctx context.Context, schedule string) ([]Run, error) {
	return s.queryRuns(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE schedule = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, schedule)
}

// LatestRunForHash returns the most recent run of the schedule with the
// given content hash. The bool is false when no such run exists.
func (s *Store) LatestRunForHash(ctx context.Context, scheduleHash string) (Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE schedule_hash = ?
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`, scheduleHash)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, err
	}
	return run, true, nil
}

// ReadConflicts returns the conflicts of a run in report order.
// Returns an empty slice (not nil) if the run has none.
func (s *Store) ReadConflicts(ctx context.Context, runID string) ([]ir.ConflictEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT system_a, system_b, components, resources, ordered
		FROM conflicts
		WHERE run_id = ?
		ORDER BY ordinal ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query conflicts: %w", err)
	}
	defer rows.Close()

	conflicts := []ir.ConflictEntry{}
	for rows.Next() {
		var (
			c                     ir.ConflictEntry
			components, resources string
			ordered               int
		)
		if err := rows.Scan(&c.A, &c.B, &components, &resources, &ordered); err != nil {
			return nil, fmt.Errorf("scan conflict: %w", err)
		}
		if c.Components, err = unmarshalNameSet(components); err != nil {
			return nil, err
		}
		if c.Resources, err = unmarshalNameSet(resources); err != nil {
			return nil, err
		}
		c.Ordered = ordered == 1
		conflicts = append(conflicts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conflicts: %w", err)
	}
	return conflicts, nil
}

// PairHistory returns the ids of the runs in which systems a and b
// conflicted, oldest first.
func (s *Store) PairHistory(ctx context.Context, a, b string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id
		FROM conflicts c
		JOIN runs r ON c.run_id = r.id
		WHERE (c.system_a = ? AND c.system_b = ?) OR (c.system_a = ? AND c.system_b = ?)
		ORDER BY r.seq ASC, r.id COLLATE BINARY ASC
	`, a, b, b, a)
	if err != nil {
		return nil, fmt.Errorf("query pair history: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pair history: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pair history: %w", err)
	}
	return ids, nil
}

func (s *Store) queryRuns(ctx context.Context, query string, args ...any) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanRun scans one run row. sql.ErrNoRows is returned unwrapped.
func scanRun(row scanner) (Run, error) {
	var run Run
	err := row.Scan(
		&run.ID,
		&run.Seq,
		&run.Schedule,
		&run.ScheduleHash,
		&run.ReportHash,
		&run.AnalyzerVersion,
		&run.IRVersion,
		&run.Ambiguities,
	)
	if err == sql.ErrNoRows {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	return run, nil
}
