package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/ecsaccess/internal/ir"
)

// Run is the stored summary of one analysis.
type Run struct {
	ID              string `json:"id"`
	Seq             int64  `json:"seq"`
	Schedule        string `json:"schedule"`
	ScheduleHash    string `json:"schedule_hash"`
	ReportHash      string `json:"report_hash"`
	AnalyzerVersion string `json:"analyzer_version"`
	IRVersion       string `json:"ir_version"`
	Ambiguities     int    `json:"ambiguities"`
}

// WriteRun stores report under id and returns the stored run. The next seq
// is assigned inside the write transaction.
//
// Writing an id that already exists is a no-op that returns the existing
// run, so retried writes are idempotent.
func (s *Store) WriteRun(ctx context.Context, id string, report ir.Report) (Run, error) {
	reportJSON, err := marshalReport(report)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	reportHash, err := ir.ReportHash(report)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	run := Run{
		ID:              id,
		Schedule:        report.Schedule,
		ScheduleHash:    report.ScheduleHash,
		ReportHash:      reportHash,
		AnalyzerVersion: ir.AnalyzerVersion,
		IRVersion:       ir.IRVersion,
		Ambiguities:     len(report.Ambiguities()),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&run.Seq); err != nil {
		return Run{}, fmt.Errorf("write run: next seq: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, schedule, schedule_hash, report_hash, analyzer_version, ir_version, ambiguities, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Seq,
		run.Schedule,
		run.ScheduleHash,
		run.ReportHash,
		run.AnalyzerVersion,
		run.IRVersion,
		run.Ambiguities,
		reportJSON,
	)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		tx.Rollback()
		return s.ReadRun(ctx, id)
	}

	for i, c := range report.Conflicts {
		if err := writeConflict(ctx, tx, id, i, c); err != nil {
			return Run{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("write run: commit: %w", err)
	}
	return run, nil
}

func writeConflict(ctx context.Context, tx *sql.Tx, runID string, ordinal int, c ir.ConflictEntry) error {
	components, err := marshalNameSet(c.Components)
	if err != nil {
		return fmt.Errorf("write conflict: %w", err)
	}
	resources, err := marshalNameSet(c.Resources)
	if err != nil {
		return fmt.Errorf("write conflict: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO conflicts
		(run_id, ordinal, system_a, system_b, components, resources, ordered)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, runID, ordinal, c.A, c.B, components, resources, boolToInt(c.Ordered))
	if err != nil {
		return fmt.Errorf("write conflict %d: %w", ordinal, err)
	}
	return nil
}

// DeleteRun removes a run and its conflicts. Deleting an unknown id
// returns sql.ErrNoRows.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// IsNotFound reports whether err means a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
