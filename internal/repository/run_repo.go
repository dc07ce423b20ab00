package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"sprint_beacon/internal/models"
)

type RunSQLite struct {
	db *sql.DB
}

func NewRunSQLite(db *sql.DB) *RunSQLite { return &RunSQLite{db: db} }

const (
	insertRunSQL = `
		INSERT INTO runs (runner, sprint_ms, range_yards, mph, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`
	selectRunsSQL = `SELECT id, runner, sprint_ms, range_yards, mph, recorded_at FROM runs`
)

// Insert ensures the runner exists, then stores the run, in one transaction.
func (r *RunSQLite) Insert(ctx context.Context, rec models.RunRecord) (int64, error) {
	runner := strings.TrimSpace(rec.Runner)
	if runner == "" {
		runner = models.DefaultRunner
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin run insert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, insertRunnerSQL, runner, formatTime(rec.RecordedAt)); err != nil {
		return 0, fmt.Errorf("ensure runner %q: %w", runner, err)
	}
	res, err := tx.ExecContext(ctx, insertRunSQL,
		runner,
		rec.SprintMs,
		rec.RangeYards,
		rec.MPH,
		formatTime(rec.RecordedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for run: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run insert: %w", err)
	}
	return id, nil
}

// List returns runs matching f, newest first.
func (r *RunSQLite) List(ctx context.Context, f models.RunFilter) ([]models.RunRecord, error) {
	var (
		conds []string
		args  []any
	)
	if name := strings.TrimSpace(f.Runner); name != "" && !strings.EqualFold(name, "all") {
		conds = append(conds, "runner = ?")
		args = append(args, name)
	}
	if f.MinYards != nil {
		conds = append(conds, "range_yards >= ?")
		args = append(args, *f.MinYards)
	}
	if f.MaxYards != nil {
		conds = append(conds, "range_yards <= ?")
		args = append(args, *f.MaxYards)
	}
	if f.From != nil {
		conds = append(conds, "recorded_at >= ?")
		args = append(args, formatTime(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "recorded_at <= ?")
		args = append(args, formatTime(*f.To))
	}

	q := selectRunsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY recorded_at DESC, id DESC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	out := make([]models.RunRecord, 0, 64)
	for rows.Next() {
		var rec models.RunRecord
		if err := rows.Scan(&rec.ID, &rec.Runner, &rec.SprintMs, &rec.RangeYards, &rec.MPH, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.RecordedAt = rec.RecordedAt.UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
