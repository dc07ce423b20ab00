package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sprint_beacon/internal/models"
)

type RunnerSQLite struct {
	db *sql.DB
}

func NewRunnerSQLite(db *sql.DB) *RunnerSQLite { return &RunnerSQLite{db: db} }

const (
	insertRunnerSQL  = `INSERT OR IGNORE INTO runners (name, created_at) VALUES (?, ?)`
	selectRunnersSQL = `SELECT name, created_at FROM runners ORDER BY name ASC`
)

// Add creates the runner; adding an existing name is a no-op.
func (r *RunnerSQLite) Add(ctx context.Context, name string) error {
	if _, err := r.db.ExecContext(ctx, insertRunnerSQL, name, formatTime(time.Now())); err != nil {
		return fmt.Errorf("insert runner %q: %w", name, err)
	}
	return nil
}

func (r *RunnerSQLite) List(ctx context.Context) ([]models.Runner, error) {
	rows, err := r.db.QueryContext(ctx, selectRunnersSQL)
	if err != nil {
		return nil, fmt.Errorf("query runners: %w", err)
	}
	defer rows.Close()

	var out []models.Runner
	for rows.Next() {
		var rn models.Runner
		if err := rows.Scan(&rn.Name, &rn.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan runner: %w", err)
		}
		rn.CreatedAt = rn.CreatedAt.UTC()
		out = append(out, rn)
	}
	return out, rows.Err()
}
