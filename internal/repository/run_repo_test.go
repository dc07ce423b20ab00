package repository

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"sprint_beacon/internal/models"
)

var runColumns = []string{"id", "runner", "sprint_ms", "range_yards", "mph", "recorded_at"}

func TestRunInsert_EnsuresRunner(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRunSQLite(db)

	at := time.Date(2026, 10, 18, 9, 0, 5, 250_000_000, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertRunnerSQL)).
		WithArgs("Ada", "2026-10-18 09:00:05.250").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(insertRunSQL)).
		WithArgs("Ada", int64(5000), 50.0, 20.5, "2026-10-18 09:00:05.250").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	id, err := repo.Insert(ctx(t), models.RunRecord{Runner: " Ada ", SprintMs: 5000, RangeYards: 50, MPH: 20.5, RecordedAt: at})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id != 11 {
		t.Fatalf("id = %d", id)
	}
}

func TestRunInsert_BlankRunnerIsUnassigned(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRunSQLite(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertRunnerSQL)).
		WithArgs(models.DefaultRunner, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertRunSQL)).
		WithArgs(models.DefaultRunner, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if _, err := repo.Insert(ctx(t), models.RunRecord{SprintMs: 4000, RangeYards: 40, MPH: 20}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
}

func TestRunInsert_RollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRunSQLite(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertRunnerSQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(insertRunSQL)).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	if _, err := repo.Insert(ctx(t), models.RunRecord{Runner: "Ada"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunList(t *testing.T) {
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 18, 23, 59, 59, 999_000_000, time.UTC)
	minY, maxY := 20.0, 60.0

	tests := []struct {
		name  string
		f     models.RunFilter
		query string
		args  []any
	}{
		{
			name:  "no filters",
			query: selectRunsSQL + " ORDER BY recorded_at DESC, id DESC",
		},
		{
			name:  "all runners keyword",
			f:     models.RunFilter{Runner: "All", Limit: 10},
			query: selectRunsSQL + " ORDER BY recorded_at DESC, id DESC LIMIT ?",
			args:  []any{10},
		},
		{
			name:  "every filter",
			f:     models.RunFilter{Runner: "Ada", MinYards: &minY, MaxYards: &maxY, From: &from, To: &to, Limit: 5},
			query: selectRunsSQL + " WHERE runner = ? AND range_yards >= ? AND range_yards <= ? AND recorded_at >= ? AND recorded_at <= ? ORDER BY recorded_at DESC, id DESC LIMIT ?",
			args:  []any{"Ada", 20.0, 60.0, "2026-10-01 00:00:00.000", "2026-10-18 23:59:59.999", 5},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewRunSQLite(db)

			at := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
			rows := sqlmock.NewRows(runColumns).
				AddRow(2, "Ada", 5000, 50.0, 20.45, at).
				AddRow(1, "Ada", 6000, 50.0, 17.04, at.Add(-time.Hour))
			exp := mock.ExpectQuery("^" + regexp.QuoteMeta(tc.query) + "$")
			if len(tc.args) > 0 {
				args := make([]driver.Value, len(tc.args))
				for i, a := range tc.args {
					args[i] = a
				}
				exp = exp.WithArgs(args...)
			}
			exp.WillReturnRows(rows)

			got, err := repo.List(ctx(t), tc.f)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != 2 || got[0].ID != 2 || got[0].SprintMs != 5000 || !got[0].RecordedAt.Equal(at) {
				t.Fatalf("unexpected runs %+v", got)
			}
		})
	}
}

func TestRunList_QueryError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRunSQLite(db)
	mock.ExpectQuery(regexp.QuoteMeta(selectRunsSQL)).WillReturnError(errors.New("locked"))
	if _, err := repo.List(ctx(t), models.RunFilter{}); err == nil {
		t.Fatalf("expected error")
	}
}
