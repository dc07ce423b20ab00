package repository

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestRunnerAdd(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRunnerSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta(insertRunnerSQL)).
		WithArgs("Ada", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	if err := repo.Add(ctx(t), "Ada"); err != nil {
		t.Fatalf("Add: %v", err)
	}
}

func TestRunnerAdd_Error(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRunnerSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta(insertRunnerSQL)).WillReturnError(errors.New("readonly"))
	if err := repo.Add(ctx(t), "Ada"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunnerList(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRunnerSQLite(db)

	at := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(selectRunnersSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "created_at"}).
			AddRow("Ada", at).
			AddRow("Unassigned", at))

	got, err := repo.List(ctx(t))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Ada" || got[1].Name != "Unassigned" || !got[0].CreatedAt.Equal(at) {
		t.Fatalf("unexpected runners %+v", got)
	}
}
