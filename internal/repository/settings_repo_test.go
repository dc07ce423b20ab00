package repository

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"sprint_beacon/internal/models"
)

func TestSettingsSave(t *testing.T) {
	manual := 40.0
	tests := []struct {
		name   string
		in     models.BeaconSettings
		manual any
	}{
		{"lidar", models.BeaconSettings{UseLidar: true, SelectedRunner: "Ada"}, sql.NullFloat64{}},
		{"manual", models.BeaconSettings{ManualRangeYards: &manual, SelectedRunner: "Ada"}, sql.NullFloat64{Float64: 40, Valid: true}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewSettingsSQLite(db)
			mock.ExpectExec(regexp.QuoteMeta(upsertSettingsSQL)).
				WithArgs(settingsRowID, tc.in.UseLidar, tc.manual, "Ada", sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(1, 1))
			if err := repo.Save(ctx(t), tc.in); err != nil {
				t.Fatalf("Save: %v", err)
			}
		})
	}
}

func TestSettingsLoad_Defaults(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSettingsSQLite(db)
	mock.ExpectQuery(regexp.QuoteMeta(selectSettingsSQL)).
		WithArgs(settingsRowID).
		WillReturnError(sql.ErrNoRows)

	s, err := repo.Load(ctx(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !s.UseLidar || s.SelectedRunner != models.DefaultRunner || s.ManualRangeYards != nil {
		t.Fatalf("unexpected defaults %+v", s)
	}
}

func TestSettingsLoad_Stored(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSettingsSQLite(db)
	mock.ExpectQuery(regexp.QuoteMeta(selectSettingsSQL)).
		WithArgs(settingsRowID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "use_lidar", "manual_range_yards", "selected_runner"}).
			AddRow(1, false, 35.5, "Ada"))

	s, err := repo.Load(ctx(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.UseLidar || s.ManualRangeYards == nil || *s.ManualRangeYards != 35.5 || s.SelectedRunner != "Ada" {
		t.Fatalf("unexpected settings %+v", s)
	}
}

func TestSettingsLoad_Error(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSettingsSQLite(db)
	mock.ExpectQuery(regexp.QuoteMeta(selectSettingsSQL)).WillReturnError(errors.New("boom"))
	if _, err := repo.Load(ctx(t)); err == nil {
		t.Fatalf("expected error")
	}
}
