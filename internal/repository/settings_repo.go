package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sprint_beacon/internal/models"
)

type SettingsSQLite struct {
	db *sql.DB
}

func NewSettingsSQLite(db *sql.DB) *SettingsSQLite {
	return &SettingsSQLite{db: db}
}

const (
	settingsRowID = 1

	upsertSettingsSQL = `
		INSERT INTO beacon_settings (id, use_lidar, manual_range_yards, selected_runner, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			use_lidar=excluded.use_lidar,
			manual_range_yards=excluded.manual_range_yards,
			selected_runner=excluded.selected_runner,
			updated_at=excluded.updated_at
	`

	selectSettingsSQL = `
		SELECT id, use_lidar, manual_range_yards, selected_runner
		FROM beacon_settings WHERE id=?
	`
)

// Save upserts the single settings row.
func (r *SettingsSQLite) Save(ctx context.Context, s models.BeaconSettings) error {
	var manual sql.NullFloat64
	if s.ManualRangeYards != nil {
		manual = sql.NullFloat64{Float64: *s.ManualRangeYards, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, upsertSettingsSQL,
		settingsRowID,
		s.UseLidar,
		manual,
		s.SelectedRunner,
		formatTime(time.Now()),
	)
	return err
}

// Load returns the settings row, or defaults when none was saved yet.
func (r *SettingsSQLite) Load(ctx context.Context) (models.BeaconSettings, error) {
	row := r.db.QueryRowContext(ctx, selectSettingsSQL, settingsRowID)

	var (
		s      models.BeaconSettings
		manual sql.NullFloat64
	)
	if err := row.Scan(&s.ID, &s.UseLidar, &manual, &s.SelectedRunner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.BeaconSettings{UseLidar: true, SelectedRunner: models.DefaultRunner}, nil
		}
		return models.BeaconSettings{}, err
	}
	if manual.Valid {
		v := manual.Float64
		s.ManualRangeYards = &v
	}
	return s, nil
}
