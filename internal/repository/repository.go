package repository

import (
	"context"
	"database/sql"
	"time"

	"sprint_beacon/internal/models"
)

// timeLayout is how timestamps are stored; it sorts lexically.
const timeLayout = "2006-01-02 15:04:05.000"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type RunRepo interface {
	// Insert stores rec, creating its runner when missing.
	Insert(ctx context.Context, rec models.RunRecord) (int64, error)
	List(ctx context.Context, f models.RunFilter) ([]models.RunRecord, error)
}

type RunnerRepo interface {
	Add(ctx context.Context, name string) error
	List(ctx context.Context) ([]models.Runner, error)
}

type SettingsRepo interface {
	Save(ctx context.Context, s models.BeaconSettings) error
	Load(ctx context.Context) (models.BeaconSettings, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.BeaconEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.BeaconEvent, error)
}

type Repository struct {
	Runs      RunRepo
	Runners   RunnerRepo
	Settings  SettingsRepo
	EventRepo EventRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Runs:      NewRunSQLite(db),
		Runners:   NewRunnerSQLite(db),
		Settings:  NewSettingsSQLite(db),
		EventRepo: NewEventSQLite(db),
		Auth:      NewUserRepository(db),
	}
}
