package service

import (
	"context"

	"sprint_beacon/internal/codec"
	"sprint_beacon/internal/config"
	"sprint_beacon/internal/link"
	"sprint_beacon/internal/logger"
	"sprint_beacon/internal/loop"
	"sprint_beacon/internal/models"
	"sprint_beacon/internal/mqtt"
	"sprint_beacon/internal/repository"
	"sprint_beacon/internal/status"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Beacon drives the link: connection and the three beacon commands.
type Beacon interface {
	Connect(ctx context.Context, address string) error
	Disconnect(ctx context.Context) error
	Arm(ctx context.Context) error
	SetLaser(ctx context.Context, on bool) error
	SetAuto(ctx context.Context, on bool) error
}

// Monitoring exposes the live beacon view.
type Monitoring interface {
	GetState(ctx context.Context) (models.BeaconState, error)
}

// Setup owns the range source and the selected runner.
type Setup interface {
	Settings() models.BeaconSettings
	SetRange(ctx context.Context, p RangeParams) (models.BeaconSettings, error)
	SelectRunner(ctx context.Context, name string) (models.BeaconSettings, error)
}

type Runners interface {
	List(ctx context.Context) ([]models.Runner, error)
	Add(ctx context.Context, name string) (models.Runner, error)
}

// RunLog reads the run history.
type RunLog interface {
	List(ctx context.Context, q RunQuery) ([]models.RunRecord, error)
	Stats(ctx context.Context, q RunQuery) (models.RunStats, error)
}

// EventLog exposes the journal with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.BeaconEvent, error)
}

// Controller is the part of *link.Link the beacon service drives. Every
// method must run on the loop.
type Controller interface {
	Connect(address string) error
	Disconnect()
	Send(cmd codec.Command) bool
	State() link.State
}

// StateSource is read from request goroutines.
type StateSource interface {
	Snapshot() status.Snapshot
}

// Service aggregates all sub-services.
type Service struct {
	Beacon
	Monitoring
	Setup
	Runners
	RunLog
	EventLog
	Authorization
}

// Deps are the runtime collaborators that live outside the repository layer.
type Deps struct {
	Exec      loop.Executor
	Link      Controller
	State     StateSource
	Settings  *SetupService
	Journal   *Journal
	Publisher mqtt.Publisher
	Auth      config.AuthConfig
	// DefaultAddress is used when Connect is called without one.
	DefaultAddress string
	Log            *logger.Logger
}

func NewService(repos *repository.Repository, d Deps) *Service {
	return &Service{
		Beacon:        NewBeaconService(d.Exec, d.Link, d.Journal, d.DefaultAddress, d.Log),
		Monitoring:    NewMonitoringService(d.State, d.Settings, d.Publisher),
		Setup:         d.Settings,
		Runners:       NewRunnerService(repos.Runners),
		RunLog:        NewRunLogService(repos.Runs, d.Settings),
		EventLog:      NewEventLogService(repos.EventRepo),
		Authorization: NewAuthService(repos.Auth, d.Auth),
	}
}
