package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"sprint_beacon/internal/models"
	"sprint_beacon/internal/repository"
	"sprint_beacon/internal/run"
)

const maxRunnerName = 64

var (
	ErrInvalidRunner = errors.New("runner name must be 1-64 characters")
	ErrInvalidRange  = errors.New("manual range must be a positive number of yards")
)

// SetupService serves the run engine its range and subject. The engine reads
// it from the loop while HTTP requests change it, hence the lock.
type SetupService struct {
	settingsRepo repository.SettingsRepo
	runnerRepo   repository.RunnerRepo

	mu       sync.RWMutex
	settings models.BeaconSettings
	lidar    *float64
}

func NewSetupService(settingsRepo repository.SettingsRepo, runnerRepo repository.RunnerRepo) *SetupService {
	return &SetupService{
		settingsRepo: settingsRepo,
		runnerRepo:   runnerRepo,
		settings:     models.BeaconSettings{UseLidar: true, SelectedRunner: models.DefaultRunner},
	}
}

// Load reads persisted settings and makes sure the default runner exists.
func (s *SetupService) Load(ctx context.Context) error {
	if err := s.runnerRepo.Add(ctx, models.DefaultRunner); err != nil {
		return fmt.Errorf("seed default runner: %w", err)
	}
	st, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if strings.TrimSpace(st.SelectedRunner) == "" {
		st.SelectedRunner = models.DefaultRunner
	}
	s.mu.Lock()
	s.settings = st
	s.mu.Unlock()
	return nil
}

func (s *SetupService) Settings() models.BeaconSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySettings(s.settings)
}

func (s *SetupService) SetRange(ctx context.Context, p RangeParams) (models.BeaconSettings, error) {
	if p.ManualYards != nil {
		v := *p.ManualYards
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return models.BeaconSettings{}, ErrInvalidRange
		}
	}
	return s.update(ctx, func(st *models.BeaconSettings) {
		st.UseLidar = p.UseLidar
		st.ManualRangeYards = p.ManualYards
	})
}

// SelectRunner makes name the subject of future runs, creating it if needed.
func (s *SetupService) SelectRunner(ctx context.Context, name string) (models.BeaconSettings, error) {
	name, err := normalizeRunner(name)
	if err != nil {
		return models.BeaconSettings{}, err
	}
	if err := s.runnerRepo.Add(ctx, name); err != nil {
		return models.BeaconSettings{}, err
	}
	return s.update(ctx, func(st *models.BeaconSettings) { st.SelectedRunner = name })
}

// update persists first so memory never runs ahead of the database.
func (s *SetupService) update(ctx context.Context, fn func(*models.BeaconSettings)) (models.BeaconSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := copySettings(s.settings)
	fn(&next)
	next.ID = 1
	if err := s.settingsRepo.Save(ctx, next); err != nil {
		return models.BeaconSettings{}, fmt.Errorf("save settings: %w", err)
	}
	s.settings = next
	return copySettings(next), nil
}

// CurrentRange implements run.RangeProvider: the last LiDAR reading when
// enabled and available, otherwise the manual range.
func (s *SetupService) CurrentRange() (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings.UseLidar && s.lidar != nil {
		return *s.lidar, true
	}
	if s.settings.ManualRangeYards != nil {
		return *s.settings.ManualRangeYards, true
	}
	return 0, false
}

// SubjectIdentifier implements run.SubjectProvider.
func (s *SetupService) SubjectIdentifier() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.SelectedRunner
}

// RunChanged tracks the latest LiDAR reading.
func (s *SetupService) RunChanged(c run.Change) {
	var yards *float64
	if r := c.Snapshot.LastRange; r != nil {
		if y, ok := r.Yards(); ok {
			yards = &y
		}
	}
	s.mu.Lock()
	s.lidar = yards
	s.mu.Unlock()
}

func normalizeRunner(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > maxRunnerName || strings.EqualFold(name, "all") {
		return "", ErrInvalidRunner
	}
	return name, nil
}

func copySettings(st models.BeaconSettings) models.BeaconSettings {
	if st.ManualRangeYards != nil {
		v := *st.ManualRangeYards
		st.ManualRangeYards = &v
	}
	return st
}
