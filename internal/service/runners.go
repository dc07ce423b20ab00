package service

import (
	"context"
	"time"

	"sprint_beacon/internal/models"
	"sprint_beacon/internal/repository"
)

type RunnerService struct {
	repo repository.RunnerRepo
}

func NewRunnerService(repo repository.RunnerRepo) *RunnerService {
	return &RunnerService{repo: repo}
}

func (s *RunnerService) List(ctx context.Context) ([]models.Runner, error) {
	return s.repo.List(ctx)
}

// Add creates a runner; adding an existing name succeeds.
func (s *RunnerService) Add(ctx context.Context, name string) (models.Runner, error) {
	name, err := normalizeRunner(name)
	if err != nil {
		return models.Runner{}, err
	}
	if err := s.repo.Add(ctx, name); err != nil {
		return models.Runner{}, err
	}
	return models.Runner{Name: name, CreatedAt: time.Now().UTC()}, nil
}
