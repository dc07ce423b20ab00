package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sprint_beacon/internal/models"
	"sprint_beacon/internal/repository"
)

// ErrInvalidRunFilter wraps every rejected history query.
var ErrInvalidRunFilter = errors.New("invalid run filter")

var (
	errInvalidYardRange = fmt.Errorf("%w: min_yards must be <= max_yards", ErrInvalidRunFilter)
	errInvalidRunWindow = fmt.Errorf("%w: from must be <= to", ErrInvalidRunFilter)
)

type RunLogService struct {
	runRepo repository.RunRepo
	setup   *SetupService
}

// NewRunLogService returns the history service; setup may be nil when no
// leaderboard is restricted to the selected runner.
func NewRunLogService(runRepo repository.RunRepo, setup *SetupService) *RunLogService {
	return &RunLogService{runRepo: runRepo, setup: setup}
}

// List returns runs newest first, without outliers unless q.All is set.
func (s *RunLogService) List(ctx context.Context, q RunQuery) ([]models.RunRecord, error) {
	f, err := runFilter(q)
	if err != nil {
		return nil, err
	}
	if q.All {
		return s.runRepo.List(ctx, f)
	}
	// Limit applies after outliers are dropped.
	f.Limit = 0
	runs, err := s.runRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	runs = plausibleOnly(runs)
	if q.Limit > 0 && len(runs) > q.Limit {
		runs = runs[:q.Limit]
	}
	return runs, nil
}

// Stats summarizes every run matching q; q.Limit is ignored.
func (s *RunLogService) Stats(ctx context.Context, q RunQuery) (models.RunStats, error) {
	q.Limit = 0
	runs, err := s.List(ctx, q)
	if err != nil {
		return models.RunStats{}, err
	}
	selected := ""
	if q.SelectedOnly && s.setup != nil {
		selected = s.setup.SubjectIdentifier()
	}
	return computeStats(runs, q.Top, selected), nil
}

func runFilter(q RunQuery) (models.RunFilter, error) {
	if q.MinYards != nil && q.MaxYards != nil && *q.MinYards > *q.MaxYards {
		return models.RunFilter{}, errInvalidYardRange
	}
	f := models.RunFilter{
		Runner:   strings.TrimSpace(q.Runner),
		MinYards: q.MinYards,
		MaxYards: q.MaxYards,
		Limit:    q.Limit,
	}
	if q.From != nil {
		from := q.From.UTC()
		f.From = &from
	}
	if q.To != nil {
		to := *q.To
		if q.DateOnlyTo {
			to = endOfDay(to)
		}
		to = to.UTC()
		f.To = &to
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return models.RunFilter{}, errInvalidRunWindow
	}
	return f, nil
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

func plausibleOnly(runs []models.RunRecord) []models.RunRecord {
	out := runs[:0]
	for _, r := range runs {
		if r.Plausible() {
			out = append(out, r)
		}
	}
	return out
}
