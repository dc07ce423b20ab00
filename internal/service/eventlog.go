package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"sprint_beacon/internal/models"
	"sprint_beacon/internal/repository"
)

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// normalizeFilter prepares query parameters and validates the time range.
func normalizeFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from, to := toUTC(f.From), toUTC(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}
	return from, to, strings.ToUpper(strings.TrimSpace(f.Type)), nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.BeaconEvent, error) {
	from, to, typ, err := normalizeFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, from, to, typ)
}
