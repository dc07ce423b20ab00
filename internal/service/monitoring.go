package service

import (
	"context"
	"time"

	"sprint_beacon/internal/models"
	"sprint_beacon/internal/mqtt"
)

type MonitoringService struct {
	state     StateSource
	setup     Setup
	publisher mqtt.Publisher
	now       func() time.Time
}

// NewMonitoringService returns the live view; publisher may be nil.
func NewMonitoringService(state StateSource, setup Setup, publisher mqtt.Publisher) *MonitoringService {
	return &MonitoringService{state: state, setup: setup, publisher: publisher, now: time.Now}
}

// GetState merges link, run and settings into one view. Elapsed time is
// computed now, not when the run last changed.
func (s *MonitoringService) GetState(ctx context.Context) (models.BeaconState, error) {
	if err := ctx.Err(); err != nil {
		return models.BeaconState{}, err
	}
	snap := s.state.Snapshot()
	now := s.now()

	st := models.BeaconState{
		LinkState: snap.Link.State.String(),
		Connected: snap.Link.Connected,
		Address:   snap.Link.Address,
		MTU:       snap.Link.MTU,
		Laser:     snap.Link.Laser,
		Auto:      snap.Link.Auto,

		RunActive:   snap.Run.RunActive(),
		RunPhase:    snap.Run.Phase.String(),
		RunID:       snap.Run.RunID,
		ElapsedMs:   snap.Run.Elapsed(now).Milliseconds(),
		LastMPH:     snap.Run.LastMPH,
		RangeLocked: snap.Run.RangeLocked(),
		LockedYards: snap.Run.LockedYards,

		UpdatedAt: toUTC(snap.UpdatedAt),
	}
	for _, c := range snap.Link.Channels {
		st.Channels = append(st.Channels, c.String())
	}
	if r := snap.Run.LastRange; r != nil && r.Valid {
		cm := int(r.Cm)
		st.RangeCm = &cm
		if y, ok := r.Yards(); ok {
			st.RangeYards = &y
		}
	}
	if ms := snap.Run.LastSprintMs; ms != nil {
		v := int64(*ms)
		st.LastSprintMs = &v
	}

	if s.setup != nil {
		set := s.setup.Settings()
		st.SelectedRunner = set.SelectedRunner
		st.UseLidar = set.UseLidar
		st.ManualRangeYards = set.ManualRangeYards
	}
	if s.publisher != nil {
		st.MQTTConnected = s.publisher.IsConnected()
	}
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = now.UTC()
	}
	return st, nil
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
