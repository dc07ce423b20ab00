package service

import (
	"context"
	"testing"
	"time"

	"sprint_beacon/internal/codec"
	"sprint_beacon/internal/link"
	"sprint_beacon/internal/models"
	"sprint_beacon/internal/mqtt"
	"sprint_beacon/internal/run"
	"sprint_beacon/internal/status"
)

func TestMonitoringService_GetState(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 3, 0, time.UTC)
	laser := true
	snap := status.Snapshot{
		Link: link.Status{
			State: link.Ready, Connected: true, Address: "AA", MTU: 185,
			Channels: []link.ChannelKind{link.ChannelStatus, link.ChannelCommand},
			Laser:    &laser,
		},
		Run: run.Snapshot{
			Phase:        run.Active,
			RunID:        4,
			StartedAt:    now.Add(-1500 * time.Millisecond),
			LastRange:    &codec.Range{Cm: 4572, Valid: true},
			LastSprintMs: ptr(uint32(5100)),
			LockedYards:  ptr(50.0),
		},
		UpdatedAt: now.Add(-time.Second),
	}
	setup := NewSetupService(&fakeSettingsRepo{}, &fakeRunnerRepo{})
	pub := mqtt.NewFakePublisher()
	svc := NewMonitoringService(fixedState{snap}, setup, pub)
	svc.now = func() time.Time { return now }

	st, err := svc.GetState(context.Background())
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if st.LinkState != link.Ready.String() || !st.Connected || st.MTU != 185 || len(st.Channels) != 2 {
		t.Fatalf("link view = %+v", st)
	}
	if !st.RunActive || st.RunID != 4 || st.ElapsedMs != 1500 || !st.RangeLocked || *st.LockedYards != 50 {
		t.Fatalf("run view = %+v", st)
	}
	if st.RangeCm == nil || *st.RangeCm != 4572 || st.RangeYards == nil || abs(*st.RangeYards-50) > 1e-9 {
		t.Fatalf("range view = %+v", st)
	}
	if st.LastSprintMs == nil || *st.LastSprintMs != 5100 {
		t.Fatalf("last sprint = %v", st.LastSprintMs)
	}
	if st.SelectedRunner != models.DefaultRunner || !st.UseLidar || !st.MQTTConnected {
		t.Fatalf("settings view = %+v", st)
	}
	if !st.UpdatedAt.Equal(snap.UpdatedAt) {
		t.Fatalf("updated_at = %v", st.UpdatedAt)
	}
}

func TestMonitoringService_IdleBaseline(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	svc := NewMonitoringService(fixedState{}, nil, nil)
	svc.now = func() time.Time { return now }

	st, err := svc.GetState(context.Background())
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if st.LinkState != link.Disconnected.String() || st.RunActive || st.ElapsedMs != 0 || st.RangeCm != nil || st.MQTTConnected {
		t.Fatalf("baseline = %+v", st)
	}
	if !st.UpdatedAt.Equal(now) {
		t.Fatalf("updated_at = %v", st.UpdatedAt)
	}
}

func TestMonitoringService_InvalidRangeHidden(t *testing.T) {
	snap := status.Snapshot{Run: run.Snapshot{LastRange: &codec.Range{}}}
	st, err := NewMonitoringService(fixedState{snap}, nil, nil).GetState(context.Background())
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if st.RangeCm != nil || st.RangeYards != nil {
		t.Fatalf("no-reading range must be omitted: %+v", st)
	}
}

func TestMonitoringService_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMonitoringService(fixedState{}, nil, nil).GetState(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}
