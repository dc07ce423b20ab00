package service

import (
	"context"
	"errors"
	"testing"

	"sprint_beacon/internal/codec"
	"sprint_beacon/internal/models"
	"sprint_beacon/internal/run"
)

func TestSetupService_LoadSeedsDefaultRunner(t *testing.T) {
	runners := &fakeRunnerRepo{}
	settings := &fakeSettingsRepo{stored: &models.BeaconSettings{ID: 1, UseLidar: false, ManualRangeYards: ptr(40.0), SelectedRunner: "Ada"}}
	s := NewSetupService(settings, runners)

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(runners.added) != 1 || runners.added[0] != models.DefaultRunner {
		t.Fatalf("seeded %v", runners.added)
	}
	got := s.Settings()
	if got.UseLidar || got.SelectedRunner != "Ada" || *got.ManualRangeYards != 40 {
		t.Fatalf("settings = %+v", got)
	}
}

func TestSetupService_LoadError(t *testing.T) {
	s := NewSetupService(&fakeSettingsRepo{loadErr: errors.New("boom")}, &fakeRunnerRepo{})
	if err := s.Load(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func rangeChange(cm uint16, valid bool) run.Change {
	return run.Change{Kind: run.ChangeRange, Snapshot: run.Snapshot{LastRange: &codec.Range{Cm: cm, Valid: valid}}}
}

func TestSetupService_CurrentRange(t *testing.T) {
	tests := []struct {
		name      string
		useLidar  bool
		manual    *float64
		reading   *run.Change
		wantYards float64
		wantOK    bool
	}{
		{name: "nothing known", useLidar: true},
		{name: "lidar reading", useLidar: true, reading: ptr(rangeChange(4572, true)), wantYards: 50, wantOK: true},
		{name: "lidar falls back to manual", useLidar: true, manual: ptr(30.0), reading: ptr(rangeChange(0, false)), wantYards: 30, wantOK: true},
		{name: "manual ignores lidar", manual: ptr(25.0), reading: ptr(rangeChange(4572, true)), wantYards: 25, wantOK: true},
		{name: "manual unset", reading: ptr(rangeChange(4572, true))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSetupService(&fakeSettingsRepo{}, &fakeRunnerRepo{})
			if _, err := s.SetRange(context.Background(), RangeParams{UseLidar: tc.useLidar, ManualYards: tc.manual}); err != nil {
				t.Fatalf("SetRange: %v", err)
			}
			if tc.reading != nil {
				s.RunChanged(*tc.reading)
			}
			y, ok := s.CurrentRange()
			if ok != tc.wantOK || (ok && abs(y-tc.wantYards) > 1e-3) {
				t.Fatalf("CurrentRange = %v, %v; want %v, %v", y, ok, tc.wantYards, tc.wantOK)
			}
		})
	}
}

func TestSetupService_LinkLossClearsLidar(t *testing.T) {
	s := NewSetupService(&fakeSettingsRepo{}, &fakeRunnerRepo{})
	s.RunChanged(rangeChange(4572, true))
	s.RunChanged(run.Change{Kind: run.ChangeAbandoned})
	if _, ok := s.CurrentRange(); ok {
		t.Fatalf("range must be unknown after the reading is gone")
	}
}

func TestSetupService_SetRangeValidation(t *testing.T) {
	repo := &fakeSettingsRepo{}
	s := NewSetupService(repo, &fakeRunnerRepo{})
	for _, v := range []float64{0, -3} {
		if _, err := s.SetRange(context.Background(), RangeParams{ManualYards: ptr(v)}); !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("%v: expected ErrInvalidRange, got %v", v, err)
		}
	}
	if len(repo.saved) != 0 {
		t.Fatalf("invalid range saved")
	}
}

func TestSetupService_SaveFailureKeepsOldSettings(t *testing.T) {
	s := NewSetupService(&fakeSettingsRepo{saveErr: errors.New("readonly")}, &fakeRunnerRepo{})
	if _, err := s.SetRange(context.Background(), RangeParams{ManualYards: ptr(40.0)}); err == nil {
		t.Fatalf("expected error")
	}
	if got := s.Settings(); got.ManualRangeYards != nil || !got.UseLidar {
		t.Fatalf("settings changed despite failure: %+v", got)
	}
}

func TestSetupService_SelectRunner(t *testing.T) {
	runners := &fakeRunnerRepo{}
	settings := &fakeSettingsRepo{}
	s := NewSetupService(settings, runners)

	got, err := s.SelectRunner(context.Background(), "  Ada ")
	if err != nil {
		t.Fatalf("SelectRunner: %v", err)
	}
	if got.SelectedRunner != "Ada" || s.SubjectIdentifier() != "Ada" {
		t.Fatalf("selected = %q / %q", got.SelectedRunner, s.SubjectIdentifier())
	}
	if len(runners.added) != 1 || runners.added[0] != "Ada" {
		t.Fatalf("runner not created: %v", runners.added)
	}
	if len(settings.saved) != 1 || settings.saved[0].ID != 1 {
		t.Fatalf("saved %+v", settings.saved)
	}

	for _, bad := range []string{"", "   ", "All"} {
		if _, err := s.SelectRunner(context.Background(), bad); !errors.Is(err, ErrInvalidRunner) {
			t.Fatalf("%q: expected ErrInvalidRunner, got %v", bad, err)
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
