package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"sprint_beacon/internal/models"
)

func TestEventLogService_List(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	from := time.Date(2026, 10, 18, 12, 0, 0, 0, loc)
	to := from.Add(time.Hour)

	tests := []struct {
		name     string
		f        LogFilter
		repoErr  error
		wantErr  bool
		wantType string
		called   bool
	}{
		{name: "normalizes", f: LogFilter{From: from, To: to, Type: "  run_finished "}, wantType: "RUN_FINISHED", called: true},
		{name: "open range", f: LogFilter{}, called: true},
		{name: "inverted range", f: LogFilter{From: to, To: from}, wantErr: true},
		{name: "repo error", f: LogFilter{}, repoErr: errors.New("down"), wantErr: true, called: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeEventRepo{listErr: tc.repoErr, listed: []models.BeaconEvent{{Type: models.EventRunFinished}}}
			repo.gotType = "unset"
			svc := NewEventLogService(repo)

			got, err := svc.List(context.Background(), tc.f)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
			} else if err != nil || len(got) != 1 {
				t.Fatalf("List = %v, %v", got, err)
			}
			if !tc.called {
				if repo.gotType != "unset" {
					t.Fatalf("repo must not be queried")
				}
				return
			}
			if repo.gotType != tc.wantType {
				t.Fatalf("type = %q, want %q", repo.gotType, tc.wantType)
			}
			if !tc.f.From.IsZero() && (repo.gotFrom.Location() != time.UTC || !repo.gotFrom.Equal(from)) {
				t.Fatalf("from = %v", repo.gotFrom)
			}
		})
	}
}
