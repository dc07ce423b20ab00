package service

import (
	"errors"
	"testing"
	"time"

	"sprint_beacon/internal/models"
	"sprint_beacon/internal/mqtt"
)

func TestRunRecorder_StoresAndPublishes(t *testing.T) {
	repo := &fakeRunRepo{}
	pub := mqtt.NewFakePublisher()
	r := NewRunRecorder(repo, pub, nil)

	rec := models.RunRecord{Runner: "Ada", SprintMs: 5000, RangeYards: 50, MPH: 20.45, RecordedAt: time.Now()}
	r.Persist(rec)
	r.Persist(rec)
	r.Wait()

	if len(repo.inserted) != 2 {
		t.Fatalf("inserted %d runs", len(repo.inserted))
	}
	if pub.RunCount() != 2 {
		t.Fatalf("published %d runs", pub.RunCount())
	}
	for _, p := range pub.Runs {
		if p.ID == 0 {
			t.Fatalf("published run must carry its stored id")
		}
	}
}

func TestRunRecorder_PublishesWhenStoreFails(t *testing.T) {
	repo := &fakeRunRepo{insertErr: errors.New("locked")}
	pub := mqtt.NewFakePublisher()
	r := NewRunRecorder(repo, pub, nil)
	r.Persist(models.RunRecord{Runner: "Ada"})
	r.Wait()
	if pub.RunCount() != 1 {
		t.Fatalf("published %d runs", pub.RunCount())
	}
}

func TestRunRecorder_NoPublisher(t *testing.T) {
	repo := &fakeRunRepo{}
	r := NewRunRecorder(repo, nil, nil)
	r.Persist(models.RunRecord{Runner: "Ada"})
	r.Wait()
	if len(repo.inserted) != 1 {
		t.Fatalf("inserted %d runs", len(repo.inserted))
	}
}
