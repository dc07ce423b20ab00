package service

import (
	"context"
	"sync"
	"time"

	"sprint_beacon/internal/logger"
	"sprint_beacon/internal/models"
	"sprint_beacon/internal/mqtt"
	"sprint_beacon/internal/repository"
)

const persistTimeout = 5 * time.Second

// RunRecorder implements run.Persister. The engine calls Persist on the
// loop, so storage and publishing happen on their own goroutine.
type RunRecorder struct {
	repo repository.RunRepo
	pub  mqtt.Publisher
	log  *logger.Logger
	wg   sync.WaitGroup
}

// NewRunRecorder returns a recorder; pub may be nil.
func NewRunRecorder(repo repository.RunRepo, pub mqtt.Publisher, log *logger.Logger) *RunRecorder {
	return &RunRecorder{repo: repo, pub: pub, log: logger.OrNop(log).Named("recorder")}
}

func (r *RunRecorder) Persist(rec models.RunRecord) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.store(rec)
	}()
}

// Wait blocks until every accepted run has been handled.
func (r *RunRecorder) Wait() { r.wg.Wait() }

func (r *RunRecorder) store(rec models.RunRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	id, err := r.repo.Insert(ctx, rec)
	if err != nil {
		r.log.Errorw("persist_run_failed", "runner", rec.Runner, "sprint_ms", rec.SprintMs, "err", err)
	} else {
		rec.ID = id
		r.log.Infow("run_persisted", "id", id, "runner", rec.Runner, "mph", rec.MPH)
	}
	if r.pub == nil {
		return
	}
	if err := r.pub.PublishRun(rec); err != nil {
		r.log.Warnw("publish_run_failed", "runner", rec.Runner, "err", err)
	}
}
