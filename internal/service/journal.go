package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sprint_beacon/internal/link"
	"sprint_beacon/internal/logger"
	"sprint_beacon/internal/models"
	"sprint_beacon/internal/mqtt"
	"sprint_beacon/internal/repository"
	"sprint_beacon/internal/run"
)

const (
	journalQueueSize    = 256
	journalWriteTimeout = 3 * time.Second
)

// Journal turns link and run transitions into BeaconEvents and writes them
// off the loop. LinkChanged and RunChanged must be called from the loop;
// Record is safe from any goroutine.
type Journal struct {
	repo repository.EventRepo
	pub  mqtt.Publisher
	log  *logger.Logger
	now  func() time.Time

	events chan models.BeaconEvent

	// loop-owned
	prev link.Status
}

// NewJournal returns a journal; pub may be nil.
func NewJournal(repo repository.EventRepo, pub mqtt.Publisher, log *logger.Logger) *Journal {
	return &Journal{
		repo:   repo,
		pub:    pub,
		log:    logger.OrNop(log).Named("journal"),
		now:    time.Now,
		events: make(chan models.BeaconEvent, journalQueueSize),
	}
}

// Record queues an event. It never blocks; a full queue drops the event.
func (j *Journal) Record(typ, description string, meta any) {
	if j == nil {
		return
	}
	ev := models.BeaconEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  j.now().UTC(),
		Type:        typ,
		Description: description,
		Metadata:    meta,
	}
	select {
	case j.events <- ev:
	default:
		j.log.Warnw("journal_event_dropped", "type", typ)
	}
}

// LinkChanged implements link.Observer.
func (j *Journal) LinkChanged(s link.Status) {
	prev := j.prev
	j.prev = s

	if prev.State == link.Disconnected && s.State == link.Connecting {
		j.Record(models.EventLinkConnecting, "Connecting to "+s.Address, map[string]any{"address": s.Address})
	}
	if !prev.Connected && s.Connected {
		j.Record(models.EventLinkUp, "Link established", map[string]any{"address": s.Address})
	}
	if prev.State != link.Ready && s.State == link.Ready {
		channels := make([]string, 0, len(s.Channels))
		for _, c := range s.Channels {
			channels = append(channels, c.String())
		}
		j.Record(models.EventLinkReady, "Beacon ready", map[string]any{
			"address":  s.Address,
			"mtu":      s.MTU,
			"channels": channels,
		})
	}
	if prev.State != link.Disconnected && s.State == link.Disconnected {
		addr := s.Address
		if addr == "" {
			addr = prev.Address
		}
		j.Record(models.EventLinkLost, "Link closed", map[string]any{
			"address":    addr,
			"last_state": prev.State.String(),
		})
	}
}

// RunChanged is registered with run.Engine.Subscribe.
func (j *Journal) RunChanged(c run.Change) {
	switch c.Kind {
	case run.ChangeStarted:
		j.Record(models.EventRunStarted, "Run started", map[string]any{
			"run_id":       c.RunID,
			"locked_yards": c.Snapshot.LockedYards,
		})
	case run.ChangeEnded:
		j.Record(models.EventRunEnded, "Run ended, waiting for duration", map[string]any{"run_id": c.RunID})
	case run.ChangeFinalized:
		if c.Record == nil {
			return
		}
		j.Record(models.EventRunFinished, "Run recorded for "+c.Record.Runner, map[string]any{
			"run_id":      c.RunID,
			"runner":      c.Record.Runner,
			"sprint_ms":   c.Record.SprintMs,
			"range_yards": c.Record.RangeYards,
			"mph":         c.Record.MPH,
		})
	case run.ChangeIncomplete:
		j.Record(models.EventRunIncomplete, "Run finished without duration or range", map[string]any{
			"run_id":    c.RunID,
			"sprint_ms": c.Snapshot.LastSprintMs,
		})
	case run.ChangeAbandoned:
		j.Record(models.EventRunAbandoned, "Run abandoned after link loss", map[string]any{"run_id": c.RunID})
	}
}

// Run writes queued events until ctx is canceled, then flushes what is left.
func (j *Journal) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			j.flush()
			return
		case ev := <-j.events:
			j.write(ev)
		}
	}
}

func (j *Journal) flush() {
	for {
		select {
		case ev := <-j.events:
			j.write(ev)
		default:
			return
		}
	}
}

func (j *Journal) write(ev models.BeaconEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)
	defer cancel()
	if err := j.repo.Append(ctx, ev); err != nil {
		j.log.Errorw("journal_append_failed", "type", ev.Type, "err", err)
	}
	if j.pub != nil {
		if err := j.pub.PublishEvent(ev); err != nil {
			j.log.Debugw("journal_publish_failed", "type", ev.Type, "err", err)
		}
	}
}
