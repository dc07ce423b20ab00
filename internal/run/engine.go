// Package run turns the beacon's have_start edges into runs. Every run gets
// a RunID when it starts; timers and late duration reports compare against
// it before they are allowed to touch run state, so a result from one sprint
// can never land on the next.
package run

import (
	"strings"
	"time"

	"sprint_beacon/internal/codec"
	"sprint_beacon/internal/logger"
	"sprint_beacon/internal/loop"
	"sprint_beacon/internal/models"
)

// DefaultGrace is how long finalize waits after a falling edge for a
// duration report that was already in flight.
const DefaultGrace = 250 * time.Millisecond

type Phase int

const (
	Idle Phase = iota
	Active
	Finalizing
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "IDLE"
	case Active:
		return "ACTIVE"
	case Finalizing:
		return "FINALIZING"
	default:
		return "UNKNOWN"
	}
}

// RangeProvider supplies the distance, in yards, to lock at run start.
type RangeProvider interface {
	CurrentRange() (float64, bool)
}

// SubjectProvider names the runner a finished run belongs to.
type SubjectProvider interface {
	SubjectIdentifier() string
}

// Persister takes finished runs. It is called on the loop and must not block.
type Persister interface {
	Persist(models.RunRecord)
}

type Config struct {
	Grace time.Duration
}

type pendingDuration struct {
	ms  uint32
	tag uint64
	ok  bool
}

// Engine must only be driven from the loop the scheduler belongs to.
type Engine struct {
	sched     loop.Scheduler
	ranges    RangeProvider
	subjects  SubjectProvider
	persister Persister
	grace     time.Duration
	log       *logger.Logger
	listeners []func(Change)

	phase     Phase
	runID     uint64
	haveStart bool
	startedAt time.Time
	pending   pendingDuration
	locked    *float64
	lastRange *codec.Range
	lastMs    *uint32
	lastMPH   *float64
}

func New(sched loop.Scheduler, ranges RangeProvider, subjects SubjectProvider, persister Persister, cfg Config, log *logger.Logger) *Engine {
	if cfg.Grace <= 0 {
		cfg.Grace = DefaultGrace
	}
	return &Engine{
		sched:     sched,
		ranges:    ranges,
		subjects:  subjects,
		persister: persister,
		grace:     cfg.Grace,
		log:       logger.OrNop(log),
	}
}

// Subscribe registers a listener called on the loop after every change.
// Register listeners before the loop starts.
func (e *Engine) Subscribe(fn func(Change)) {
	e.listeners = append(e.listeners, fn)
}

func (e *Engine) Phase() Phase { return e.phase }

func (e *Engine) RunID() uint64 { return e.runID }

// HandleStatus feeds one decoded status payload. A sprint_ms carried in the
// same payload is recorded before edges are evaluated, so a stale value on a
// rising-edge payload is cleared along with the rest of the previous run.
func (e *Engine) HandleStatus(s codec.Status) {
	if s.Range != nil {
		e.HandleRange(*s.Range)
	}
	if s.SprintMs > 0 {
		e.HandleDuration(s.SprintMs)
	}

	prev := e.haveStart
	e.haveStart = s.HaveStart
	switch {
	case !prev && s.HaveStart:
		e.start()
	case prev && !s.HaveStart:
		e.end()
	}
}

func (e *Engine) HandleRange(r codec.Range) {
	if e.lastRange != nil && *e.lastRange == r {
		return
	}
	e.lastRange = &r
	e.notify(ChangeRange, nil)
}

// HandleDuration records a duration report against the current run.
func (e *Engine) HandleDuration(ms uint32) {
	if ms == 0 {
		return
	}
	e.pending = pendingDuration{ms: ms, tag: e.runID, ok: true}
	e.log.Debugw("duration_reported", "run_id", e.runID, "sprint_ms", ms, "phase", e.phase.String())
}

// HandleLinkLost abandons any run in progress without finalizing it. A grace
// timer that is still pending finds the engine Idle and does nothing.
func (e *Engine) HandleLinkLost() {
	e.haveStart = false
	e.lastRange = nil
	if e.phase == Idle {
		e.locked = nil
		e.notify(ChangeRange, nil)
		return
	}
	e.log.Infow("run_abandoned", "run_id", e.runID, "phase", e.phase.String())
	e.phase = Idle
	e.locked = nil
	e.startedAt = time.Time{}
	e.notify(ChangeAbandoned, nil)
}

func (e *Engine) start() {
	e.runID++
	e.pending = pendingDuration{}
	e.lastMs, e.lastMPH = nil, nil
	e.locked = nil
	if e.ranges != nil {
		if yards, ok := e.ranges.CurrentRange(); ok && yards > 0 {
			e.locked = &yards
		}
	}
	e.startedAt = e.sched.Now()
	e.phase = Active
	e.log.Infow("run_started", "run_id", e.runID, "locked_yards", e.locked)
	e.notify(ChangeStarted, nil)
}

func (e *Engine) end() {
	if e.phase != Active {
		return
	}
	thisRun := e.runID
	e.phase = Finalizing
	e.startedAt = time.Time{}
	e.sched.AfterFunc(e.grace, func() { e.finalize(thisRun) })
	e.log.Debugw("run_ended", "run_id", thisRun, "grace", e.grace)
	e.notify(ChangeEnded, nil)
}

func (e *Engine) finalize(thisRun uint64) {
	if e.runID != thisRun || e.phase != Finalizing {
		e.log.Debugw("stale_finalize_ignored", "run_id", thisRun, "current_run_id", e.runID)
		return
	}

	var ms uint32
	if e.pending.ok && e.pending.tag == thisRun {
		ms = e.pending.ms
		e.lastMs = &ms
	}
	e.pending = pendingDuration{}

	var (
		mph   float64
		ok    bool
		yards float64
	)
	if e.locked != nil && ms > 0 {
		yards = *e.locked
		mph, ok = codec.SpeedMPH(yards, time.Duration(ms)*time.Millisecond)
	}
	e.locked = nil
	e.phase = Idle

	if !ok {
		e.log.Infow("run_incomplete", "run_id", thisRun, "sprint_ms", ms)
		e.notify(ChangeIncomplete, nil)
		return
	}
	e.lastMPH = &mph

	rec := models.RunRecord{
		Runner:     e.subject(),
		SprintMs:   int64(ms),
		RangeYards: yards,
		MPH:        mph,
		RecordedAt: e.sched.Now().UTC(),
	}
	e.log.Infow("run_finalized", "run_id", thisRun, "runner", rec.Runner, "sprint_ms", ms, "yards", yards, "mph", mph)
	if e.persister != nil {
		e.persister.Persist(rec)
	}
	e.notify(ChangeFinalized, &rec)
}

func (e *Engine) subject() string {
	if e.subjects == nil {
		return models.DefaultRunner
	}
	if name := strings.TrimSpace(e.subjects.SubjectIdentifier()); name != "" {
		return name
	}
	return models.DefaultRunner
}

func (e *Engine) notify(kind ChangeKind, rec *models.RunRecord) {
	if len(e.listeners) == 0 {
		return
	}
	ch := Change{Kind: kind, RunID: e.runID, Snapshot: e.Snapshot(), Record: rec}
	for _, fn := range e.listeners {
		fn(ch)
	}
}
