package run

import (
	"time"

	"sprint_beacon/internal/codec"
	"sprint_beacon/internal/models"
)

type ChangeKind int

const (
	ChangeRange ChangeKind = iota
	ChangeStarted
	ChangeEnded
	ChangeFinalized
	ChangeIncomplete
	ChangeAbandoned
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeRange:
		return "range"
	case ChangeStarted:
		return "started"
	case ChangeEnded:
		return "ended"
	case ChangeFinalized:
		return "finalized"
	case ChangeIncomplete:
		return "incomplete"
	case ChangeAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Change is delivered to listeners after the engine has moved.
type Change struct {
	Kind     ChangeKind
	RunID    uint64
	Snapshot Snapshot
	// Record is set for ChangeFinalized only.
	Record *models.RunRecord
}

// Snapshot is a copy of the engine's observable state. It is safe to keep
// and read from any goroutine.
type Snapshot struct {
	Phase     Phase
	RunID     uint64
	StartedAt time.Time
	// LastRange is nil until the beacon reports a range.
	LastRange    *codec.Range
	LastSprintMs *uint32
	LastMPH      *float64
	LockedYards  *float64
}

// RunActive is true between a rising and a falling edge.
func (s Snapshot) RunActive() bool { return s.Phase == Active }

func (s Snapshot) RangeLocked() bool { return s.LockedYards != nil }

// Elapsed is the live run time at now; zero unless a run is active.
func (s Snapshot) Elapsed(now time.Time) time.Duration {
	if s.Phase != Active || s.StartedAt.IsZero() {
		return 0
	}
	if d := now.Sub(s.StartedAt); d > 0 {
		return d
	}
	return 0
}

func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Phase:     e.phase,
		RunID:     e.runID,
		StartedAt: e.startedAt,
	}
	if e.lastRange != nil {
		r := *e.lastRange
		s.LastRange = &r
	}
	if e.lastMs != nil {
		v := *e.lastMs
		s.LastSprintMs = &v
	}
	if e.lastMPH != nil {
		v := *e.lastMPH
		s.LastMPH = &v
	}
	if e.locked != nil {
		v := *e.locked
		s.LockedYards = &v
	}
	return s
}
