// Package status keeps a goroutine-safe copy of link and run state for
// readers outside the event loop.
package status

import (
	"sync"
	"time"

	"sprint_beacon/internal/link"
	"sprint_beacon/internal/run"
)

// Snapshot is a point-in-time copy of the tracker.
type Snapshot struct {
	Link      link.Status
	Run       run.Snapshot
	UpdatedAt time.Time
}

// Tracker is written from the loop and read from HTTP handlers.
type Tracker struct {
	mu        sync.RWMutex
	link      link.Status
	run       run.Snapshot
	updatedAt time.Time
	now       func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// LinkChanged implements link.Observer.
func (t *Tracker) LinkChanged(s link.Status) {
	t.mu.Lock()
	s.Channels = append([]link.ChannelKind(nil), s.Channels...)
	t.link = s
	t.updatedAt = t.now()
	t.mu.Unlock()
}

// RunChanged is registered with run.Engine.Subscribe.
func (t *Tracker) RunChanged(c run.Change) {
	t.mu.Lock()
	t.run = c.Snapshot
	t.updatedAt = t.now()
	t.mu.Unlock()
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s := Snapshot{Link: t.link, Run: t.run, UpdatedAt: t.updatedAt}
	s.Link.Channels = append([]link.ChannelKind(nil), t.link.Channels...)
	return s
}

// Ready reports whether commands can be sent.
func (t *Tracker) Ready() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.link.State == link.Ready
}
