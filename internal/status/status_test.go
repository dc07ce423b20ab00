package status

import (
	"testing"
	"time"

	"sprint_beacon/internal/link"
	"sprint_beacon/internal/run"
)

func TestTracker_LinkAndRun(t *testing.T) {
	tr := NewTracker()
	at := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return at }

	if tr.Ready() {
		t.Fatalf("fresh tracker must not be ready")
	}

	chans := []link.ChannelKind{link.ChannelStatus, link.ChannelCommand}
	tr.LinkChanged(link.Status{State: link.Ready, Connected: true, Address: "AA", Channels: chans})
	chans[0] = link.ChannelRange

	yards := 40.0
	tr.RunChanged(run.Change{Kind: run.ChangeStarted, Snapshot: run.Snapshot{Phase: run.Active, RunID: 3, LockedYards: &yards}})

	snap := tr.Snapshot()
	if !tr.Ready() || snap.Link.Address != "AA" {
		t.Fatalf("unexpected link %+v", snap.Link)
	}
	if snap.Link.Channels[0] != link.ChannelStatus {
		t.Fatalf("tracker shares the caller's channel slice")
	}
	if snap.Run.RunID != 3 || !snap.Run.RunActive() || !snap.Run.RangeLocked() {
		t.Fatalf("unexpected run %+v", snap.Run)
	}
	if !snap.UpdatedAt.Equal(at) {
		t.Fatalf("updated at %v", snap.UpdatedAt)
	}
}
