package link

import "testing"

type enableRecorder struct {
	refuse  map[ChannelKind]bool
	issued  []ChannelKind
	drained int
}

func (r *enableRecorder) enable(k ChannelKind) bool {
	if r.refuse[k] {
		return false
	}
	r.issued = append(r.issued, k)
	return true
}

func newRecordedSequencer() (*Sequencer, *enableRecorder) {
	r := &enableRecorder{refuse: map[ChannelKind]bool{}}
	return NewSequencer(r.enable, func() { r.drained++ }), r
}

func notifiable(kinds ...ChannelKind) []Channel {
	out := make([]Channel, len(kinds))
	for i, k := range kinds {
		out[i] = Channel{Kind: k, Props: PropRead | PropNotify}
	}
	return out
}

func TestSequencer_OneInFlightAtATime(t *testing.T) {
	s, r := newRecordedSequencer()
	s.Start(notifiable(ChannelStatus, ChannelRange, ChannelDuration))

	if len(r.issued) != 1 || r.issued[0] != ChannelStatus {
		t.Fatalf("expected only status enabled first, got %v", r.issued)
	}

	s.Completed(ChannelStatus)
	if len(r.issued) != 2 || r.issued[1] != ChannelRange {
		t.Fatalf("expected range next, got %v", r.issued)
	}
	if r.drained != 0 {
		t.Fatalf("drained too early")
	}

	s.Completed(ChannelRange)
	s.Completed(ChannelDuration)
	if r.drained != 1 {
		t.Fatalf("expected drained once, got %d", r.drained)
	}
	if len(s.Pending()) != 0 || s.Active() {
		t.Fatalf("expected empty inactive sequencer, pending=%v", s.Pending())
	}
}

func TestSequencer_SkipsChannelsWithoutNotifyOrRefused(t *testing.T) {
	s, r := newRecordedSequencer()
	r.refuse[ChannelRange] = true

	chans := []Channel{
		{Kind: ChannelStatus, Props: PropRead},
		{Kind: ChannelRange, Props: PropRead | PropNotify},
		{Kind: ChannelDuration, Props: PropRead | PropNotify},
	}
	s.Start(chans)

	if len(r.issued) != 1 || r.issued[0] != ChannelDuration {
		t.Fatalf("expected straight to duration, got %v", r.issued)
	}
	s.Completed(ChannelDuration)
	if r.drained != 1 {
		t.Fatalf("expected drained, got %d", r.drained)
	}
}

func TestSequencer_AllRefusedDrainsImmediately(t *testing.T) {
	s, r := newRecordedSequencer()
	r.refuse[ChannelStatus] = true
	r.refuse[ChannelRange] = true
	s.Start(notifiable(ChannelStatus, ChannelRange))
	if r.drained != 1 {
		t.Fatalf("expected immediate drain, got %d", r.drained)
	}

	s2, r2 := newRecordedSequencer()
	s2.Start(nil)
	if r2.drained != 1 {
		t.Fatalf("empty start must drain, got %d", r2.drained)
	}
}

func TestSequencer_CompletionForOtherChannelKeepsHead(t *testing.T) {
	s, r := newRecordedSequencer()
	s.Start(notifiable(ChannelStatus, ChannelRange))

	// a stray completion re-issues the head rather than skipping it
	s.Completed(ChannelDuration)
	if got := s.Pending(); len(got) != 2 || got[0] != ChannelStatus {
		t.Fatalf("head must stay, pending=%v", got)
	}
	if len(r.issued) != 2 || r.issued[1] != ChannelStatus {
		t.Fatalf("expected status re-issued, got %v", r.issued)
	}
}

func TestSequencer_IgnoresCompletionsAfterDrainOrReset(t *testing.T) {
	s, r := newRecordedSequencer()
	s.Start(notifiable(ChannelStatus))
	s.Completed(ChannelStatus)
	s.Completed(ChannelStatus)
	if r.drained != 1 {
		t.Fatalf("late completion re-drained: %d", r.drained)
	}

	s.Start(notifiable(ChannelStatus, ChannelRange))
	s.Reset()
	s.Completed(ChannelStatus)
	if len(r.issued) != 2 || r.drained != 1 {
		t.Fatalf("completion after reset acted: issued=%v drained=%d", r.issued, r.drained)
	}
}
