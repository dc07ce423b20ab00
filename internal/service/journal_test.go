package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"sprint_beacon/internal/codec"
	"sprint_beacon/internal/link"
	"sprint_beacon/internal/models"
	"sprint_beacon/internal/mqtt"
	"sprint_beacon/internal/run"
)

func drain(j *Journal) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	j.Run(ctx)
}

func TestJournal_LinkTransitions(t *testing.T) {
	repo := &fakeEventRepo{}
	pub := mqtt.NewFakePublisher()
	j := NewJournal(repo, pub, nil)

	for _, s := range []link.Status{
		{State: link.Connecting, Address: "AA"},
		{State: link.NegotiatingParameters, Connected: true, Address: "AA"},
		{State: link.DiscoveringChannels, Connected: true, Address: "AA"},
		{State: link.SubscribingNotifications, Connected: true, Address: "AA"},
		{State: link.Ready, Connected: true, Address: "AA", MTU: 185, Channels: []link.ChannelKind{link.ChannelStatus}},
		{State: link.Ready, Connected: true, Address: "AA", MTU: 185},
		{State: link.Disconnected},
	} {
		j.LinkChanged(s)
	}
	drain(j)

	want := []string{models.EventLinkConnecting, models.EventLinkUp, models.EventLinkReady, models.EventLinkLost}
	if got := repo.types(); !reflect.DeepEqual(got, want) {
		t.Fatalf("journal = %v, want %v", got, want)
	}
	if pub.EventCount() != len(want) {
		t.Fatalf("published %d events", pub.EventCount())
	}
	lost := repo.appended[3].Metadata.(map[string]any)
	if lost["address"] != "AA" || lost["last_state"] != link.Ready.String() {
		t.Fatalf("unexpected LINK_LOST metadata %v", lost)
	}
	if repo.appended[0].EventID == "" || repo.appended[0].OccurredAt.IsZero() {
		t.Fatalf("event id and time must be set")
	}
}

func TestJournal_RunChanges(t *testing.T) {
	repo := &fakeEventRepo{}
	j := NewJournal(repo, nil, nil)
	rec := &models.RunRecord{Runner: "Ada", SprintMs: 5000, RangeYards: 50, MPH: 20.45}

	for _, c := range []run.Change{
		{Kind: run.ChangeRange, Snapshot: run.Snapshot{LastRange: &codec.Range{Cm: 100, Valid: true}}},
		{Kind: run.ChangeStarted, RunID: 1},
		{Kind: run.ChangeEnded, RunID: 1},
		{Kind: run.ChangeFinalized, RunID: 1, Record: rec},
		{Kind: run.ChangeStarted, RunID: 2},
		{Kind: run.ChangeEnded, RunID: 2},
		{Kind: run.ChangeIncomplete, RunID: 2},
		{Kind: run.ChangeStarted, RunID: 3},
		{Kind: run.ChangeAbandoned, RunID: 3},
	} {
		j.RunChanged(c)
	}
	drain(j)

	want := []string{
		models.EventRunStarted, models.EventRunEnded, models.EventRunFinished,
		models.EventRunStarted, models.EventRunEnded, models.EventRunIncomplete,
		models.EventRunStarted, models.EventRunAbandoned,
	}
	if got := repo.types(); !reflect.DeepEqual(got, want) {
		t.Fatalf("journal = %v, want %v", got, want)
	}
	meta := repo.appended[2].Metadata.(map[string]any)
	if meta["runner"] != "Ada" || meta["sprint_ms"] != int64(5000) {
		t.Fatalf("unexpected RUN_FINISHED metadata %v", meta)
	}
}

func TestJournal_WriteErrorsDoNotStop(t *testing.T) {
	repo := &fakeEventRepo{appendErr: errors.New("disk full")}
	pub := mqtt.NewFakePublisher()
	j := NewJournal(repo, pub, nil)
	j.Record(models.EventCommand, "a", nil)
	j.Record(models.EventCommand, "b", nil)
	drain(j)
	if len(repo.types()) != 2 || pub.EventCount() != 2 {
		t.Fatalf("expected both events attempted, repo=%d pub=%d", len(repo.types()), pub.EventCount())
	}
}

func TestJournal_FullQueueDrops(t *testing.T) {
	repo := &fakeEventRepo{}
	j := NewJournal(repo, nil, nil)
	for i := 0; i < journalQueueSize+5; i++ {
		j.Record(models.EventCommand, "x", nil)
	}
	drain(j)
	if n := len(repo.types()); n != journalQueueSize {
		t.Fatalf("wrote %d events, want %d", n, journalQueueSize)
	}
}

func TestJournal_NilRecordIsNoop(t *testing.T) {
	var j *Journal
	j.Record(models.EventCommand, "ignored", nil)
}
