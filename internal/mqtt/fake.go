package mqtt

import (
	"sync"

	"sprint_beacon/internal/models"
)

// FakePublisher records what would have been published.
type FakePublisher struct {
	mu sync.Mutex

	Runs     []models.RunRecord
	Events   []models.BeaconEvent
	Payloads [][]byte

	// PublishError, if set, is returned by every publish call.
	PublishError error
	Connected    bool
	Closed       bool
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{Connected: true}
}

func (f *FakePublisher) PublishRun(rec models.RunRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatRunPayload(rec)
	if err != nil {
		return err
	}
	f.Runs = append(f.Runs, rec)
	f.Payloads = append(f.Payloads, payload)
	return nil
}

func (f *FakePublisher) PublishEvent(ev models.BeaconEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatEventPayload(ev)
	if err != nil {
		return err
	}
	f.Events = append(f.Events, ev)
	f.Payloads = append(f.Payloads, payload)
	return nil
}

func (f *FakePublisher) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Connected
}

func (f *FakePublisher) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// RunCount and EventCount are safe to poll from tests while a writer runs.
func (f *FakePublisher) RunCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Runs)
}

func (f *FakePublisher) EventCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Events)
}
