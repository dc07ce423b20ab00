package service

import (
	"context"
	"sync"
	"time"

	"sprint_beacon/internal/codec"
	"sprint_beacon/internal/link"
	"sprint_beacon/internal/models"
	"sprint_beacon/internal/status"
)

// inlineExec runs fn on the calling goroutine.
type inlineExec struct{ err error }

func (e inlineExec) Do(_ context.Context, fn func()) error {
	if e.err != nil {
		return e.err
	}
	fn()
	return nil
}

type fakeController struct {
	state      link.State
	connectErr error
	sendOK     bool

	connected    []string
	disconnected int
	sent         []codec.Command
}

func (c *fakeController) Connect(address string) error {
	c.connected = append(c.connected, address)
	return c.connectErr
}

func (c *fakeController) Disconnect() { c.disconnected++ }

func (c *fakeController) Send(cmd codec.Command) bool {
	c.sent = append(c.sent, cmd)
	return c.sendOK
}

func (c *fakeController) State() link.State { return c.state }

type fakeEventRepo struct {
	mu        sync.Mutex
	appended  []models.BeaconEvent
	appendErr error

	gotFrom, gotTo time.Time
	gotType        string
	listed         []models.BeaconEvent
	listErr        error
}

func (f *fakeEventRepo) Append(_ context.Context, e models.BeaconEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, e)
	return f.appendErr
}

func (f *fakeEventRepo) List(_ context.Context, from, to time.Time, typ string) ([]models.BeaconEvent, error) {
	f.gotFrom, f.gotTo, f.gotType = from, to, typ
	return f.listed, f.listErr
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.appended))
	for i, e := range f.appended {
		out[i] = e.Type
	}
	return out
}

type fakeRunRepo struct {
	mu        sync.Mutex
	inserted  []models.RunRecord
	insertErr error

	gotFilter models.RunFilter
	runs      []models.RunRecord
	listErr   error
}

func (f *fakeRunRepo) Insert(_ context.Context, rec models.RunRecord) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.inserted = append(f.inserted, rec)
	return int64(len(f.inserted)), nil
}

func (f *fakeRunRepo) List(_ context.Context, flt models.RunFilter) ([]models.RunRecord, error) {
	f.gotFilter = flt
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := append([]models.RunRecord(nil), f.runs...)
	if flt.Limit > 0 && len(out) > flt.Limit {
		out = out[:flt.Limit]
	}
	return out, nil
}

type fakeRunnerRepo struct {
	added  []string
	addErr error
	list   []models.Runner
}

func (f *fakeRunnerRepo) Add(_ context.Context, name string) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, name)
	return nil
}

func (f *fakeRunnerRepo) List(context.Context) ([]models.Runner, error) { return f.list, nil }

type fakeSettingsRepo struct {
	stored  *models.BeaconSettings
	saved   []models.BeaconSettings
	saveErr error
	loadErr error
}

func (f *fakeSettingsRepo) Save(_ context.Context, s models.BeaconSettings) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, s)
	return nil
}

func (f *fakeSettingsRepo) Load(context.Context) (models.BeaconSettings, error) {
	if f.loadErr != nil {
		return models.BeaconSettings{}, f.loadErr
	}
	if f.stored == nil {
		return models.BeaconSettings{UseLidar: true, SelectedRunner: models.DefaultRunner}, nil
	}
	return *f.stored, nil
}

type fixedState struct{ snap status.Snapshot }

func (f fixedState) Snapshot() status.Snapshot { return f.snap }

func ptr[T any](v T) *T { return &v }
