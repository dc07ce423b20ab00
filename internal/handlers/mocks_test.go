package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"sprint_beacon/internal/models"
	"sprint_beacon/internal/service"
)

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastGenUsername    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, _ string) (int, error) {
	m.lastSignUpUsername = username
	return m.signUpID, m.signUpErr
}

func (m *mockAuth) GenerateToken(_ context.Context, username, _ string) (string, error) {
	m.lastGenUsername = username
	return m.genTokenToken, m.genTokenErr
}

func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockBeacon struct {
	err error

	lastAddress string
	calls       []string
}

func (m *mockBeacon) Connect(_ context.Context, address string) error {
	m.lastAddress = address
	m.calls = append(m.calls, "connect")
	return m.err
}

func (m *mockBeacon) Disconnect(context.Context) error {
	m.calls = append(m.calls, "disconnect")
	return m.err
}

func (m *mockBeacon) Arm(context.Context) error {
	m.calls = append(m.calls, "arm")
	return m.err
}

func (m *mockBeacon) SetLaser(_ context.Context, on bool) error {
	m.calls = append(m.calls, map[bool]string{true: "laser_on", false: "laser_off"}[on])
	return m.err
}

func (m *mockBeacon) SetAuto(_ context.Context, on bool) error {
	m.calls = append(m.calls, map[bool]string{true: "auto_on", false: "auto_off"}[on])
	return m.err
}

type mockMonitoring struct {
	state models.BeaconState
	err   error
}

func (m *mockMonitoring) GetState(context.Context) (models.BeaconState, error) {
	return m.state, m.err
}

type mockSetup struct {
	settings models.BeaconSettings
	err      error

	lastRange  service.RangeParams
	lastRunner string
}

func (m *mockSetup) Settings() models.BeaconSettings { return m.settings }

func (m *mockSetup) SetRange(_ context.Context, p service.RangeParams) (models.BeaconSettings, error) {
	m.lastRange = p
	if m.err != nil {
		return models.BeaconSettings{}, m.err
	}
	m.settings.UseLidar, m.settings.ManualRangeYards = p.UseLidar, p.ManualYards
	return m.settings, nil
}

func (m *mockSetup) SelectRunner(_ context.Context, name string) (models.BeaconSettings, error) {
	m.lastRunner = name
	if m.err != nil {
		return models.BeaconSettings{}, m.err
	}
	m.settings.SelectedRunner = name
	return m.settings, nil
}

type mockRunners struct {
	list []models.Runner
	err  error
}

func (m *mockRunners) List(context.Context) ([]models.Runner, error) { return m.list, m.err }

func (m *mockRunners) Add(_ context.Context, name string) (models.Runner, error) {
	if m.err != nil {
		return models.Runner{}, m.err
	}
	return models.Runner{Name: name}, nil
}

type mockRunLog struct {
	runs  []models.RunRecord
	stats models.RunStats
	err   error

	lastQuery service.RunQuery
}

func (m *mockRunLog) List(_ context.Context, q service.RunQuery) ([]models.RunRecord, error) {
	m.lastQuery = q
	return m.runs, m.err
}

func (m *mockRunLog) Stats(_ context.Context, q service.RunQuery) (models.RunStats, error) {
	m.lastQuery = q
	return m.stats, m.err
}

type mockEventLog struct {
	resp   []models.BeaconEvent
	err    error
	last   service.LogFilter
	called bool
}

func (m *mockEventLog) List(_ context.Context, f service.LogFilter) ([]models.BeaconEvent, error) {
	m.called = true
	m.last = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewHandler(s, nil).InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
