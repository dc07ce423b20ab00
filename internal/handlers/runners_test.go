package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"sprint_beacon/internal/models"
	"sprint_beacon/internal/service"
)

func TestRunners(t *testing.T) {
	setup := &mockSetup{settings: models.BeaconSettings{UseLidar: true, SelectedRunner: models.DefaultRunner}}
	runners := &mockRunners{list: []models.Runner{{Name: "Ada"}, {Name: models.DefaultRunner}}}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, Setup: setup, Runners: runners})

	w := get(r, "/api/v1/runners")
	var list struct {
		Runners  []models.Runner `json:"runners"`
		Selected string          `json:"selected"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if w.Code != http.StatusOK || len(list.Runners) != 2 || list.Selected != models.DefaultRunner {
		t.Fatalf("status=%d list=%+v", w.Code, list)
	}

	if w = postJSON(r, "/api/v1/runners", `{"name":"Bo"}`, authHeader("valid")); w.Code != http.StatusCreated {
		t.Fatalf("add status=%d", w.Code)
	}
	if w = postJSON(r, "/api/v1/runners", `{}`, authHeader("valid")); w.Code != http.StatusBadRequest {
		t.Fatalf("add without name status=%d", w.Code)
	}

	w = put(r, "/api/v1/runners/selected", `{"name":"Bo"}`)
	if w.Code != http.StatusOK || setup.lastRunner != "Bo" {
		t.Fatalf("select status=%d runner=%q", w.Code, setup.lastRunner)
	}
}

func TestRunners_Errors(t *testing.T) {
	setup := &mockSetup{err: service.ErrInvalidRunner}
	runners := &mockRunners{err: errors.New("readonly")}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, Setup: setup, Runners: runners})

	if w := put(r, "/api/v1/runners/selected", `{"name":"All"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("select status=%d", w.Code)
	}
	if w := postJSON(r, "/api/v1/runners", `{"name":"Bo"}`, authHeader("valid")); w.Code != http.StatusInternalServerError {
		t.Fatalf("add status=%d", w.Code)
	}
	if w := get(r, "/api/v1/runners"); w.Code != http.StatusInternalServerError {
		t.Fatalf("list status=%d", w.Code)
	}
}
