// Package mqtt publishes finished runs and journal events to a broker.
package mqtt

import (
	"encoding/json"
	"strings"
	"time"

	"sprint_beacon/internal/models"
)

const DefaultTopicPrefix = "sprint/beacon"

// Publisher publishes to MQTT. Errors never stop the caller.
type Publisher interface {
	PublishRun(rec models.RunRecord) error
	PublishEvent(ev models.BeaconEvent) error
	IsConnected() bool
	Close() error
}

// Topics derives the run and event topics from a prefix.
type Topics struct {
	Runs   string
	Events string
}

func NewTopics(prefix string) Topics {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{Runs: prefix + "/runs", Events: prefix + "/events"}
}

// RunPayload is the message body for a finished run.
type RunPayload struct {
	Run RunInner `json:"run"`
}

type RunInner struct {
	Timestamp  string  `json:"timestamp"`
	Runner     string  `json:"runner"`
	SprintMs   int64   `json:"sprint_ms"`
	RangeYards float64 `json:"range_yards"`
	MPH        float64 `json:"mph"`
}

func FormatRunPayload(rec models.RunRecord) ([]byte, error) {
	return json.Marshal(RunPayload{Run: RunInner{
		Timestamp:  rec.RecordedAt.UTC().Format(time.RFC3339Nano),
		Runner:     rec.Runner,
		SprintMs:   rec.SprintMs,
		RangeYards: rec.RangeYards,
		MPH:        rec.MPH,
	}})
}

// EventPayload is the message body for a journal event.
type EventPayload struct {
	Event EventInner `json:"event"`
}

type EventInner struct {
	ID          string `json:"id"`
	Timestamp   string `json:"timestamp"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Metadata    any    `json:"metadata,omitempty"`
}

func FormatEventPayload(ev models.BeaconEvent) ([]byte, error) {
	return json.Marshal(EventPayload{Event: EventInner{
		ID:          ev.EventID,
		Timestamp:   ev.OccurredAt.UTC().Format(time.RFC3339Nano),
		Type:        ev.Type,
		Description: ev.Description,
		Metadata:    ev.Metadata,
	}})
}
