package models

import "time"

// BeaconState is the live view served over HTTP and the websocket.
type BeaconState struct {
	LinkState string   `json:"link_state"`
	Connected bool     `json:"connected"`
	Address   string   `json:"address,omitempty"`
	MTU       int      `json:"mtu,omitempty"`
	Channels  []string `json:"channels,omitempty"`
	Laser     *bool    `json:"laser,omitempty"`
	Auto      *bool    `json:"auto,omitempty"`

	RangeCm    *int     `json:"range_cm,omitempty"`
	RangeYards *float64 `json:"range_yards,omitempty"`

	RunActive    bool     `json:"run_active"`
	RunPhase     string   `json:"run_phase"`
	RunID        uint64   `json:"run_id"`
	ElapsedMs    int64    `json:"elapsed_ms"`
	LastSprintMs *int64   `json:"last_sprint_ms,omitempty"`
	LastMPH      *float64 `json:"last_mph,omitempty"`
	RangeLocked  bool     `json:"range_locked"`
	LockedYards  *float64 `json:"locked_yards,omitempty"`

	SelectedRunner   string   `json:"selected_runner"`
	UseLidar         bool     `json:"use_lidar"`
	ManualRangeYards *float64 `json:"manual_range_yards,omitempty"`
	MQTTConnected    bool     `json:"mqtt_connected"`

	UpdatedAt time.Time `json:"updated_at"`
}
