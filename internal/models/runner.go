package models

import "time"

// DefaultRunner is used whenever no runner is selected.
const DefaultRunner = "Unassigned"

type Runner struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// BeaconSettings is the single persisted settings row.
type BeaconSettings struct {
	ID               int      `json:"-"`
	UseLidar         bool     `json:"use_lidar"`
	ManualRangeYards *float64 `json:"manual_range_yards,omitempty"`
	SelectedRunner   string   `json:"selected_runner"`
}
