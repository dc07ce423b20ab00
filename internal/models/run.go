package models

import "time"

// RunRecord is one finished sprint.
type RunRecord struct {
	ID         int64     `json:"id"`
	Runner     string    `json:"runner"`
	SprintMs   int64     `json:"sprint_ms"`
	RangeYards float64   `json:"range_yards"`
	MPH        float64   `json:"mph"`
	RecordedAt time.Time `json:"recorded_at"`
}

// RunFilter narrows the run history. Zero values mean "no constraint".
type RunFilter struct {
	Runner   string
	MinYards *float64
	MaxYards *float64
	From     *time.Time
	To       *time.Time
	Limit    int
}

// Outlier bounds for history and stats.
const (
	SaneMinYards = 5.0
	SaneMaxYards = 120.0
	SaneMinMs    = 500
	SaneMaxMs    = 30000
	SaneMinMPH   = 2.0
	SaneMaxMPH   = 30.0
)

// Plausible reports whether r survives the outlier filter.
func (r RunRecord) Plausible() bool {
	return r.RangeYards >= SaneMinYards && r.RangeYards <= SaneMaxYards &&
		r.SprintMs >= SaneMinMs && r.SprintMs <= SaneMaxMs &&
		r.MPH >= SaneMinMPH && r.MPH <= SaneMaxMPH
}

type SpeedBin struct {
	FromMPH float64 `json:"from_mph"`
	ToMPH   float64 `json:"to_mph"`
	Count   int     `json:"count"`
}

type Consistency struct {
	Runner  string  `json:"runner"`
	Runs    int     `json:"runs"`
	MeanMPH float64 `json:"mean_mph"`
	StdDev  float64 `json:"std_dev"`
}

type SpeedPoint struct {
	At  time.Time `json:"at"`
	MPH float64   `json:"mph"`
}

// RunStats is computed over a filtered run set.
type RunStats struct {
	Total        int                     `json:"total"`
	Leaderboard  []RunRecord             `json:"leaderboard"`
	Distribution map[string][]SpeedBin   `json:"distribution"`
	Consistency  []Consistency           `json:"consistency"`
	Series       map[string][]SpeedPoint `json:"series"`
}
