package service

import "time"

// RangeParams selects where the run distance comes from.
type RangeParams struct {
	UseLidar bool
	// ManualYards nil keeps no manual fallback.
	ManualYards *float64
}

// LogFilter supports journal filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "LINK_LOST", "RUN_FINISHED", "COMMAND", ...
}

// RunQuery filters the run history.
type RunQuery struct {
	Runner   string // "" or "All" means every runner
	MinYards *float64
	MaxYards *float64
	From     *time.Time
	To       *time.Time
	// DateOnlyTo widens To to the end of its day.
	DateOnlyTo bool
	Limit      int
	// All keeps implausible runs.
	All bool
	// Top is the leaderboard size; zero means DefaultLeaderboardSize.
	Top int
	// SelectedOnly restricts the leaderboard to the selected runner.
	SelectedOnly bool
}
