package service

import (
	"math"
	"sort"

	"sprint_beacon/internal/models"
)

const (
	DefaultLeaderboardSize = 10
	binWidthMPH            = 2.0
	binCeilingMPH          = 30.0
)

func computeStats(runs []models.RunRecord, top int, selected string) models.RunStats {
	if top <= 0 {
		top = DefaultLeaderboardSize
	}
	st := models.RunStats{
		Total:        len(runs),
		Leaderboard:  leaderboard(runs, top, selected),
		Distribution: map[string][]models.SpeedBin{},
		Consistency:  []models.Consistency{},
		Series:       map[string][]models.SpeedPoint{},
	}

	byRunner := map[string][]models.RunRecord{}
	for _, r := range runs {
		byRunner[r.Runner] = append(byRunner[r.Runner], r)
	}
	names := make([]string, 0, len(byRunner))
	for name := range byRunner {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rs := byRunner[name]
		st.Distribution[name] = speedBins(rs)
		st.Consistency = append(st.Consistency, consistency(name, rs))
		st.Series[name] = series(rs)
	}
	return st
}

// leaderboard is the fastest top runs, ties broken by who ran first.
func leaderboard(runs []models.RunRecord, top int, selected string) []models.RunRecord {
	out := make([]models.RunRecord, 0, len(runs))
	for _, r := range runs {
		if selected == "" || r.Runner == selected {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SprintMs != out[j].SprintMs {
			return out[i].SprintMs < out[j].SprintMs
		}
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})
	if len(out) > top {
		out = out[:top]
	}
	return out
}

// speedBins counts runs in 2 mph bins from 0 to 30; faster runs land in the last bin.
func speedBins(runs []models.RunRecord) []models.SpeedBin {
	n := int(binCeilingMPH / binWidthMPH)
	bins := make([]models.SpeedBin, n)
	for i := range bins {
		bins[i].FromMPH = float64(i) * binWidthMPH
		bins[i].ToMPH = float64(i+1) * binWidthMPH
	}
	for _, r := range runs {
		if r.MPH < 0 || math.IsNaN(r.MPH) {
			continue
		}
		i := int(r.MPH / binWidthMPH)
		if i >= n {
			i = n - 1
		}
		bins[i].Count++
	}
	return bins
}

// consistency uses the population standard deviation.
func consistency(runner string, runs []models.RunRecord) models.Consistency {
	c := models.Consistency{Runner: runner, Runs: len(runs)}
	if len(runs) == 0 {
		return c
	}
	var sum float64
	for _, r := range runs {
		sum += r.MPH
	}
	c.MeanMPH = sum / float64(len(runs))
	var sq float64
	for _, r := range runs {
		d := r.MPH - c.MeanMPH
		sq += d * d
	}
	c.StdDev = math.Sqrt(sq / float64(len(runs)))
	return c
}

// series is oldest first.
func series(runs []models.RunRecord) []models.SpeedPoint {
	pts := make([]models.SpeedPoint, len(runs))
	for i, r := range runs {
		pts[i] = models.SpeedPoint{At: r.RecordedAt, MPH: r.MPH}
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].At.Before(pts[j].At) })
	return pts
}
