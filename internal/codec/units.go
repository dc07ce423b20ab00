package codec

import "time"

const (
	cmPerYard      = 91.44
	yardsPerMile   = 1760.0
	secondsPerHour = 3600.0
)

// CmToYards converts a range reading to yards.
func CmToYards(cm uint16) float64 {
	return float64(cm) / cmPerYard
}

// SpeedMPH derives miles per hour from a distance in yards and an elapsed
// duration. ok is false when either input is not positive.
func SpeedMPH(yards float64, d time.Duration) (mph float64, ok bool) {
	if yards <= 0 || d <= 0 {
		return 0, false
	}
	return yards * secondsPerHour / (yardsPerMile * d.Seconds()), true
}
