// Package codec decodes and encodes the beacon's wire payloads: the JSON
// status object, the little-endian range and duration values, and the JSON
// control command.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// NoReading is the range sensor's "nothing in view" sentinel.
const NoReading = 0xFFFF

var errNotObject = errors.New("status payload is not a JSON object")

// Range is a distance reading in centimetres. Valid is false when the
// sensor reported NoReading.
type Range struct {
	Cm    uint16
	Valid bool
}

// Yards converts the reading for display and range locking.
func (r Range) Yards() (float64, bool) {
	if !r.Valid {
		return 0, false
	}
	return CmToYards(r.Cm), true
}

// Status is a decoded status notification.
type Status struct {
	HaveStart bool
	// Range is nil when the payload carried no lidar_cm key; callers keep
	// their previous value in that case.
	Range *Range
	// SprintMs is 0 when absent.
	SprintMs uint32

	// Diagnostics, not interpreted by the run engine.
	Laser  *bool
	Auto   *bool
	Uptime *uint64
}

type wireStatus struct {
	HaveStart *bool    `json:"have_start,omitempty"`
	LidarCm   *float64 `json:"lidar_cm,omitempty"`
	SprintMs  *float64 `json:"sprint_ms,omitempty"`
	Laser     *bool    `json:"laser,omitempty"`
	Auto      *bool    `json:"auto,omitempty"`
	Uptime    *float64 `json:"uptime,omitempty"`
}

// DecodeStatus parses a status payload. Any error leaves the caller's state
// untouched; the error exists for diagnostics only.
func DecodeStatus(b []byte) (Status, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Status{}, errNotObject
	}
	var w wireStatus
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return Status{}, fmt.Errorf("decode status: %w", err)
	}

	var s Status
	if w.HaveStart != nil {
		s.HaveStart = *w.HaveStart
	}
	if w.LidarCm != nil {
		r := rangeFromCm(*w.LidarCm)
		s.Range = &r
	}
	if w.SprintMs != nil && *w.SprintMs > 0 && *w.SprintMs <= math.MaxUint32 {
		s.SprintMs = uint32(*w.SprintMs)
	}
	s.Laser = w.Laser
	s.Auto = w.Auto
	if w.Uptime != nil && *w.Uptime >= 0 {
		u := uint64(*w.Uptime)
		s.Uptime = &u
	}
	return s, nil
}

func rangeFromCm(v float64) Range {
	if v < 0 || v >= NoReading {
		return Range{}
	}
	return Range{Cm: uint16(v), Valid: true}
}

// EncodeStatus renders a status object the way the beacon firmware does.
// A nil Range omits lidar_cm; an invalid Range encodes the sentinel.
func EncodeStatus(s Status) []byte {
	hs := s.HaveStart
	w := wireStatus{HaveStart: &hs, Laser: s.Laser, Auto: s.Auto}
	if s.Range != nil {
		cm := float64(NoReading)
		if s.Range.Valid {
			cm = float64(s.Range.Cm)
		}
		w.LidarCm = &cm
	}
	if s.SprintMs > 0 {
		ms := float64(s.SprintMs)
		w.SprintMs = &ms
	}
	if s.Uptime != nil {
		u := float64(*s.Uptime)
		w.Uptime = &u
	}
	b, _ := json.Marshal(w)
	return b
}
