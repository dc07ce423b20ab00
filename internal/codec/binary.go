package codec

import (
	"encoding/binary"
	"errors"
)

var errShortRange = errors.New("range payload shorter than 2 bytes")

// DecodeRange reads the first two bytes as a little-endian centimetre value.
func DecodeRange(b []byte) (Range, error) {
	if len(b) < 2 {
		return Range{}, errShortRange
	}
	cm := binary.LittleEndian.Uint16(b[:2])
	if cm == NoReading {
		return Range{}, nil
	}
	return Range{Cm: cm, Valid: true}, nil
}

// DecodeDuration reads the first four bytes as little-endian milliseconds.
// Zero and short payloads report ok=false.
func DecodeDuration(b []byte) (ms uint32, ok bool) {
	if len(b) < 4 {
		return 0, false
	}
	ms = binary.LittleEndian.Uint32(b[:4])
	return ms, ms != 0
}

// EncodeRange is the inverse of DecodeRange.
func EncodeRange(r Range) []byte {
	out := make([]byte, 2)
	cm := uint16(NoReading)
	if r.Valid {
		cm = r.Cm
	}
	binary.LittleEndian.PutUint16(out, cm)
	return out
}

// EncodeDuration is the inverse of DecodeDuration.
func EncodeDuration(ms uint32) []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, ms)
	return out
}
