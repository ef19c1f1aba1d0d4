package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Distance is a training distance in kilometres. Missing, non-numeric,
// non-finite and negative values all read as 0.
type Distance float64

// Km returns the distance as a float, coerced to a finite non-negative value.
func (d Distance) Km() float64 {
	f := float64(d)
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// ParseDistance reads a distance from free text, returning 0 for anything
// that is not a number.
func ParseDistance(s string) Distance {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return Distance(f).normalized()
}

func (d Distance) normalized() Distance {
	return Distance(d.Km())
}

// MarshalJSON always emits a finite number.
func (d Distance) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(d.Km(), 'f', -1, 64)), nil
}

// UnmarshalJSON accepts numbers, numeric strings, null and anything else
// (which decodes as 0) so one bad field never rejects a whole record.
func (d *Distance) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*d = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*d = 0
			return nil //nolint:nilerr // malformed strings coerce to zero
		}
		*d = ParseDistance(s)
		return nil
	}
	*d = ParseDistance(string(b))
	return nil
}
