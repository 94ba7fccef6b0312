package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseLooseFloat parses numeric fields as they arrive from the public data
// endpoints, where numbers are encoded as strings and sometimes carry
// thousands separators or surrounding whitespace. A value that cannot be
// parsed into a finite number yields NaN so the caller can keep the record
// and render the point as a gap.
func ParseLooseFloat(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return math.NaN()
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// IsMissing reports whether a metric value is the NaN marker produced by
// ParseLooseFloat.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}
