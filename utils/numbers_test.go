package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLooseFloat(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"42", 42},
		{"42.5", 42.5},
		{" 1234 ", 1234},
		{"1,234.5", 1234.5},
		{"-7", -7},
		{"0", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseLooseFloat(tc.raw), "raw=%q", tc.raw)
	}
}

func TestParseLooseFloatMarksUnparsableAsMissing(t *testing.T) {
	for _, raw := range []string{"", "  ", "abc", "12x", "Inf", "-Inf"} {
		assert.True(t, IsMissing(ParseLooseFloat(raw)), "raw=%q", raw)
	}
	assert.False(t, IsMissing(ParseLooseFloat("3.14")))
}
