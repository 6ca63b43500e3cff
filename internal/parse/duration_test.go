package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRange(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected time.Duration
	}{
		{name: "Days", raw: "7d", expected: 7 * 24 * time.Hour},
		{name: "Thirty days", raw: "30d", expected: 30 * 24 * time.Hour},
		{name: "Hours", raw: "24h", expected: 24 * time.Hour},
		{name: "Upper case and spaces", raw: " 12H ", expected: 12 * time.Hour},
		{name: "Empty falls back", raw: "", expected: DefaultRange},
		{name: "Unknown unit falls back", raw: "3w", expected: DefaultRange},
		{name: "No number falls back", raw: "d", expected: DefaultRange},
		{name: "Zero falls back", raw: "0d", expected: DefaultRange},
		{name: "Negative falls back", raw: "-2d", expected: DefaultRange},
		{name: "Garbage falls back", raw: "last week", expected: DefaultRange},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseRange(tc.raw))
		})
	}
}

func TestParseDays(t *testing.T) {
	assert.Equal(t, 14, ParseDays("14", 30))
	assert.Equal(t, 30, ParseDays("", 30))
	assert.Equal(t, 30, ParseDays("0", 30))
	assert.Equal(t, 30, ParseDays("abc", 30))
}

func TestNormalizeStation(t *testing.T) {
	assert.Equal(t, "ASSY2", NormalizeStation("  assy2 "))
	assert.Equal(t, "T3", NormalizeStation("T3"))
	assert.Equal(t, "", NormalizeStation("   "))
}
