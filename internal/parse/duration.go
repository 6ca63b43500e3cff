package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultRange is used when a range string is missing or cannot be parsed.
const DefaultRange = 7 * 24 * time.Hour

var rangeRe = regexp.MustCompile(`^(\d+)\s*([dh])$`)

// ParseRange converts a dashboard range such as "7d" or "24h" into a duration.
// Anything else, including zero, yields DefaultRange.
func ParseRange(raw string) time.Duration {
	s := strings.ToLower(strings.TrimSpace(raw))
	m := rangeRe.FindStringSubmatch(s)
	if m == nil {
		return DefaultRange
	}

	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return DefaultRange
	}

	if m[2] == "h" {
		return time.Duration(n) * time.Hour
	}
	return time.Duration(n) * 24 * time.Hour
}

// ParseDays reads a positive day count, falling back to def.
func ParseDays(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// NormalizeStation trims and upper-cases a test station name for comparison.
func NormalizeStation(station string) string {
	return strings.ToUpper(strings.TrimSpace(station))
}
