package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatClock renders a playback offset in seconds as HH:MM, or HH:MM:SS
// when withSeconds is set.
func FormatClock(seconds float64, withSeconds bool) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}

	total := int64(math.Floor(seconds))
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if !withSeconds {
		return fmt.Sprintf("%02d:%02d", hours, minutes)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// ParseClock is the inverse of FormatClock. A bare number is seconds, two
// parts are HH:MM unless minutesSeconds is set, three parts are HH:MM:SS.
func ParseClock(value string, minutesSeconds bool) (float64, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) == 1 {
		return strconv.ParseFloat(parts[0], 64)
	}
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q", value)
	}

	unit := 1.0
	if len(parts) == 2 && !minutesSeconds {
		unit = 60
	}

	var seconds float64
	for i := len(parts) - 1; i >= 0; i-- {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return 0, fmt.Errorf("invalid time %q: %w", value, err)
		}
		seconds += float64(n) * unit
		unit *= 60
	}
	return seconds, nil
}
