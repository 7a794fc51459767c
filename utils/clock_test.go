package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0, false))
	assert.Equal(t, "00:01", FormatClock(119.9, false))
	assert.Equal(t, "01:02", FormatClock(3723, false))
	assert.Equal(t, "01:02:03", FormatClock(3723.75, true))
	assert.Equal(t, "27:46:40", FormatClock(100000, true))
	assert.Equal(t, "00:00", FormatClock(-5, false))
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		value          string
		minutesSeconds bool
		expected       float64
	}{
		{"90.5", false, 90.5},
		{"01:02", false, 3720},
		{"01:02", true, 62},
		{"01:02:03", false, 3723},
		{"01:02:03", true, 3723},
	}
	for _, c := range cases {
		actual, err := ParseClock(c.value, c.minutesSeconds)
		assert.NoError(t, err, c.value)
		assert.Equal(t, c.expected, actual, c.value)
	}

	_, err := ParseClock("1:2:3:4", false)
	assert.Error(t, err)

	_, err = ParseClock("aa:10", false)
	assert.Error(t, err)
}

func TestClockRoundTrip(t *testing.T) {
	seconds, err := ParseClock(FormatClock(4000, true), false)
	assert.NoError(t, err)
	assert.Equal(t, float64(4000), seconds)
}
