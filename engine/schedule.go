package engine

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/roarscore/roarscore-api/schema"
)

var ErrScheduleMismatch = errors.New("detection data disagrees with schedule")

// MergeFragments turns playlist fragments into a load schedule. Consecutive
// fragments that point at the same detection file become one segment.
func MergeFragments(fragments []schema.Fragment) []schema.ScheduleSegment {
	var schedule []schema.ScheduleSegment

	for _, f := range fragments {
		url := detectionURL(f.URL)
		if n := len(schedule); n > 0 && schedule[n-1].URL == url {
			schedule[n-1].Duration += f.Duration
			continue
		}
		schedule = append(schedule, schema.ScheduleSegment{
			URL:      url,
			Start:    f.Start,
			Duration: f.Duration,
		})
	}

	return schedule
}

// detectionURL returns the part of a fragment URL after '#', or the whole
// URL when there is no fragment identifier.
func detectionURL(fragmentURL string) string {
	if i := strings.Index(fragmentURL, "#"); i >= 0 {
		return fragmentURL[i+1:]
	}
	return fragmentURL
}

// SegmentAt returns the index of the segment covering t, or -1.
func SegmentAt(schedule []schema.ScheduleSegment, t float64) int {
	for i, s := range schedule {
		if s.Covers(t) {
			return i
		}
	}
	return -1
}

// TimeRows sets the playback time of every row from its frame number and
// the segment start.
func TimeRows(rows []schema.DetectionRow, segment schema.ScheduleSegment, fps float64) {
	for i := range rows {
		rows[i].Time = float64(rows[i].Frame)/fps + segment.Start
	}
}

// CheckSegment compares the time span of loaded rows with the segment they
// were loaded for. The rows are trusted, a mismatch is only reported.
func CheckSegment(segment schema.ScheduleSegment, rows []schema.DetectionRow, tolerance float64) error {
	if len(rows) == 0 {
		return nil
	}

	start := rows[0].Time
	duration := rows[len(rows)-1].Time - start

	if math.Abs(start-segment.Start) > tolerance {
		return fmt.Errorf("%w: %s starts at %.2fs, scheduled %.2fs", ErrScheduleMismatch, segment.URL, start, segment.Start)
	}
	if math.Abs(duration-segment.Duration) > tolerance {
		return fmt.Errorf("%w: %s lasts %.2fs, scheduled %.2fs", ErrScheduleMismatch, segment.URL, duration, segment.Duration)
	}
	return nil
}
