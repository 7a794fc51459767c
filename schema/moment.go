package schema

// Moment is a highlight interval derived from a summary.
type Moment struct {
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Score     float64 `json:"score"`
	People    float64 `json:"people"`
	Label     string  `json:"label"`
}

// ScheduleSegment tells where the detection rows for a stretch of playback
// are fetched from and where they align on the playback clock.
type ScheduleSegment struct {
	URL      string  `json:"url" msgpack:"url"`
	Start    float64 `json:"start" msgpack:"start"`
	Duration float64 `json:"duration" msgpack:"duration"`
}

// End returns start+duration.
func (s ScheduleSegment) End() float64 {
	return s.Start + s.Duration
}

// Covers reports whether t falls in (start, start+duration].
func (s ScheduleSegment) Covers(t float64) bool {
	return t > s.Start && t <= s.End()
}

// Fragment is a media playlist fragment. The detection file URL is carried
// after the '#' of the fragment URL.
type Fragment struct {
	URL      string  `json:"url"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}
