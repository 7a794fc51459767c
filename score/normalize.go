package score

import (
	"math"
	"sort"

	"github.com/roarscore/roarscore-api/schema"
)

const (
	DefaultTargetStd = 350
	normalizeClip    = 2500
	madToSigma       = 1.4826
)

// Median returns the middle of a copy of values, averaging the two central
// values for an even length.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// NormalizeRobust recenters the row scores of one loaded batch on their
// median and rescales them so their robust spread is targetStd. The MAD is
// the upper middle absolute deviation; a MAD of zero counts as one.
func NormalizeRobust(rows []schema.DetectionRow, targetStd float64) {
	scores := make([]float64, 0, len(rows))
	for i := range rows {
		if s := rows[i].Score; !math.IsNaN(s) && !math.IsInf(s, 0) {
			scores = append(scores, s)
		}
	}
	if len(scores) == 0 {
		return
	}

	median := Median(scores)
	deviations := make([]float64, len(scores))
	for i, s := range scores {
		deviations[i] = math.Abs(s - median)
	}
	sort.Float64s(deviations)

	mad := deviations[len(deviations)/2]
	if mad == 0 {
		mad = 1
	}
	k := targetStd / (madToSigma * mad)

	for i := range rows {
		rows[i].Score = Clamp((rows[i].Score-median)*k, -normalizeClip, normalizeClip)
	}
}
