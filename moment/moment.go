package moment

import (
	"sort"

	"github.com/roarscore/roarscore-api/schema"
	"github.com/roarscore/roarscore-api/utils"
)

const (
	DefaultTopN       = 100
	DefaultMaxMoments = 10
	DefaultBuffer     = 180
)

type Options struct {
	TopN       int
	MaxMoments int
	// Buffer in seconds extends a moment on both sides when testing whether
	// another second belongs to it.
	Buffer float64
}

func DefaultOptions() Options {
	return Options{
		TopN:       DefaultTopN,
		MaxMoments: DefaultMaxMoments,
		Buffer:     DefaultBuffer,
	}
}

// IsSame reports whether either end of b falls inside a extended by buffer.
func IsSame(a, b schema.Moment, buffer float64) bool {
	lo := a.StartTime - buffer
	hi := a.EndTime + buffer
	return (b.StartTime >= lo && b.StartTime <= hi) ||
		(b.EndTime >= lo && b.EndTime <= hi)
}

// Find picks the highlight moments of a summary.
//
// The best scoring seconds are visited in descending score order. Each one
// is merged into the first moment it overlaps, widening that moment, or
// starts a new one. Visiting stops once enough moments exist. The result is
// in chronological order with an HH:MM label.
func Find(summary []schema.SummaryRecord, opts Options) []schema.Moment {
	if len(summary) == 0 {
		return []schema.Moment{}
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if opts.MaxMoments <= 0 {
		opts.MaxMoments = DefaultMaxMoments
	}

	sorted := make([]schema.SummaryRecord, len(summary))
	copy(sorted, summary)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if len(sorted) > opts.TopN {
		sorted = sorted[:opts.TopN]
	}

	moments := []schema.Moment{fromRecord(sorted[0])}
	for _, r := range sorted[1:] {
		if len(moments) >= opts.MaxMoments {
			break
		}

		candidate := fromRecord(r)
		merged := false
		for i := range moments {
			if IsSame(moments[i], candidate, opts.Buffer) {
				if candidate.StartTime < moments[i].StartTime {
					moments[i].StartTime = candidate.StartTime
				}
				if candidate.EndTime > moments[i].EndTime {
					moments[i].EndTime = candidate.EndTime
				}
				merged = true
				break
			}
		}
		if !merged {
			moments = append(moments, candidate)
		}
	}

	sort.SliceStable(moments, func(i, j int) bool {
		return moments[i].StartTime < moments[j].StartTime
	})
	for i := range moments {
		moments[i].Label = utils.FormatClock(moments[i].StartTime, false)
	}
	return moments
}

func fromRecord(r schema.SummaryRecord) schema.Moment {
	return schema.Moment{
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Score:     r.Score,
		People:    r.People,
	}
}
