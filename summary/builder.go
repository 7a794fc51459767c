package summary

import (
	"context"
	"errors"
	"math"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/roarscore/roarscore-api/engine"
	"github.com/roarscore/roarscore-api/external/detection"
	"github.com/roarscore/roarscore-api/schema"
	"github.com/roarscore/roarscore-api/window"
)

// DefaultStep is the virtual clock increment of a replay.
const DefaultStep = 0.25

// Builder replays a schedule through a private scoring session and
// aggregates the result per second of playback.
type Builder struct {
	Config  engine.Config
	Profile schema.Profile
	Source  detection.Source
	Step    float64
	Stats   engine.Stats

	// Progress, when set, is called after each segment with the number of
	// segments done.
	Progress func(done, total int)
}

type bucket struct {
	start  float64
	end    float64
	score  float64
	people float64
	count  int
}

// Build runs the replay. Ticks that would move the clock backwards, as
// happens with overlapping segments, are skipped.
func (b Builder) Build(ctx context.Context, schedule []schema.ScheduleSegment) ([]schema.SummaryRecord, error) {
	step := b.Step
	if step <= 0 {
		step = DefaultStep
	}

	cfg := b.Config
	cfg.BlockingLoads = true

	opts := []engine.Option{engine.WithLogger(log.WithField("prefix", "summary"))}
	if b.Stats != nil {
		opts = append(opts, engine.WithStats(b.Stats))
	}
	session := engine.NewSession("replay", cfg, b.Profile, b.Source, opts...)
	defer session.Close()

	if err := session.Init(ctx, schedule); err != nil {
		return nil, err
	}

	buckets := map[int64]*bucket{}
	for i, segment := range schedule {
		for dt := 0.0; dt < segment.Duration; dt += step {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			t := segment.Start + dt
			snap, err := session.Advance(ctx, t)
			if err != nil {
				if errors.Is(err, window.ErrInvalidOrder) {
					continue
				}
				return nil, err
			}

			second := int64(math.Floor(t))
			bk, ok := buckets[second]
			if !ok {
				bk = &bucket{start: t, end: t}
				buckets[second] = bk
			}
			bk.start = math.Min(bk.start, t)
			bk.end = math.Max(bk.end, t)
			bk.score += snap.RawScore
			bk.people += float64(snap.People)
			bk.count++
		}

		if b.Progress != nil {
			b.Progress(i+1, len(schedule))
		}
	}

	return finish(buckets), nil
}

func finish(buckets map[int64]*bucket) []schema.SummaryRecord {
	seconds := make([]int64, 0, len(buckets))
	for s := range buckets {
		seconds = append(seconds, s)
	}
	sort.Slice(seconds, func(i, j int) bool { return seconds[i] < seconds[j] })

	result := make([]schema.SummaryRecord, 0, len(seconds))
	for _, s := range seconds {
		bk := buckets[s]
		result = append(result, schema.SummaryRecord{
			StartTime: roundTo(bk.start, 2),
			EndTime:   roundTo(bk.end, 2),
			Score:     math.Round(bk.score / float64(bk.count)),
			People:    math.Round(bk.people / float64(bk.count)),
			Count:     bk.count,
		})
	}
	return result
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
