package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/roarscore/roarscore-api/external/detection"
	"github.com/roarscore/roarscore-api/schema"
	"github.com/roarscore/roarscore-api/window"
)

// fakeSource serves canned rows per url. A url with a gate blocks until the
// gate is closed.
type fakeSource struct {
	sync.Mutex
	rows  map[string][]schema.DetectionRow
	gates map[string]chan struct{}
	calls map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		rows:  map[string][]schema.DetectionRow{},
		gates: map[string]chan struct{}{},
		calls: map[string]int{},
	}
}

func (f *fakeSource) Fetch(ctx context.Context, url string) ([]schema.DetectionRow, error) {
	f.Lock()
	f.calls[url]++
	gate := f.gates[url]
	rows, ok := f.rows[url]
	f.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if !ok || len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", detection.ErrDataUnavailable, url)
	}

	result := make([]schema.DetectionRow, len(rows))
	for i := range rows {
		result[i] = rows[i]
		result[i].Emotions = append([]schema.EmotionReading(nil), rows[i].Emotions...)
	}
	return result, nil
}

func (f *fakeSource) callCount(url string) int {
	f.Lock()
	defer f.Unlock()
	return f.calls[url]
}

// joyRows returns one face per frame for the given number of seconds at
// 20 fps, all feeling joy at the given confidence.
func joyRows(seconds int, confidence float64, box schema.Box) []schema.DetectionRow {
	var rows []schema.DetectionRow
	for frame := 0; frame < seconds*DefaultFPS; frame++ {
		rows = append(rows, schema.DetectionRow{
			Frame:    frame,
			Box:      box,
			Emotions: []schema.EmotionReading{{Name: "Joy", Confidence: confidence}},
		})
	}
	return rows
}

type countingStats struct {
	sync.Mutex
	loaded      int
	unavailable int
	mismatch    int
	invalid     int
	advanced    int
}

func (c *countingStats) RowsLoaded(n int) {
	c.Lock()
	defer c.Unlock()
	c.loaded += n
}

func (c *countingStats) DataUnavailable() {
	c.Lock()
	defer c.Unlock()
	c.unavailable++
}

func (c *countingStats) ScheduleMismatch() {
	c.Lock()
	defer c.Unlock()
	c.mismatch++
}

func (c *countingStats) InvalidOrder() {
	c.Lock()
	defer c.Unlock()
	c.invalid++
}

func (c *countingStats) Advanced(time.Duration, int) {
	c.Lock()
	defer c.Unlock()
	c.advanced++
}

type SessionTestSuite struct {
	suite.Suite
	ctx      context.Context
	source   *fakeSource
	stats    *countingStats
	schedule []schema.ScheduleSegment
	session  *Session
}

func (s *SessionTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.source = newFakeSource()
	s.stats = &countingStats{}

	s.source.rows["seg-a"] = joyRows(10, 0.8, schema.Box{X: 0, Y: 0, W: 100, H: 100})
	s.source.rows["seg-b"] = joyRows(10, 0.4, schema.Box{X: 500, Y: 500, W: 100, H: 100})
	s.schedule = []schema.ScheduleSegment{
		{URL: "seg-a", Start: 0, Duration: 10},
		{URL: "seg-b", Start: 10, Duration: 10},
	}

	s.session = NewSession("test", DefaultConfig(), schema.Profile{"Joy": 1}, s.source, WithStats(s.stats))
}

func (s *SessionTestSuite) TearDownTest() {
	s.session.Close()
}

func (s *SessionTestSuite) TestInitLoadsFirstSegment() {
	s.NoError(s.session.Init(s.ctx, s.schedule))
	s.Equal(1, s.source.callCount("seg-a"))
	s.Equal(0, s.source.callCount("seg-b"))
	s.Equal(200, s.stats.loaded)
	s.Equal(0, s.stats.mismatch)
}

func (s *SessionTestSuite) TestAdvanceScoresWindow() {
	s.NoError(s.session.Init(s.ctx, s.schedule))

	snap, err := s.session.Advance(s.ctx, 1.0)
	s.NoError(err)

	// frames 0..20 are at or before one second
	s.Equal(21, snap.Rows)
	comb := DefaultConfig().combiner()
	expected := comb.Raw(repeat(800, 21))
	s.InDelta(expected, snap.RawScore, 1e-9)
	s.InDelta(expected, snap.Score, 1e-9, "squashing is off by default")
	s.InDelta(expected, snap.Cores[schema.CoreHappiness], 1e-9)
	s.Equal(float64(0), snap.Cores[schema.CoreAnger])
	s.Equal(float64(800), snap.Percentiles[9])

	// every row has the same box so there is one tracked identity
	s.Equal(1, snap.People)
	s.Equal(float64(800), snap.Boxes[0].Score)
}

func (s *SessionTestSuite) TestAdvanceSlidesWindow() {
	s.NoError(s.session.Init(s.ctx, s.schedule))

	_, err := s.session.Advance(s.ctx, 1)
	s.NoError(err)
	snap, err := s.session.Advance(s.ctx, 5)
	s.NoError(err)

	// rows in [2, 5] at 20 fps
	s.Equal(61, snap.Rows)
	s.Greater(snap.Delta, float64(0))
}

func (s *SessionTestSuite) TestAdvanceBackwardsIsRejected() {
	s.NoError(s.session.Init(s.ctx, s.schedule))

	before, err := s.session.Advance(s.ctx, 3)
	s.NoError(err)

	after, err := s.session.Advance(s.ctx, 2)
	s.True(errors.Is(err, window.ErrInvalidOrder))
	s.Equal(before, after)
	s.Equal(float64(3), s.session.Time())
	s.Equal(1, s.stats.invalid)
}

func (s *SessionTestSuite) TestAdvanceNaNIsRejected() {
	s.NoError(s.session.Init(s.ctx, s.schedule))

	before, err := s.session.Advance(s.ctx, 6)
	s.NoError(err)
	s.NoError(s.session.AwaitReady(s.ctx))
	s.Equal(1, s.source.callCount("seg-b"))

	after, err := s.session.Advance(s.ctx, math.NaN())
	s.True(errors.Is(err, window.ErrInvalidOrder))
	s.Equal(before, after)
	s.Equal(float64(6), s.session.Time())

	_, err = s.session.Seek(s.ctx, math.NaN())
	s.True(errors.Is(err, window.ErrInvalidOrder))
	s.Equal(float64(6), s.session.Time())
	s.Equal(2, s.stats.invalid)

	// the schedule pointer did not move past the last segment
	s.Equal(1, s.source.callCount("seg-b"))
	snap, err := s.session.Advance(s.ctx, 10.5)
	s.NoError(err)
	s.Equal(2, snap.People)
}

func (s *SessionTestSuite) TestLoadAfterClose() {
	s.NoError(s.session.Init(s.ctx, s.schedule))
	s.session.Close()

	l := s.session.Prefetch(6)
	s.Require().NotNil(l)
	_, err := l.Wait(s.ctx)
	s.True(errors.Is(err, ErrSessionClosed))
	s.Equal(0, s.source.callCount("seg-b"))
}

func (s *SessionTestSuite) TestCloseDuringAdvance() {
	s.NoError(s.session.Init(s.ctx, s.schedule))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for t := 0.0; t <= 20; t += 0.5 {
			s.session.Advance(s.ctx, t)
		}
	}()

	s.session.Close()
	wg.Wait()
	s.LessOrEqual(s.source.callCount("seg-b"), 1)
}

func (s *SessionTestSuite) TestPrefetchByLeadTime() {
	s.NoError(s.session.Init(s.ctx, s.schedule))

	_, err := s.session.Advance(s.ctx, 4)
	s.NoError(err)
	s.Equal(0, s.source.callCount("seg-b"))

	_, err = s.session.Advance(s.ctx, 5.5)
	s.NoError(err)
	s.NoError(s.session.AwaitReady(s.ctx))
	s.Equal(1, s.source.callCount("seg-b"))

	snap, err := s.session.Advance(s.ctx, 11)
	s.NoError(err)

	// [8, 10) from the first file and [10, 11] from the second
	s.Equal(61, snap.Rows)
	s.Equal(2, snap.People)
}

func (s *SessionTestSuite) TestPrefetchIsNotRepeated() {
	s.NoError(s.session.Init(s.ctx, s.schedule))

	l := s.session.Prefetch(6)
	s.NotNil(l)
	rows, err := l.Wait(s.ctx)
	s.NoError(err)
	s.Len(rows, 200)
	s.Equal(float64(10), rows[0].Time)

	s.Nil(s.session.Prefetch(7))
	s.Nil(s.session.Prefetch(30))
	s.Equal(1, s.source.callCount("seg-b"))
}

func (s *SessionTestSuite) TestPrefetchDoesNotBlockAdvance() {
	gate := make(chan struct{})
	s.source.gates["seg-b"] = gate
	s.NoError(s.session.Init(s.ctx, s.schedule))

	_, err := s.session.Advance(s.ctx, 6)
	s.NoError(err)

	snap, err := s.session.Advance(s.ctx, 7)
	s.NoError(err)
	s.Equal(61, snap.Rows)

	close(gate)
	s.NoError(s.session.AwaitReady(s.ctx))
	snap, err = s.session.Advance(s.ctx, 10.5)
	s.NoError(err)

	// [7.5, 10) from the first file and [10, 10.5] from the second
	s.Equal(61, snap.Rows)
	s.Equal(2, snap.People)
}

func (s *SessionTestSuite) TestSeekResetsAndLoadsCoveringSegment() {
	s.NoError(s.session.Init(s.ctx, s.schedule))
	_, err := s.session.Advance(s.ctx, 2)
	s.NoError(err)

	snap, err := s.session.Seek(s.ctx, 15)
	s.NoError(err)
	s.Equal(float64(15), snap.Time)
	s.Equal(61, snap.Rows)
	s.Equal(1, snap.People)
	s.Equal(float64(500), snap.Boxes[0].Box.X)

	// seeking back is allowed
	snap, err = s.session.Seek(s.ctx, 1)
	s.NoError(err)
	s.Equal(21, snap.Rows)
	s.Equal(float64(0), snap.Boxes[0].Box.X)
}

func (s *SessionTestSuite) TestSeekDropsStaleLoads() {
	gate := make(chan struct{})
	s.source.gates["seg-b"] = gate
	s.NoError(s.session.Init(s.ctx, s.schedule))

	_, err := s.session.Advance(s.ctx, 6)
	s.NoError(err)

	_, err = s.session.Seek(s.ctx, 1)
	s.NoError(err)

	close(gate)
	s.NoError(s.session.AwaitReady(s.ctx))
	s.session.wg.Wait()

	_, err = s.session.Advance(s.ctx, 2)
	s.NoError(err)
	s.Equal(200, s.session.window.Buffered())
}

func (s *SessionTestSuite) TestSeekOutsideSchedule() {
	s.NoError(s.session.Init(s.ctx, s.schedule))

	snap, err := s.session.Seek(s.ctx, 100)
	s.NoError(err)
	s.Equal(0, snap.Rows)
	s.Nil(s.session.Prefetch(100))
}

func (s *SessionTestSuite) TestDataUnavailableScoresZero() {
	schedule := []schema.ScheduleSegment{{URL: "missing", Start: 0, Duration: 10}}
	s.NoError(s.session.Init(s.ctx, schedule))

	snap, err := s.session.Advance(s.ctx, 2)
	s.NoError(err)
	s.Equal(float64(0), snap.Score)
	s.Equal(0, snap.Rows)
	s.Empty(snap.Boxes)
	s.Equal(1, s.stats.unavailable)
}

func (s *SessionTestSuite) TestScheduleMismatchIsOnlyReported() {
	schedule := []schema.ScheduleSegment{{URL: "seg-a", Start: 0, Duration: 30}}
	s.NoError(s.session.Init(s.ctx, schedule))
	s.Equal(1, s.stats.mismatch)

	snap, err := s.session.Advance(s.ctx, 1)
	s.NoError(err)
	s.Equal(21, snap.Rows)
}

func (s *SessionTestSuite) TestBoxAt() {
	s.NoError(s.session.Init(s.ctx, s.schedule))
	_, err := s.session.Advance(s.ctx, 1)
	s.NoError(err)

	box, row, ok := s.session.BoxAt(50, 50)
	s.True(ok)
	s.NotNil(row)
	s.Equal(box.Index, row.Index)
	s.Equal(20, row.Frame)
	s.Equal(float64(800), row.Score)

	_, _, ok = s.session.BoxAt(300, 300)
	s.False(ok)
}

func (s *SessionTestSuite) TestBoxesExpire() {
	s.source.rows["short"] = joyRows(1, 0.5, schema.Box{W: 10, H: 10})
	s.NoError(s.session.Init(s.ctx, []schema.ScheduleSegment{{URL: "short", Start: 0, Duration: 10}}))

	snap, err := s.session.Advance(s.ctx, 0.5)
	s.NoError(err)
	s.Len(snap.Boxes, 1)

	// the last rows enter at one second
	_, err = s.session.Advance(s.ctx, 1)
	s.NoError(err)

	snap, err = s.session.Advance(s.ctx, 3.9)
	s.NoError(err)
	s.Len(snap.Boxes, 1)
	s.InDelta(100, snap.Boxes[0].Expires, 1e-6)

	snap, err = s.session.Advance(s.ctx, 4.1)
	s.NoError(err)
	s.Empty(snap.Boxes)
}

func (s *SessionTestSuite) TestBlockingLoads() {
	cfg := DefaultConfig()
	cfg.BlockingLoads = true
	session := NewSession("offline", cfg, schema.Profile{"Joy": 1}, s.source)
	defer session.Close()

	s.NoError(session.Init(s.ctx, s.schedule))
	_, err := session.Advance(s.ctx, 5.5)
	s.NoError(err)
	s.Equal(400, session.window.Buffered())
}

func (s *SessionTestSuite) TestRobustNormalization() {
	cfg := DefaultConfig()
	cfg.RobustNormalization = true
	session := NewSession("robust", cfg, schema.Profile{"Joy": 1}, s.source)
	defer session.Close()

	s.NoError(session.Init(s.ctx, s.schedule))
	snap, err := session.Advance(s.ctx, 1)
	s.NoError(err)

	// identical rows collapse onto the median
	s.Equal(float64(0), snap.RawScore)
}

func TestSessionTestSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

func repeat(v float64, n int) []float64 {
	result := make([]float64, n)
	for i := range result {
		result[i] = v
	}
	return result
}
