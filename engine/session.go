package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/roarscore/roarscore-api/external/detection"
	"github.com/roarscore/roarscore-api/schema"
	"github.com/roarscore/roarscore-api/score"
	"github.com/roarscore/roarscore-api/tracking"
	"github.com/roarscore/roarscore-api/window"
)

// ErrSessionClosed is the error of a load requested after Close.
var ErrSessionClosed = errors.New("session closed")

// Snapshot is what a session exposes after every clock tick.
type Snapshot struct {
	Time        float64                   `json:"time"`
	Score       float64                   `json:"score"`
	RawScore    float64                   `json:"raw_score"`
	Cores       [schema.CoreCount]float64 `json:"cores"`
	RawCores    [schema.CoreCount]float64 `json:"raw_cores"`
	Boxes       []tracking.ActiveBox      `json:"boxes"`
	People      int                       `json:"people"`
	Rows        int                       `json:"rows"`
	Percentiles [10]float64               `json:"percentiles"`
	Delta       float64                   `json:"delta"`
}

// Load is a detection fetch running in the background.
type Load struct {
	Segment schema.ScheduleSegment
	Index   int

	done chan struct{}
	rows []schema.DetectionRow
	err  error
}

// Done is closed once the rows are ready.
func (l *Load) Done() <-chan struct{} {
	return l.done
}

// Wait blocks until the load finishes. A failed fetch returns its error
// together with no rows.
func (l *Load) Wait(ctx context.Context) ([]schema.DetectionRow, error) {
	select {
	case <-l.done:
		return l.rows, l.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Load) finished() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

type Option func(*Session)

func WithStats(stats Stats) Option {
	return func(s *Session) {
		s.stats = stats
	}
}

func WithLogger(entry *logrus.Entry) Option {
	return func(s *Session) {
		s.log = entry
	}
}

// Session owns one scoring pipeline driven by a playback clock. Clock ticks
// and seeks are serialized; detection loads run in the background and are
// appended at the start of the next tick.
type Session struct {
	ID string

	cfg      Config
	profile  schema.Profile
	source   detection.Source
	combiner score.Combiner
	stats    Stats
	log      *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	schedule []schema.ScheduleSegment
	next     int
	window   *window.Aggregator
	tracker  *tracking.Tracker
	clock    float64
	started  bool
	current  Snapshot

	loadMu  sync.Mutex
	pending []*Load
	closed  bool
}

func NewSession(id string, cfg Config, profile schema.Profile, source detection.Source, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		ID:       id,
		cfg:      cfg,
		profile:  profile,
		source:   source,
		combiner: cfg.combiner(),
		stats:    nopStats{},
		log:      logrus.WithFields(logrus.Fields{"prefix": "engine", "session": id}),
		ctx:      ctx,
		cancel:   cancel,
		window: window.New(cfg.WindowSize, window.Options{
			PruneThreshold: cfg.PruneThreshold,
			PruneCount:     cfg.PruneCount,
		}),
	}
	s.tracker = tracking.NewTracker(s.window.Size() * 1000)

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init installs a schedule and loads its first segment.
func (s *Session) Init(ctx context.Context, schedule []schema.ScheduleSegment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.schedule = append([]schema.ScheduleSegment(nil), schedule...)
	s.resetLocked()
	s.next = 0

	if len(s.schedule) == 0 {
		return nil
	}

	if _, err := s.startLoad(0).Wait(ctx); err != nil && ctx.Err() != nil {
		return err
	}
	s.drainLocked()
	return nil
}

// Advance moves the clock forward to t and recomputes the snapshot. A clock
// earlier than the previous tick is rejected and nothing changes.
func (s *Session) Advance(ctx context.Context, t float64) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.advanceLocked(ctx, t)
}

func (s *Session) advanceLocked(ctx context.Context, t float64) (Snapshot, error) {
	begin := time.Now()

	if math.IsNaN(t) {
		s.stats.InvalidOrder()
		return s.current, fmt.Errorf("%w: clock is not a number", window.ErrInvalidOrder)
	}

	if s.started && t < s.clock {
		s.stats.InvalidOrder()
		return s.current, fmt.Errorf("%w: clock moved back from %.3fs to %.3fs", window.ErrInvalidOrder, s.clock, t)
	}

	s.prefetchLocked(t)
	if s.cfg.BlockingLoads {
		if err := s.awaitPending(ctx); err != nil {
			return s.current, err
		}
	}
	s.drainLocked()

	entered, _, err := s.window.Advance(t)
	if err != nil {
		s.stats.InvalidOrder()
		return s.current, err
	}

	// boxes refreshed on this tick keep their full lifetime
	elapsed := 0.0
	if s.started {
		elapsed = (t - s.clock) * 1000
	}
	s.tracker.Expire(elapsed)

	detections := make([]tracking.Detection, len(entered))
	for i, row := range entered {
		detections[i] = tracking.DetectionFromRow(row)
	}
	s.tracker.Update(detections)

	snap := s.compute(t)
	if s.started {
		snap.Delta = score.ChangeRate(snap.Score, s.current.Score)
	}

	s.clock = t
	s.started = true
	s.current = snap

	s.stats.Advanced(time.Since(begin), snap.Rows)
	return snap, nil
}

func (s *Session) compute(t float64) Snapshot {
	scores := s.window.Scores()
	snap := Snapshot{
		Time:        t,
		Rows:        len(scores),
		Boxes:       s.tracker.Boxes(),
		Percentiles: score.Percentiles(scores),
	}
	snap.People = len(snap.Boxes)

	if len(scores) == 0 {
		return snap
	}

	snap.Score = s.combiner.Combine(scores)
	snap.RawScore = s.combiner.Raw(scores)

	cores := s.window.CoreScores()
	for c := range cores {
		snap.Cores[c] = s.combiner.Combine(cores[c])
		snap.RawCores[c] = s.combiner.Raw(cores[c])
	}
	return snap
}

// Seek discards all pipeline state, loads the segment covering t and
// advances to it. Loads issued before the seek are dropped.
func (s *Session) Seek(ctx context.Context, t float64) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if math.IsNaN(t) {
		s.stats.InvalidOrder()
		return s.current, fmt.Errorf("%w: clock is not a number", window.ErrInvalidOrder)
	}

	s.resetLocked()

	index := SegmentAt(s.schedule, t)
	if index < 0 && len(s.schedule) > 0 && t <= s.schedule[0].Start {
		index = 0
	}

	if index < 0 {
		s.log.Warnf("no schedule segment covers %.2fs", t)
		s.next = len(s.schedule)
	} else {
		s.log.Debugf("schedule reset to %d for %.2fs", index, t)
		s.next = index
		if _, err := s.startLoad(index).Wait(ctx); err != nil && ctx.Err() != nil {
			return s.current, err
		}
	}

	return s.advanceLocked(ctx, t)
}

// Prefetch starts the load of the next schedule segment once the lead time
// ahead of t has run past the current one. It returns nil when nothing was
// started and never blocks on the fetch.
func (s *Session) Prefetch(t float64) *Load {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.prefetchLocked(t)
}

func (s *Session) prefetchLocked(t float64) *Load {
	if s.next >= len(s.schedule) {
		return nil
	}

	lead := t + s.cfg.LeadTime
	if lead <= s.schedule[s.next].End() {
		return nil
	}

	s.next++
	if s.next >= len(s.schedule) {
		return nil
	}
	s.log.Debugf("loading next segment %d for %.2fs", s.next, t)
	return s.startLoad(s.next)
}

// AwaitReady waits for every load issued so far. The rows enter the
// pipeline on the next advance.
func (s *Session) AwaitReady(ctx context.Context) error {
	return s.awaitPending(ctx)
}

func (s *Session) awaitPending(ctx context.Context) error {
	s.loadMu.Lock()
	pending := append([]*Load(nil), s.pending...)
	s.loadMu.Unlock()

	for _, l := range pending {
		if _, err := l.Wait(ctx); err != nil && ctx.Err() != nil {
			return err
		}
	}
	return nil
}

func (s *Session) startLoad(index int) *Load {
	l := &Load{
		Segment: s.schedule[index],
		Index:   index,
		done:    make(chan struct{}),
	}

	// the wait group only grows while loadMu is held and the session is open
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if s.closed {
		l.err = ErrSessionClosed
		close(l.done)
		return l
	}
	s.pending = append(s.pending, l)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(l.done)

		rows, err := s.source.Fetch(s.ctx, l.Segment.URL)
		if err != nil {
			if !errors.Is(err, detection.ErrDataUnavailable) {
				err = fmt.Errorf("%w: %v", detection.ErrDataUnavailable, err)
			}
			s.log.WithError(err).Warnf("segment %d has no rows", index)
			s.stats.DataUnavailable()
			l.err = err
			return
		}

		l.rows = s.prepare(l.Segment, rows)
	}()

	return l
}

// prepare times and scores freshly fetched rows.
func (s *Session) prepare(segment schema.ScheduleSegment, rows []schema.DetectionRow) []schema.DetectionRow {
	TimeRows(rows, segment, s.cfg.fps())
	score.ScoreRows(rows, s.profile, s.cfg.Alpha)

	if s.cfg.RobustNormalization {
		score.NormalizeRobust(rows, s.cfg.TargetStd)
	}

	if err := CheckSegment(segment, rows, s.cfg.ScheduleTolerance); err != nil {
		s.log.WithError(err).Warn("schedule mismatch")
		s.stats.ScheduleMismatch()
	}

	s.stats.RowsLoaded(len(rows))
	return rows
}

// drainLocked appends finished loads in the order they were issued.
func (s *Session) drainLocked() {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	for len(s.pending) > 0 && s.pending[0].finished() {
		l := s.pending[0]
		s.pending = s.pending[1:]

		if len(l.rows) == 0 {
			continue
		}
		if err := s.window.Append(l.rows); err != nil {
			s.log.WithError(err).Errorf("segment %d dropped", l.Index)
			s.stats.InvalidOrder()
		}
	}
}

func (s *Session) resetLocked() {
	s.loadMu.Lock()
	s.pending = nil
	s.loadMu.Unlock()

	s.window.Reset()
	s.tracker.Reset()
	s.clock = 0
	s.started = false
	s.current = Snapshot{}
}

// BoxAt returns the tracked box under a point together with the detection
// row it was last updated from. The row is nil once it has been pruned.
func (s *Session) BoxAt(x, y float64) (tracking.ActiveBox, *schema.DetectionRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	box, ok := s.tracker.BoxAt(x, y)
	if !ok {
		return box, nil, false
	}

	row, found := s.window.Row(box.Index)
	if !found {
		return box, nil, true
	}
	r := *row
	return box, &r, true
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

func (s *Session) Time() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.clock
}

func (s *Session) Schedule() []schema.ScheduleSegment {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]schema.ScheduleSegment(nil), s.schedule...)
}

// Close stops background loads and waits for them to return.
func (s *Session) Close() {
	s.loadMu.Lock()
	s.closed = true
	s.loadMu.Unlock()

	s.cancel()
	s.wg.Wait()
}
