package window

import (
	"errors"
	"fmt"
	"math"

	"github.com/roarscore/roarscore-api/schema"
)

const (
	DefaultSize           = 3.0
	DefaultPruneThreshold = 25000
	DefaultPruneCount     = 24000
)

var ErrInvalidOrder = errors.New("row out of time order")

// Options tunes the memory bound of an aggregator.
type Options struct {
	// PruneThreshold is the number of rows that must have left the window
	// before the buffer head is dropped.
	PruneThreshold int
	// PruneCount is how many rows are dropped from the head at once.
	PruneCount int
}

// Aggregator is a sliding time window over an append-only stream of
// scored detection rows.
//
// A row enters once its time is at or before the clock and leaves once it
// is strictly older than clock-size. The running sum always equals the sum
// of the scores of the rows between start and end.
type Aggregator struct {
	size float64

	rows  []*schema.DetectionRow
	start int
	end   int
	sum   float64

	// base is the stream index of rows[0]
	base    int
	next    int
	last    float64
	hasLast bool

	now      float64
	advanced bool

	pruneThreshold int
	pruneCount     int
}

// New returns an empty aggregator with the given window size in seconds.
func New(size float64, opts Options) *Aggregator {
	if size <= 0 {
		size = DefaultSize
	}
	if opts.PruneThreshold <= 0 {
		opts.PruneThreshold = DefaultPruneThreshold
	}
	if opts.PruneCount <= 0 || opts.PruneCount > opts.PruneThreshold {
		opts.PruneCount = opts.PruneThreshold
		if opts.PruneThreshold == DefaultPruneThreshold {
			opts.PruneCount = DefaultPruneCount
		}
	}

	return &Aggregator{
		size:           size,
		pruneThreshold: opts.PruneThreshold,
		pruneCount:     opts.PruneCount,
	}
}

// Append adds an ordered batch of scored rows to the tail of the buffer
// and assigns each its stream index. The batch is rejected as a whole when
// any row is earlier than the row before it.
func (a *Aggregator) Append(rows []schema.DetectionRow) error {
	last, hasLast := a.last, a.hasLast
	for i := range rows {
		t := rows[i].Time
		if math.IsNaN(t) {
			return fmt.Errorf("%w: row %d has no time", ErrInvalidOrder, i)
		}
		if hasLast && t < last {
			return fmt.Errorf("%w: row %d at %.3fs follows %.3fs", ErrInvalidOrder, i, t, last)
		}
		last, hasLast = t, true
	}

	for i := range rows {
		row := rows[i]
		row.Index = a.next
		a.next++
		a.rows = append(a.rows, &row)
	}
	a.last, a.hasLast = last, hasLast
	return nil
}

// Advance moves the clock to t and returns the rows that entered and left
// the window. Moving the clock backwards is rejected without touching the
// window.
func (a *Aggregator) Advance(t float64) (entered, left []*schema.DetectionRow, err error) {
	if math.IsNaN(t) {
		return nil, nil, fmt.Errorf("%w: clock is NaN", ErrInvalidOrder)
	}
	if a.advanced && t < a.now {
		return nil, nil, fmt.Errorf("%w: clock moved back from %.3fs to %.3fs", ErrInvalidOrder, a.now, t)
	}
	a.now = t
	a.advanced = true

	for a.end < len(a.rows) && a.rows[a.end].Time <= t {
		row := a.rows[a.end]
		a.sum += row.Score
		entered = append(entered, row)
		a.end++
	}

	trailing := t - a.size
	for a.start < a.end && a.rows[a.start].Time < trailing {
		row := a.rows[a.start]
		a.sum -= row.Score
		left = append(left, row)
		a.start++
	}

	if a.start > a.pruneThreshold {
		a.prune()
	}
	return entered, left, nil
}

func (a *Aggregator) prune() {
	n := a.pruneCount
	if n > a.start {
		n = a.start
	}

	remaining := make([]*schema.DetectionRow, len(a.rows)-n)
	copy(remaining, a.rows[n:])
	a.rows = remaining
	a.start -= n
	a.end -= n
	a.base += n
}

// Rows returns the rows currently in the window, oldest first.
func (a *Aggregator) Rows() []*schema.DetectionRow {
	result := make([]*schema.DetectionRow, a.end-a.start)
	copy(result, a.rows[a.start:a.end])
	return result
}

// Scores returns the scores of the rows currently in the window.
func (a *Aggregator) Scores() []float64 {
	result := make([]float64, 0, a.end-a.start)
	for _, row := range a.rows[a.start:a.end] {
		result = append(result, row.Score)
	}
	return result
}

// CoreScores returns, for every core bucket, the bucket scores of the
// in-window rows that have that bucket.
func (a *Aggregator) CoreScores() [schema.CoreCount][]float64 {
	var result [schema.CoreCount][]float64
	for _, row := range a.rows[a.start:a.end] {
		for c := 0; c < schema.CoreCount; c++ {
			if row.HasCore(schema.Core(c)) {
				result[c] = append(result[c], row.Cores[c].Score)
			}
		}
	}
	return result
}

// Row looks a row up by stream index. Pruned rows are gone.
func (a *Aggregator) Row(index int) (*schema.DetectionRow, bool) {
	i := index - a.base
	if i < 0 || i >= len(a.rows) {
		return nil, false
	}
	return a.rows[i], true
}

// Sum is the running sum of the in-window row scores.
func (a *Aggregator) Sum() float64 {
	return a.sum
}

// Len is the number of rows in the window.
func (a *Aggregator) Len() int {
	return a.end - a.start
}

// Buffered is the number of rows held in memory.
func (a *Aggregator) Buffered() int {
	return len(a.rows)
}

// Bounds returns the stream indexes of the window, start inclusive and end
// exclusive.
func (a *Aggregator) Bounds() (start, end int) {
	return a.base + a.start, a.base + a.end
}

// Pending is the number of buffered rows that have not entered yet.
func (a *Aggregator) Pending() int {
	return len(a.rows) - a.end
}

// Time returns the clock of the last advance.
func (a *Aggregator) Time() float64 {
	return a.now
}

func (a *Aggregator) Size() float64 {
	return a.size
}

// Reset drops every row and rewinds the clock. Stream indexes keep
// counting so indexes handed out earlier are never reused.
func (a *Aggregator) Reset() {
	a.base = a.next
	a.rows = nil
	a.start, a.end = 0, 0
	a.sum = 0
	a.now = 0
	a.advanced = false
	a.last, a.hasLast = 0, false
}
