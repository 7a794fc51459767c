package tracking

import (
	"github.com/roarscore/roarscore-api/schema"
)

// DefaultTTL is the expiration of a freshly updated box in milliseconds.
const DefaultTTL = 3000

// Detection is a scored box entering the tracker.
type Detection struct {
	Box   schema.Box
	Score float64
	Count int
	Index int
}

// DetectionFromRow builds the tracker input of a row that entered the window.
func DetectionFromRow(row *schema.DetectionRow) Detection {
	return Detection{
		Box:   row.Box,
		Score: row.Score,
		Count: row.Count,
		Index: row.Index,
	}
}

// mean divides the score by the contributor count. A detection with no
// contributors keeps its score.
func (d Detection) mean() float64 {
	if d.Count <= 0 {
		return d.Score
	}
	return d.Score / float64(d.Count)
}

// ActiveBox is a tracked region that keeps its identity across ticks.
type ActiveBox struct {
	ID      int64      `json:"id"`
	Box     schema.Box `json:"box"`
	Score   float64    `json:"score"`
	Expires float64    `json:"expires"`
	Index   int        `json:"index"`
}

// Tracker keeps the active boxes of one session in insertion order.
type Tracker struct {
	boxes     []*ActiveBox
	ttl       float64
	threshold float64
	nextID    int64
}

// NewTracker returns a tracker whose boxes live ttl milliseconds past their
// last update.
func NewTracker(ttl float64) *Tracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Tracker{
		ttl:       ttl,
		threshold: DefaultOverlapThreshold,
	}
}

// Update matches every detection against the active boxes. The first box
// overlapping enough takes over the detection, otherwise a new box starts.
func (t *Tracker) Update(detections []Detection) {
	for _, d := range detections {
		if box := t.match(d.Box); box != nil {
			box.Box = d.Box
			box.Score = d.mean()
			box.Expires = t.ttl
			box.Index = d.Index
			continue
		}

		t.nextID++
		t.boxes = append(t.boxes, &ActiveBox{
			ID:      t.nextID,
			Box:     d.Box,
			Score:   d.mean(),
			Expires: t.ttl,
			Index:   d.Index,
		})
	}
}

func (t *Tracker) match(b schema.Box) *ActiveBox {
	for _, box := range t.boxes {
		if SameRegion(box.Box, b, t.threshold) {
			return box
		}
	}
	return nil
}

// Expire ages every box by elapsed milliseconds and drops the ones that
// ran out. It returns how many were dropped.
func (t *Tracker) Expire(elapsed float64) int {
	kept := t.boxes[:0]
	for _, box := range t.boxes {
		box.Expires -= elapsed
		if box.Expires > 0 {
			kept = append(kept, box)
		}
	}

	removed := len(t.boxes) - len(kept)
	for i := len(kept); i < len(t.boxes); i++ {
		t.boxes[i] = nil
	}
	t.boxes = kept
	return removed
}

// BoxAt returns the first box, in insertion order, containing the point.
func (t *Tracker) BoxAt(x, y float64) (ActiveBox, bool) {
	for _, box := range t.boxes {
		if box.Box.Contains(x, y) {
			return *box, true
		}
	}
	return ActiveBox{}, false
}

// Boxes returns a copy of the active boxes.
func (t *Tracker) Boxes() []ActiveBox {
	result := make([]ActiveBox, len(t.boxes))
	for i, box := range t.boxes {
		result[i] = *box
	}
	return result
}

func (t *Tracker) Len() int {
	return len(t.boxes)
}

func (t *Tracker) TTL() float64 {
	return t.ttl
}

// Reset forgets every box. Identities are not reused afterwards.
func (t *Tracker) Reset() {
	t.boxes = nil
}
