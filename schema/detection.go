package schema

// Box is an axis aligned rectangle in source video pixel space.
type Box struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	W float64 `json:"w" bson:"w"`
	H float64 `json:"h" bson:"h"`
}

// Area returns w*h. Malformed boxes with a negative side report zero.
func (b Box) Area() float64 {
	if b.W <= 0 || b.H <= 0 {
		return 0
	}
	return b.W * b.H
}

// Contains reports whether the point lies inside the box. The left and top
// edges are inclusive, the right and bottom edges exclusive.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// EmotionReading is one emotion estimate attached to a detection row.
// Confidence is the detector output; Reaction and Weight are filled in
// once by the row scorer.
type EmotionReading struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"score"`
	Core       Core    `json:"-"`
	Reaction   float64 `json:"reaction,omitempty"`
	Weight     float64 `json:"weight,omitempty"`
	Scored     bool    `json:"scored,omitempty"`
}

// Value is the signed reaction for a scored reading and the raw
// confidence for a reading the profile ignores.
func (e EmotionReading) Value() float64 {
	if e.Scored {
		return e.Reaction
	}
	return e.Confidence
}

// CoreAggregate is the weighted-mean bookkeeping of one core bucket on a row.
type CoreAggregate struct {
	Score       float64 `json:"score"`
	Count       int     `json:"count"`
	WeightSum   float64 `json:"wsum"`
	Accumulator float64 `json:"acc"`
}

// DetectionRow is a single detected face in a single frame.
type DetectionRow struct {
	Index    int                      `json:"index"`
	Time     float64                  `json:"time"`
	Frame    int                      `json:"frame"`
	Box      Box                      `json:"box"`
	Emotions []EmotionReading         `json:"emotions"`
	Score    float64                  `json:"reaction_score"`
	Count    int                      `json:"count"`
	Cores    [CoreCount]CoreAggregate `json:"cores"`
}

// HasCore reports whether at least one reading contributed to the core bucket.
func (r *DetectionRow) HasCore(c Core) bool {
	if c < 0 || int(c) >= CoreCount {
		return false
	}
	return r.Cores[c].Count > 0
}
