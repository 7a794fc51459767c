package score

import (
	"math"
)

const (
	DefaultDampen   = 0.05
	DefaultUIMid    = 500
	DefaultUISpread = 600
	DefaultUIClip   = 2500

	minCombineAlpha = 0.0005
	squashScale     = 1200
)

// Combiner reduces the scores of one tick into a single value.
type Combiner struct {
	Alpha         float64
	Dampen        float64
	CrowdExponent float64
	Squash        bool
	UIMid         float64
	UISpread      float64
	UIClip        float64
}

// NewCombiner returns a combiner with the default dampening and display range.
func NewCombiner(alpha float64, squash bool) Combiner {
	return Combiner{
		Alpha:         alpha,
		Dampen:        DefaultDampen,
		CrowdExponent: 0.5,
		Squash:        squash,
		UIMid:         DefaultUIMid,
		UISpread:      DefaultUISpread,
		UIClip:        DefaultUIClip,
	}
}

// Raw combines without display squashing. The result is unbounded and is
// the value summaries store.
func (c Combiner) Raw(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}

	alpha := math.Max(minCombineAlpha, c.Alpha/2)
	mean := SoftmaxMeanSigned(scores, alpha)
	return mean * c.CrowdScale(len(scores)) * c.Dampen
}

// Combine is Raw mapped into the display range when squashing is enabled.
func (c Combiner) Combine(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}

	raw := c.Raw(scores)
	if !c.Squash {
		return raw
	}
	return c.SquashToUI(raw)
}

// CrowdScale is the sublinear crowd factor max(1, n)^exponent.
func (c Combiner) CrowdScale(n int) float64 {
	exp := c.CrowdExponent
	if exp == 0 {
		exp = 0.5
	}
	return math.Pow(math.Max(1, float64(n)), exp)
}

// SquashToUI maps a raw score into [0, 1000] through a saturating tanh.
func (c Combiner) SquashToUI(raw float64) float64 {
	clipped := Clamp(raw, -c.UIClip, c.UIClip)
	v := c.UIMid + c.UISpread*math.Tanh(clipped/squashScale)
	return Clamp(math.Round(v), 0, 1000)
}

// CombineCores runs the combiner once per core bucket.
func (c Combiner) CombineCores(cores [][]float64) []float64 {
	result := make([]float64, len(cores))
	for i, scores := range cores {
		result[i] = c.Combine(scores)
	}
	return result
}
