package tracking

import (
	"math"

	"github.com/roarscore/roarscore-api/schema"
)

const DefaultOverlapThreshold = 0.4

// OverlapRatio is the intersection area of two boxes divided by the
// smaller of their areas. Boxes without area have a ratio of zero.
func OverlapRatio(a, b schema.Box) float64 {
	smaller := math.Min(a.Area(), b.Area())
	if smaller == 0 {
		return 0
	}

	w := math.Max(0, math.Min(a.X+a.W, b.X+b.W)-math.Max(a.X, b.X))
	h := math.Max(0, math.Min(a.Y+a.H, b.Y+b.H)-math.Max(a.Y, b.Y))
	return w * h / smaller
}

// SameRegion reports whether two boxes overlap enough to be one identity.
// Degenerate boxes never match anything.
func SameRegion(a, b schema.Box, threshold float64) bool {
	if a.Area() == 0 || b.Area() == 0 {
		return false
	}
	return OverlapRatio(a, b) >= threshold
}
