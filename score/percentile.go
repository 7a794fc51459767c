package score

import (
	"sort"
)

// Percentiles splits the sorted scores into ten equal rank buckets and
// returns each bucket's mean. Buckets with no members are zero.
func Percentiles(scores []float64) [10]float64 {
	var result [10]float64
	n := len(scores)
	if n == 0 {
		return result
	}

	sorted := make([]float64, n)
	copy(sorted, scores)
	sort.Float64s(sorted)

	var sums [10]float64
	var counts [10]int
	for i, s := range sorted {
		bucket := i * 10 / n
		sums[bucket] += s
		counts[bucket]++
	}

	for i := range result {
		if counts[i] > 0 {
			result[i] = sums[i] / float64(counts[i])
		}
	}
	return result
}
