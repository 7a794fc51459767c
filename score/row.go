package score

import (
	"math"

	"github.com/roarscore/roarscore-api/schema"
)

const DefaultAlpha = 0.01

// ScoreRow annotates a detection row against a reaction profile.
//
// Every reading whose profile weight is nonzero gets a signed reaction
// r = confidence * weight * 1000 and a softmax weight exp(alpha*|r|). The row
// score is the softmax weighted mean of those reactions, and each core bucket
// on the row keeps the same bookkeeping for its own readings. A row with no
// weighted readings scores exactly zero.
func ScoreRow(row *schema.DetectionRow, profile schema.Profile, alpha float64) {
	var acc, wsum float64
	count := 0
	row.Cores = [schema.CoreCount]schema.CoreAggregate{}

	for i := range row.Emotions {
		e := &row.Emotions[i]
		e.Core = schema.CoreOf(e.Name)

		weight := profile.Weight(e.Name)
		if weight == 0 || math.IsNaN(weight) {
			e.Scored = false
			e.Reaction = 0
			e.Weight = 0
			continue
		}

		r := e.Confidence * weight * 1000
		w := math.Exp(alpha * math.Abs(r))
		e.Reaction = r
		e.Weight = w
		e.Scored = true

		acc += w * r
		wsum += w
		count++

		if e.Core == schema.CoreUnknown {
			continue
		}
		c := &row.Cores[e.Core]
		c.Accumulator += w * r
		c.WeightSum += w
		c.Count++
	}

	row.Count = count
	row.Score = weightedMean(acc, wsum, count)
	for i := range row.Cores {
		c := &row.Cores[i]
		c.Score = weightedMean(c.Accumulator, c.WeightSum, c.Count)
	}
}

// ScoreRows scores a batch in place.
func ScoreRows(rows []schema.DetectionRow, profile schema.Profile, alpha float64) {
	for i := range rows {
		ScoreRow(&rows[i], profile, alpha)
	}
}

func weightedMean(acc, wsum float64, count int) float64 {
	if count == 0 || wsum == 0 {
		return 0
	}
	return acc / wsum
}

// SoftmaxMeanSigned is the signed mean of values weighted by exp(alpha*|v|).
// Large magnitudes dominate as alpha grows; alpha of zero is a plain mean.
func SoftmaxMeanSigned(values []float64, alpha float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var acc, wsum float64
	for _, v := range values {
		w := math.Exp(alpha * math.Abs(v))
		acc += w * v
		wsum += w
	}
	if wsum == 0 || math.IsInf(wsum, 0) {
		return softmaxMeanShifted(values, alpha)
	}
	return acc / wsum
}

// softmaxMeanShifted subtracts the largest exponent before weighting so huge
// magnitudes do not overflow to Inf.
func softmaxMeanShifted(values []float64, alpha float64) float64 {
	maxExp := math.Inf(-1)
	for _, v := range values {
		maxExp = math.Max(maxExp, alpha*math.Abs(v))
	}

	var acc, wsum float64
	for _, v := range values {
		w := math.Exp(alpha*math.Abs(v) - maxExp)
		acc += w * v
		wsum += w
	}
	if wsum == 0 {
		return 0
	}
	return acc / wsum
}
