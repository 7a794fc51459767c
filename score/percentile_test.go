package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentilesEmpty(t *testing.T) {
	assert.Equal(t, [10]float64{}, Percentiles(nil))
}

func TestPercentilesEvenSpread(t *testing.T) {
	scores := make([]float64, 0, 20)
	for i := 20; i > 0; i-- {
		scores = append(scores, float64(i))
	}

	p := Percentiles(scores)
	assert.Equal(t, 1.5, p[0])
	assert.Equal(t, 19.5, p[9])
	assert.Equal(t, float64(20), scores[0], "input must not be reordered")
}

func TestPercentilesFewScores(t *testing.T) {
	p := Percentiles([]float64{5, 1, 3})
	assert.Equal(t, float64(1), p[0])
	assert.Equal(t, float64(0), p[1])
	assert.Equal(t, float64(3), p[3])
	assert.Equal(t, float64(5), p[6])
}
