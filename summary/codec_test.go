package summary

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roarscore/roarscore-api/schema"
)

func sampleRecords(n int) []schema.SummaryRecord {
	result := make([]schema.SummaryRecord, n)
	for i := range result {
		t := float64(i)
		result[i] = schema.SummaryRecord{StartTime: t, EndTime: t + 0.75, Score: float64(i%50 - 25), People: float64(i % 7), Count: 4}
	}
	return result
}

func TestChunk(t *testing.T) {
	batches := Chunk("tok-20250101-01", sampleRecords(2500), 1000)

	assert.Len(t, batches, 3)
	assert.Equal(t, "tok-20250101-01-00000", batches[0].Key)
	assert.Equal(t, "tok-20250101-01-01000", batches[1].Key)
	assert.Equal(t, "tok-20250101-01-02000", batches[2].Key)
	assert.Equal(t, 2000, batches[2].Offset)
	assert.Len(t, batches[2].Rows, 500)
	assert.Equal(t, "tok-20250101-01", batches[1].Hierarchy)

	assert.Empty(t, Chunk("empty", nil, 1000))
	assert.Len(t, Chunk("default", sampleRecords(1001), 0), 2)
}

func TestReconstructRoundTrip(t *testing.T) {
	records := sampleRecords(2500)
	batches := Chunk("h", records, 1000)

	// storage returns documents in any order
	batches[0], batches[2] = batches[2], batches[0]

	actual, err := Reconstruct(batches)
	assert.NoError(t, err)
	assert.Equal(t, records, actual)
}

func TestReconstructReportsGap(t *testing.T) {
	batches := Chunk("h", sampleRecords(30), 10)
	batches = append(batches[:1], batches[2:]...)

	actual, err := Reconstruct(batches)
	assert.True(t, errors.Is(err, ErrBatchGapOrOverlap))
	assert.Len(t, actual, 20)
	assert.Equal(t, float64(20), actual[10].StartTime)
}

func TestReconstructReportsOverlap(t *testing.T) {
	batches := []schema.SummaryBatch{
		{Key: "h-00000", Offset: 0, Rows: sampleRecords(10)},
		{Key: "h-00005", Offset: 5, Rows: sampleRecords(2)},
	}

	actual, err := Reconstruct(batches)
	assert.True(t, errors.Is(err, ErrBatchGapOrOverlap))

	// the second batch is spliced in at its offset
	assert.Len(t, actual, 12)
	assert.Equal(t, float64(0), actual[5].StartTime)
	assert.Equal(t, float64(5), actual[7].StartTime)
}

func TestReconstructEmpty(t *testing.T) {
	actual, err := Reconstruct(nil)
	assert.NoError(t, err)
	assert.Empty(t, actual)
}
