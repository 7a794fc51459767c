package summary

import (
	"errors"
	"fmt"
	"sort"

	"github.com/roarscore/roarscore-api/schema"
)

var ErrBatchGapOrOverlap = errors.New("summary batches are not contiguous")

// BatchKey is the storage key of the batch starting at offset.
func BatchKey(hierarchy string, offset int) string {
	return schema.SummaryBatchKey(hierarchy, offset)
}

// Chunk splits a summary into batches of batchSize records.
func Chunk(hierarchy string, records []schema.SummaryRecord, batchSize int) []schema.SummaryBatch {
	if batchSize <= 0 {
		batchSize = schema.DefaultSummaryBatchSize
	}

	batches := make([]schema.SummaryBatch, 0, (len(records)+batchSize-1)/batchSize)
	for offset := 0; offset < len(records); offset += batchSize {
		end := offset + batchSize
		if end > len(records) {
			end = len(records)
		}

		rows := make([]schema.SummaryRecord, end-offset)
		copy(rows, records[offset:end])
		batches = append(batches, schema.SummaryBatch{
			Key:       BatchKey(hierarchy, offset),
			Hierarchy: hierarchy,
			Offset:    offset,
			Rows:      rows,
		})
	}
	return batches
}

// Reconstruct sorts batches by offset and splices each one into the result
// at its offset. The records are always returned; when offsets leave a gap
// or overlap the error wraps ErrBatchGapOrOverlap.
func Reconstruct(batches []schema.SummaryBatch) ([]schema.SummaryRecord, error) {
	sorted := make([]schema.SummaryBatch, len(batches))
	copy(sorted, batches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	result := make([]schema.SummaryRecord, 0)
	var integrity error

	for _, batch := range sorted {
		if batch.Offset != len(result) && integrity == nil {
			integrity = fmt.Errorf("%w: batch %s at offset %d, expected %d",
				ErrBatchGapOrOverlap, batch.Key, batch.Offset, len(result))
		}

		at := batch.Offset
		if at > len(result) {
			at = len(result)
		}
		if at < 0 {
			at = 0
		}

		spliced := make([]schema.SummaryRecord, 0, len(result)+len(batch.Rows))
		spliced = append(spliced, result[:at]...)
		spliced = append(spliced, batch.Rows...)
		spliced = append(spliced, result[at:]...)
		result = spliced
	}

	return result, integrity
}
