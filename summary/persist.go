package summary

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
	log "github.com/sirupsen/logrus"

	"github.com/roarscore/roarscore-api/schema"
	"github.com/roarscore/roarscore-api/store"
)

// Save replaces the stored summary of a hierarchy.
func Save(s store.SummaryStore, hierarchy string, records []schema.SummaryRecord, batchSize int) error {
	if _, err := s.DeleteSummaryBatches(hierarchy); err != nil {
		return fmt.Errorf("delete previous summary of %s: %w", hierarchy, err)
	}

	for _, batch := range Chunk(hierarchy, records, batchSize) {
		if err := s.SaveSummaryBatch(batch); err != nil {
			return fmt.Errorf("save %s: %w", batch.Key, err)
		}
	}
	return nil
}

// Load reads and reconstructs the stored summary of a hierarchy. A gap or
// overlap is logged and the records are still returned.
func Load(s store.SummaryStore, hierarchy string) ([]schema.SummaryRecord, error) {
	batches, err := s.QuerySummaryBatches(hierarchy)
	if err != nil {
		return nil, err
	}

	records, err := Reconstruct(batches)
	if err != nil {
		log.WithField("prefix", "summary").WithError(err).Warnf("summary %s", hierarchy)
	}
	return records, nil
}

// RebuildFunc produces a summary from scratch.
type RebuildFunc func(ctx context.Context) ([]schema.SummaryRecord, error)

// Ensure returns the stored summary, building and saving it first when
// nothing is stored.
func Ensure(ctx context.Context, s store.SummaryStore, hierarchy string, rebuild RebuildFunc) ([]schema.SummaryRecord, error) {
	records, err := Load(s, hierarchy)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		return records, nil
	}

	log.WithField("prefix", "summary").Warnf("summary %s missing, rebuilding", hierarchy)
	if rebuild == nil {
		return nil, errors.New("no summary and no way to build one")
	}

	records, err = rebuild(ctx)
	if err != nil {
		return nil, err
	}
	if err := Save(s, hierarchy, records, schema.DefaultSummaryBatchSize); err != nil {
		return nil, err
	}
	return records, nil
}

// WriteParquet archives a summary as a parquet file.
func WriteParquet(w io.Writer, records []schema.SummaryRecord) error {
	writer := parquet.NewGenericWriter[schema.SummaryRecord](w)

	if _, err := writer.Write(records); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write summary to parquet: %w", err)
	}

	return writer.Close()
}

// ReadParquet reads a summary archived by WriteParquet.
func ReadParquet(r io.ReaderAt) ([]schema.SummaryRecord, error) {
	reader := parquet.NewGenericReader[schema.SummaryRecord](r)
	defer reader.Close()

	records := make([]schema.SummaryRecord, reader.NumRows())
	n, err := reader.Read(records)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read summary from parquet: %w", err)
	}
	return records[:n], nil
}
