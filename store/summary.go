package store

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roarscore/roarscore-api/schema"
)

// SummaryStore keeps summary batch documents keyed by
// "{hierarchy}-{offset:05d}".
type SummaryStore interface {
	SaveSummaryBatch(batch schema.SummaryBatch) error
	GetSummaryBatch(key string) (*schema.SummaryBatch, error)
	QuerySummaryBatches(hierarchy string) ([]schema.SummaryBatch, error)
	DeleteSummaryBatches(hierarchy string) (int64, error)
}

// SaveSummaryBatch replaces the batch document with the same key
func (m *mongoDB) SaveSummaryBatch(batch schema.SummaryBatch) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database)

	if batch.Key == "" {
		batch.Key = schema.SummaryBatchKey(batch.Hierarchy, batch.Offset)
	}

	_, err := c.Collection(schema.SummaryCollection).ReplaceOne(ctx,
		bson.M{"_id": batch.Key},
		batch,
		options.Replace().SetUpsert(true))
	if err != nil {
		log.WithField("prefix", mongoLogPrefix).WithError(err).Errorf("save summary batch %s", batch.Key)
		return err
	}

	return nil
}

// GetSummaryBatch returns ErrNotFound for a missing key
func (m *mongoDB) GetSummaryBatch(key string) (*schema.SummaryBatch, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database)

	var batch schema.SummaryBatch
	if err := c.Collection(schema.SummaryCollection).FindOne(ctx, bson.M{"_id": key}).Decode(&batch); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &batch, nil
}

// QuerySummaryBatches returns every batch of a hierarchy in offset order
func (m *mongoDB) QuerySummaryBatches(hierarchy string) ([]schema.SummaryBatch, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database)

	cursor, err := c.Collection(schema.SummaryCollection).Find(ctx,
		bson.M{"hierarchy": hierarchy},
		options.Find().SetSort(bson.M{"offset": 1}))
	if err != nil {
		return nil, err
	}

	batches := make([]schema.SummaryBatch, 0)
	if err := cursor.All(ctx, &batches); err != nil {
		return nil, err
	}

	return batches, nil
}

// DeleteSummaryBatches removes every batch of a hierarchy
func (m *mongoDB) DeleteSummaryBatches(hierarchy string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database)

	result, err := c.Collection(schema.SummaryCollection).DeleteMany(ctx, bson.M{"hierarchy": hierarchy})
	if err != nil {
		return 0, err
	}

	return result.DeletedCount, nil
}
