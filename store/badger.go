package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/roarscore/roarscore-api/schema"
)

const badgerLogPrefix = "badger"

// badgerDB keeps the same documents as the mongo store in an embedded
// key value store. Values are bson documents under "{collection}/{id}".
type badgerDB struct {
	db *badger.DB
}

// NewBadgerStore opens an embedded store at path. An empty path keeps
// everything in memory.
func NewBadgerStore(path string) (Store, error) {
	opts := badger.DefaultOptions(path).
		WithCompression(options.ZSTD).
		WithNumVersionsToKeep(1).
		WithLogger(log.WithField("prefix", badgerLogPrefix))
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}

	log.WithField("prefix", badgerLogPrefix).Infof("opened badger store %q", path)
	return &badgerDB{db: db}, nil
}

func documentKey(collection, id string) []byte {
	return []byte(collection + "/" + id)
}

func (b *badgerDB) put(collection, id string, doc interface{}) error {
	data, err := bson.Marshal(doc)
	if err != nil {
		return err
	}

	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(documentKey(collection, id), data)
	})
}

func (b *badgerDB) get(collection, id string, doc interface{}) error {
	return b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(documentKey(collection, id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			return bson.Unmarshal(val, doc)
		})
	})
}

// scan calls fn with the raw value of every document of a collection.
func (b *badgerDB) scan(collection string, fn func(key []byte, val []byte) error) error {
	prefix := []byte(collection + "/")

	return b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)
			if err := item.Value(func(val []byte) error {
				return fn(key, val)
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *badgerDB) SaveSummaryBatch(batch schema.SummaryBatch) error {
	if batch.Key == "" {
		batch.Key = schema.SummaryBatchKey(batch.Hierarchy, batch.Offset)
	}
	return b.put(schema.SummaryCollection, batch.Key, batch)
}

func (b *badgerDB) GetSummaryBatch(key string) (*schema.SummaryBatch, error) {
	var batch schema.SummaryBatch
	if err := b.get(schema.SummaryCollection, key, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

func (b *badgerDB) QuerySummaryBatches(hierarchy string) ([]schema.SummaryBatch, error) {
	batches := make([]schema.SummaryBatch, 0)

	err := b.scan(schema.SummaryCollection, func(key, val []byte) error {
		// keys of another hierarchy may share the prefix, the document decides
		if !strings.HasPrefix(string(key), string(documentKey(schema.SummaryCollection, hierarchy))) {
			return nil
		}

		var batch schema.SummaryBatch
		if err := bson.Unmarshal(val, &batch); err != nil {
			return err
		}
		if batch.Hierarchy == hierarchy {
			batches = append(batches, batch)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(batches, func(i, j int) bool {
		return batches[i].Offset < batches[j].Offset
	})
	return batches, nil
}

func (b *badgerDB) DeleteSummaryBatches(hierarchy string) (int64, error) {
	batches, err := b.QuerySummaryBatches(hierarchy)
	if err != nil {
		return 0, err
	}
	if len(batches) == 0 {
		return 0, nil
	}

	wb := b.db.NewWriteBatch()
	defer wb.Cancel()

	for _, batch := range batches {
		if err := wb.Delete(documentKey(schema.SummaryCollection, batch.Key)); err != nil {
			return 0, err
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, err
	}

	return int64(len(batches)), nil
}

func (b *badgerDB) SaveProfile(profile schema.ReactionProfile) error {
	if profile.ID == "" {
		return errors.New("empty profile id")
	}
	if err := profile.Emotions.Validate(); err != nil {
		return err
	}
	return b.put(schema.ProfileCollection, profile.ID, profile)
}

func (b *badgerDB) GetProfile(id string) (*schema.ReactionProfile, error) {
	var profile schema.ReactionProfile
	if err := b.get(schema.ProfileCollection, id, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (b *badgerDB) ListProfiles() ([]schema.ReactionProfile, error) {
	profiles := make([]schema.ReactionProfile, 0)

	err := b.scan(schema.ProfileCollection, func(_, val []byte) error {
		var profile schema.ReactionProfile
		if err := bson.Unmarshal(val, &profile); err != nil {
			return err
		}
		profiles = append(profiles, profile)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return profiles, nil
}

func (b *badgerDB) Ping() error {
	if b.db.IsClosed() {
		return errors.New("badger store is closed")
	}
	return nil
}

func (b *badgerDB) Close() {
	log.WithField("prefix", badgerLogPrefix).Info("closing badger store")
	if err := b.db.Close(); err != nil {
		log.WithField("prefix", badgerLogPrefix).WithError(err).Error("close badger store")
	}
}
