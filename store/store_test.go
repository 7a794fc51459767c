package store

import (
	"github.com/stretchr/testify/suite"

	"github.com/roarscore/roarscore-api/schema"
)

// StoreTestSuite runs the same checks against every Store implementation.
type StoreTestSuite struct {
	suite.Suite
	store Store
}

func records(n int, start float64) []schema.SummaryRecord {
	result := make([]schema.SummaryRecord, n)
	for i := range result {
		t := start + float64(i)
		result[i] = schema.SummaryRecord{StartTime: t, EndTime: t + 0.75, Score: float64(i * 3), People: 2, Count: 4}
	}
	return result
}

func (s *StoreTestSuite) TestSummaryBatchLifecycle() {
	first := schema.SummaryBatch{Hierarchy: "tok-20250101-01", Offset: 0, Rows: records(3, 0)}
	second := schema.SummaryBatch{Hierarchy: "tok-20250101-01", Offset: 3, Rows: records(2, 3)}
	other := schema.SummaryBatch{Hierarchy: "tok-20250101-01-b", Offset: 0, Rows: records(1, 0)}

	// save out of order to prove the query sorts
	s.NoError(s.store.SaveSummaryBatch(second))
	s.NoError(s.store.SaveSummaryBatch(first))
	s.NoError(s.store.SaveSummaryBatch(other))

	batch, err := s.store.GetSummaryBatch("tok-20250101-01-00003")
	s.NoError(err)
	s.Equal("tok-20250101-01", batch.Hierarchy)
	s.Equal(3, batch.Offset)
	s.Equal(second.Rows, batch.Rows)

	batches, err := s.store.QuerySummaryBatches("tok-20250101-01")
	s.NoError(err)
	s.Len(batches, 2)
	s.Equal(0, batches[0].Offset)
	s.Equal(3, batches[1].Offset)
	s.Equal(first.Rows, batches[0].Rows)

	deleted, err := s.store.DeleteSummaryBatches("tok-20250101-01")
	s.NoError(err)
	s.Equal(int64(2), deleted)

	batches, err = s.store.QuerySummaryBatches("tok-20250101-01")
	s.NoError(err)
	s.Empty(batches)

	_, err = s.store.GetSummaryBatch("tok-20250101-01-00000")
	s.Equal(ErrNotFound, err)

	batches, err = s.store.QuerySummaryBatches("tok-20250101-01-b")
	s.NoError(err)
	s.Len(batches, 1)
}

func (s *StoreTestSuite) TestSummaryBatchReplace() {
	batch := schema.SummaryBatch{Hierarchy: "replace", Offset: 0, Rows: records(2, 0)}
	s.NoError(s.store.SaveSummaryBatch(batch))

	batch.Rows = records(1, 10)
	s.NoError(s.store.SaveSummaryBatch(batch))

	stored, err := s.store.GetSummaryBatch(schema.SummaryBatchKey("replace", 0))
	s.NoError(err)
	s.Equal(batch.Rows, stored.Rows)
}

func (s *StoreTestSuite) TestProfiles() {
	crowd := schema.ReactionProfile{ID: "crowd", Name: "Crowd", Emotions: schema.Profile{"Joy": 1, "Boredom": -0.5}}
	calm := schema.ReactionProfile{ID: "calm", Name: "Calm", Emotions: schema.Profile{"Calmness": 1}}

	s.NoError(s.store.SaveProfile(crowd))
	s.NoError(s.store.SaveProfile(calm))
	s.Error(s.store.SaveProfile(schema.ReactionProfile{ID: "bad", Emotions: schema.Profile{"Joy": 2}}))
	s.Error(s.store.SaveProfile(schema.ReactionProfile{}))

	profile, err := s.store.GetProfile("crowd")
	s.NoError(err)
	s.Equal(crowd, *profile)

	profiles, err := s.store.ListProfiles()
	s.NoError(err)
	s.Len(profiles, 2)
	s.Equal("calm", profiles[0].ID)

	_, err = s.store.GetProfile("missing")
	s.Equal(ErrNotFound, err)
}

func (s *StoreTestSuite) TestPing() {
	s.NoError(s.store.Ping())
}

func profileFixture() schema.ReactionProfile {
	return schema.ReactionProfile{ID: "crowd", Name: "Crowd", Emotions: schema.Profile{"Joy": 1}}
}
