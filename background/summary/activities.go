package summary

import (
	"context"
	"fmt"

	"go.uber.org/cadence/activity"
	"go.uber.org/zap"

	"github.com/roarscore/roarscore-api/schema"
	"github.com/roarscore/roarscore-api/summary"
)

var ErrEmptyProfile = fmt.Errorf("reaction profile has no emotions")

// BuildSummaryActivity replays a schedule with the given reaction profile.
// A heartbeat is recorded after every segment.
func (s *SummaryWorker) BuildSummaryActivity(ctx context.Context, profileID string, schedule []schema.ScheduleSegment) ([]schema.SummaryRecord, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Load reaction profile.", zap.String("profileID", profileID))

	profile, err := s.Store.GetProfile(profileID)
	if err != nil {
		return nil, err
	}
	if len(profile.Emotions) == 0 {
		return nil, ErrEmptyProfile
	}

	b := summary.Builder{
		Config:  s.config,
		Profile: profile.Emotions,
		Source:  s.Source,
		Progress: func(done, total int) {
			activity.RecordHeartbeat(ctx, done)
			logger.Debug("Replay progress.", zap.Int("done", done), zap.Int("total", total))
		},
	}

	records, err := b.Build(ctx, schedule)
	if err != nil {
		return nil, err
	}

	logger.Info("Summary built.", zap.Int("records", len(records)))
	return records, nil
}

// SaveSummaryActivity replaces the stored summary of a hierarchy.
func (s *SummaryWorker) SaveSummaryActivity(ctx context.Context, hierarchy string, records []schema.SummaryRecord) error {
	activity.GetLogger(ctx).Info("Save summary.", zap.String("hierarchy", hierarchy), zap.Int("records", len(records)))
	return summary.Save(s.Store, hierarchy, records, schema.DefaultSummaryBatchSize)
}
