package summary

import (
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/cadence"
	"go.uber.org/cadence/workflow"
	"go.uber.org/zap"

	"github.com/roarscore/roarscore-api/schema"
)

var buildActivityOptions = workflow.ActivityOptions{
	ScheduleToStartTimeout: time.Minute,
	StartToCloseTimeout:    2 * time.Hour,
	HeartbeatTimeout:       2 * time.Minute,
	RetryPolicy: &cadence.RetryPolicy{
		InitialInterval:    10 * time.Second,
		BackoffCoefficient: 2,
		MaximumInterval:    5 * time.Minute,
		MaximumAttempts:    3,
	},
}

var saveActivityOptions = workflow.ActivityOptions{
	ScheduleToStartTimeout: time.Minute,
	StartToCloseTimeout:    5 * time.Minute,
}

// SummaryRebuildWorkflow replays the schedule of a hierarchy and replaces its
// stored summary.
func (s *SummaryWorker) SummaryRebuildWorkflow(ctx workflow.Context, hierarchy, profileID string, schedule []schema.ScheduleSegment) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Rebuild summary", zap.String("hierarchy", hierarchy), zap.Int("segments", len(schedule)))

	var records []schema.SummaryRecord
	buildCtx := workflow.WithActivityOptions(ctx, buildActivityOptions)
	if err := workflow.ExecuteActivity(buildCtx, s.BuildSummaryActivity, profileID, schedule).Get(ctx, &records); err != nil {
		logger.Error("Fail to build summary.", zap.String("hierarchy", hierarchy), zap.Error(err))
		sentry.CaptureException(err)
		return err
	}

	if len(records) == 0 {
		logger.Warn("Replay produced no records, keep the stored summary.", zap.String("hierarchy", hierarchy))
		return nil
	}

	saveCtx := workflow.WithActivityOptions(ctx, saveActivityOptions)
	if err := workflow.ExecuteActivity(saveCtx, s.SaveSummaryActivity, hierarchy, records).Get(ctx, nil); err != nil {
		logger.Error("Fail to save summary.", zap.String("hierarchy", hierarchy), zap.Error(err))
		sentry.CaptureException(err)
		return err
	}

	logger.Info("Summary rebuilt", zap.String("hierarchy", hierarchy), zap.Int("records", len(records)))
	return nil
}
