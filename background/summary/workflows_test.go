package summary

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/cadence/testsuite"
	"go.uber.org/cadence/worker"
	"go.uber.org/zap"

	"github.com/roarscore/roarscore-api/external/cadence"
	"github.com/roarscore/roarscore-api/schema"
)

var testSchedule = []schema.ScheduleSegment{
	{URL: "https://cdn.example.com/seg-0.json", Start: 0, Duration: 10},
	{URL: "https://cdn.example.com/seg-1.json", Start: 10, Duration: 10},
}

type SummaryWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env    *testsuite.TestWorkflowEnvironment
	worker *SummaryWorker
}

func (ts *SummaryWorkflowTestSuite) SetupSuite() {
	ts.SetLogger(zap.NewNop())
	ts.worker = testWorker
}

func (ts *SummaryWorkflowTestSuite) SetupTest() {
	ts.env = ts.NewTestWorkflowEnvironment()
	ts.env.SetWorkerOptions(worker.Options{
		DataConverter: cadence.NewMsgPackDataConverter(),
	})
}

// TestSummaryRebuildWorkflowNormalRun tests that the built records are saved under the hierarchy
func (ts *SummaryWorkflowTestSuite) TestSummaryRebuildWorkflowNormalRun() {
	records := []schema.SummaryRecord{
		{StartTime: 0, EndTime: 0.75, Score: 12, People: 3, Count: 4},
		{StartTime: 1, EndTime: 1.75, Score: 20, People: 3, Count: 4},
	}

	ts.env.OnActivity(ts.worker.BuildSummaryActivity, mock.Anything, mock.Anything, mock.Anything).Return(
		func(ctx context.Context, profileID string, schedule []schema.ScheduleSegment) ([]schema.SummaryRecord, error) {
			ts.Equal("default", profileID)
			ts.Equal(testSchedule, schedule)
			return records, nil
		})

	ts.env.OnActivity(ts.worker.SaveSummaryActivity, mock.Anything, mock.Anything, mock.Anything).Return(
		func(ctx context.Context, hierarchy string, saved []schema.SummaryRecord) error {
			ts.Equal("tok-20250101-01", hierarchy)
			ts.Equal(records, saved)
			return nil
		})

	ts.env.ExecuteWorkflow(ts.worker.SummaryRebuildWorkflow, "tok-20250101-01", "default", testSchedule)

	ts.env.AssertNumberOfCalls(ts.T(), "BuildSummaryActivity", 1)
	ts.env.AssertNumberOfCalls(ts.T(), "SaveSummaryActivity", 1)
	ts.True(ts.env.IsWorkflowCompleted())
	ts.NoError(ts.env.GetWorkflowError())
}

// TestSummaryRebuildWorkflowEmptyReplay keeps the stored summary when the replay produced nothing
func (ts *SummaryWorkflowTestSuite) TestSummaryRebuildWorkflowEmptyReplay() {
	ts.env.OnActivity(ts.worker.BuildSummaryActivity, mock.Anything, mock.Anything, mock.Anything).Return(
		[]schema.SummaryRecord{}, nil)

	ts.env.ExecuteWorkflow(ts.worker.SummaryRebuildWorkflow, "tok-20250101-01", "default", testSchedule)

	ts.env.AssertNumberOfCalls(ts.T(), "BuildSummaryActivity", 1)
	ts.env.AssertNumberOfCalls(ts.T(), "SaveSummaryActivity", 0)
	ts.True(ts.env.IsWorkflowCompleted())
	ts.NoError(ts.env.GetWorkflowError())
}

// TestSummaryRebuildWorkflowBuildFailed stops the workflow when the replay fails
func (ts *SummaryWorkflowTestSuite) TestSummaryRebuildWorkflowBuildFailed() {
	ts.env.OnActivity(ts.worker.BuildSummaryActivity, mock.Anything, mock.Anything, mock.Anything).Return(
		nil, errors.New("profile not found"))

	ts.env.ExecuteWorkflow(ts.worker.SummaryRebuildWorkflow, "tok-20250101-01", "missing", testSchedule)

	ts.env.AssertNumberOfCalls(ts.T(), "SaveSummaryActivity", 0)
	ts.True(ts.env.IsWorkflowCompleted())
	ts.Error(ts.env.GetWorkflowError())
}

func TestSummaryWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(SummaryWorkflowTestSuite))
}
