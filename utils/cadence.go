package utils

import (
	"context"
	"fmt"
	"time"

	cadenceClient "go.uber.org/cadence/client"
	"go.uber.org/cadence/workflow"

	"github.com/roarscore/roarscore-api/external/cadence"
	"github.com/roarscore/roarscore-api/schema"
)

const (
	TaskListName = "roarscore-summary-tasks"

	SummaryRebuildWorkflowName = "SummaryRebuildWorkflow"
)

// SummaryRebuildWorkflowID is unique per hierarchy so only one rebuild of a
// summary runs at a time.
func SummaryRebuildWorkflowID(hierarchy string) string {
	return fmt.Sprintf("summary-rebuild-%s", hierarchy)
}

// TriggerSummaryRebuild is a helper function to start the workflow which
// replays a schedule and saves its summary.
func TriggerSummaryRebuild(c context.Context, client cadence.Client, hierarchy, profileID string, schedule []schema.ScheduleSegment) (*workflow.Execution, error) {
	return client.StartWorkflow(c,
		cadenceClient.StartWorkflowOptions{
			ID:                           SummaryRebuildWorkflowID(hierarchy),
			TaskList:                     TaskListName,
			ExecutionStartToCloseTimeout: 6 * time.Hour,
			WorkflowIDReusePolicy:        cadenceClient.WorkflowIDReusePolicyAllowDuplicate,
		}, SummaryRebuildWorkflowName, hierarchy, profileID, schedule)
}
