package summary

import (
	"github.com/uber-go/tally"
	"go.uber.org/cadence/.gen/go/cadence/workflowserviceclient"
	"go.uber.org/cadence/activity"
	"go.uber.org/cadence/worker"
	"go.uber.org/cadence/workflow"
	"go.uber.org/zap"

	"github.com/roarscore/roarscore-api/background"
	"github.com/roarscore/roarscore-api/engine"
	"github.com/roarscore/roarscore-api/external/cadence"
	"github.com/roarscore/roarscore-api/external/detection"
	"github.com/roarscore/roarscore-api/store"
	"github.com/roarscore/roarscore-api/utils"
)

type SummaryWorker struct {
	background.Background
	domain string
	config engine.Config
}

func NewSummaryWorker(domain string, s store.Store, source detection.Source, cfg engine.Config) *SummaryWorker {
	return &SummaryWorker{
		Background: background.Background{Store: s, Source: source},
		domain:     domain,
		config:     cfg,
	}
}

func (s *SummaryWorker) Register() {
	workflow.RegisterWithOptions(s.SummaryRebuildWorkflow, workflow.RegisterOptions{Name: utils.SummaryRebuildWorkflowName})

	activity.RegisterWithOptions(s.BuildSummaryActivity, activity.RegisterOptions{Name: "BuildSummaryActivity"})
	activity.RegisterWithOptions(s.SaveSummaryActivity, activity.RegisterOptions{Name: "SaveSummaryActivity"})
}

func (s *SummaryWorker) Start(service workflowserviceclient.Interface, logger *zap.Logger) {
	workerOptions := worker.Options{
		Logger:        logger,
		MetricsScope:  tally.NewTestScope(utils.TaskListName, map[string]string{}),
		DataConverter: cadence.NewMsgPackDataConverter(),
	}

	w := worker.New(
		service,
		s.domain,
		utils.TaskListName,
		workerOptions)

	if err := w.Start(); err != nil {
		panic("Failed to start worker")
	}

	logger.Info("Started Worker.", zap.String("worker", utils.TaskListName))

	select {}
}
