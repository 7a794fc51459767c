package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/cadence/.gen/go/shared"

	"github.com/roarscore/roarscore-api/engine"
	"github.com/roarscore/roarscore-api/moment"
	"github.com/roarscore/roarscore-api/schema"
	"github.com/roarscore/roarscore-api/store"
	"github.com/roarscore/roarscore-api/summary"
	"github.com/roarscore/roarscore-api/utils"
)

// loadSummary aborts with 404 when nothing is stored for the hierarchy.
func (s *Server) loadSummary(c *gin.Context) ([]schema.SummaryRecord, bool) {
	records, err := summary.Load(s.store, c.Param("hierarchy"))
	if shouldInterupt(err, c) {
		return nil, false
	}

	if len(records) == 0 {
		abortWithEncoding(c, http.StatusNotFound, errorSummaryNotFound)
		return nil, false
	}
	return records, true
}

func (s *Server) getSummary(c *gin.Context) {
	records, ok := s.loadSummary(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hierarchy": c.Param("hierarchy"),
		"records":   records,
	})
}

func (s *Server) getMoments(c *gin.Context) {
	var params struct {
		TopN       int     `form:"top"`
		MaxMoments int     `form:"max"`
		Buffer     float64 `form:"buffer"`
	}

	if err := c.BindQuery(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	opts := moment.DefaultOptions()
	if params.TopN > 0 {
		opts.TopN = params.TopN
	}
	if params.MaxMoments > 0 {
		opts.MaxMoments = params.MaxMoments
	}
	if params.Buffer > 0 {
		opts.Buffer = params.Buffer
	}

	records, ok := s.loadSummary(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"moments": moment.Find(records, opts),
	})
}

func (s *Server) exportSummary(c *gin.Context) {
	records, ok := s.loadSummary(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := summary.WriteParquet(&buf, records); shouldInterupt(err, c) {
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.parquet", c.Param("hierarchy")))
	c.Data(http.StatusOK, "application/vnd.apache.parquet", buf.Bytes())
}

func (s *Server) rebuildSummary(c *gin.Context) {
	if s.cadenceClient == nil {
		abortWithEncoding(c, http.StatusServiceUnavailable, errorWorkerUnavailable)
		return
	}

	var params struct {
		ProfileID string                   `json:"profile_id" binding:"required"`
		Schedule  []schema.ScheduleSegment `json:"schedule"`
		Fragments []schema.Fragment        `json:"fragments"`
	}

	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}

	schedule := params.Schedule
	if len(schedule) == 0 {
		schedule = engine.MergeFragments(params.Fragments)
	}
	if len(schedule) == 0 {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return
	}

	if _, err := s.store.GetProfile(params.ProfileID); errors.Is(err, store.ErrNotFound) {
		abortWithEncoding(c, http.StatusNotFound, errorProfileNotFound)
		return
	} else if shouldInterupt(err, c) {
		return
	}

	execution, err := utils.TriggerSummaryRebuild(c.Request.Context(), s.cadenceClient, c.Param("hierarchy"), params.ProfileID, schedule)
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorRebuildSummary, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"workflow_id": execution.ID,
		"run_id":      execution.RunID,
	})
}

func (s *Server) rebuildStatus(c *gin.Context) {
	if s.cadenceClient == nil {
		abortWithEncoding(c, http.StatusServiceUnavailable, errorWorkerUnavailable)
		return
	}

	workflowID := utils.SummaryRebuildWorkflowID(c.Param("hierarchy"))
	status, err := s.cadenceClient.DescribeWorkflow(c.Request.Context(), workflowID)
	var notExists *shared.EntityNotExistsError
	if errors.As(err, &notExists) {
		abortWithEncoding(c, http.StatusNotFound, errorSummaryNotFound, err)
		return
	} else if shouldInterupt(err, c) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workflow_id": workflowID,
		"status":      status,
	})
}
