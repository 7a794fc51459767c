package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/cadence/.gen/go/shared"
	"go.uber.org/cadence/workflow"

	"github.com/roarscore/roarscore-api/mocks"
	"github.com/roarscore/roarscore-api/schema"
	"github.com/roarscore/roarscore-api/store"
	"github.com/roarscore/roarscore-api/summary"
	"github.com/roarscore/roarscore-api/utils"
)

func storedSummary(hierarchy string) []schema.SummaryBatch {
	records := make([]schema.SummaryRecord, 1200)
	for i := range records {
		t := float64(i)
		records[i] = schema.SummaryRecord{StartTime: t, EndTime: t + 0.75, Score: 10, People: 2, Count: 4}
	}
	records[300].Score = 900
	records[900].Score = 800
	return summary.Chunk(hierarchy, records, schema.DefaultSummaryBatchSize)
}

func TestGetSummary(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	m := mocks.NewMockStore(ctl)
	m.EXPECT().QuerySummaryBatches(gomock.Eq("tok-1")).Return(storedSummary("tok-1"), nil).Times(1)

	_, r := newTestServer(m, nil)
	w := doRequest(r, "GET", "/api/summaries/tok-1", "")
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")

	var resp struct {
		Hierarchy string                 `json:"hierarchy"`
		Records   []schema.SummaryRecord `json:"records"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "tok-1", resp.Hierarchy)
	assert.Len(t, resp.Records, 1200)
}

func TestGetSummaryMissing(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	m := mocks.NewMockStore(ctl)
	m.EXPECT().QuerySummaryBatches(gomock.Any()).Return(nil, nil).Times(1)

	_, r := newTestServer(m, nil)
	w := doRequest(r, "GET", "/api/summaries/tok-2", "")
	assert.Equal(t, http.StatusNotFound, w.Code, "wrong status code")
}

func TestGetMoments(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	m := mocks.NewMockStore(ctl)
	m.EXPECT().QuerySummaryBatches(gomock.Eq("tok-1")).Return(storedSummary("tok-1"), nil).Times(1)

	_, r := newTestServer(m, nil)
	w := doRequest(r, "GET", "/api/summaries/tok-1/moments?top=2&buffer=10", "")
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")

	var resp struct {
		Moments []schema.Moment `json:"moments"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Moments, 2)
	assert.Equal(t, float64(300), resp.Moments[0].StartTime)
	assert.Equal(t, "00:05", resp.Moments[0].Label)
	assert.Equal(t, float64(900), resp.Moments[1].StartTime)
}

func TestGetMomentsBadQuery(t *testing.T) {
	_, r := newTestServer(nil, nil)

	w := doRequest(r, "GET", "/api/summaries/tok-1/moments?top=many", "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "wrong status code")
}

func TestExportSummary(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	m := mocks.NewMockStore(ctl)
	m.EXPECT().QuerySummaryBatches(gomock.Eq("tok-1")).Return(storedSummary("tok-1"), nil).Times(1)

	_, r := newTestServer(m, nil)
	w := doRequest(r, "GET", "/api/summaries/tok-1/export", "")
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "tok-1.parquet")

	records, err := summary.ReadParquet(bytes.NewReader(w.Body.Bytes()))
	assert.NoError(t, err)
	assert.Len(t, records, 1200)
	assert.Equal(t, float64(900), records[300].Score)
}

func TestRebuildSummary(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	m := mocks.NewMockStore(ctl)
	c := mocks.NewMockCadenceClient(ctl)

	m.EXPECT().GetProfile(gomock.Eq("cheer")).Return(&schema.ReactionProfile{ID: "cheer"}, nil).Times(1)
	c.EXPECT().
		StartWorkflow(gomock.Any(), gomock.Any(), gomock.Eq(utils.SummaryRebuildWorkflowName),
			gomock.Eq("tok-1"), gomock.Eq("cheer"), gomock.Any()).
		Return(&workflow.Execution{ID: utils.SummaryRebuildWorkflowID("tok-1"), RunID: "run-1"}, nil).
		Times(1)

	_, r := newTestServer(m, c)
	body := `{"profile_id": "cheer", "schedule": [{"url": "seg-0", "start": 0, "duration": 10}]}`

	w := doRequest(r, "POST", "/secret/summaries/tok-1/rebuild", body)
	assert.Equal(t, http.StatusForbidden, w.Code, "admin key is required")

	w = doRequest(r, "POST", "/secret/summaries/tok-1/rebuild", body, "Api-Token", testAdminKey)
	assert.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "summary-rebuild-tok-1")
	assert.Contains(t, w.Body.String(), "run-1")
}

func TestRebuildSummaryUnknownProfile(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	m := mocks.NewMockStore(ctl)
	c := mocks.NewMockCadenceClient(ctl)
	m.EXPECT().GetProfile(gomock.Any()).Return(nil, store.ErrNotFound).Times(1)

	_, r := newTestServer(m, c)
	w := doRequest(r, "POST", "/secret/summaries/tok-1/rebuild",
		`{"profile_id": "nope", "schedule": [{"url": "seg-0", "start": 0, "duration": 10}]}`,
		"Api-Token", testAdminKey)
	assert.Equal(t, http.StatusNotFound, w.Code, "wrong status code")
}

func TestRebuildWithoutWorker(t *testing.T) {
	_, r := newTestServer(nil, nil)

	w := doRequest(r, "POST", "/secret/summaries/tok-1/rebuild", `{"profile_id": "cheer"}`, "Api-Token", testAdminKey)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code, "wrong status code")
}

func TestRebuildStatus(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	c := mocks.NewMockCadenceClient(ctl)
	c.EXPECT().DescribeWorkflow(gomock.Any(), gomock.Eq("summary-rebuild-tok-1")).Return("COMPLETED", nil).Times(1)
	c.EXPECT().DescribeWorkflow(gomock.Any(), gomock.Eq("summary-rebuild-tok-2")).Return("", &shared.EntityNotExistsError{}).Times(1)
	c.EXPECT().DescribeWorkflow(gomock.Any(), gomock.Eq("summary-rebuild-tok-3")).Return("", errors.New("timeout")).Times(1)

	_, r := newTestServer(nil, c)

	w := doRequest(r, "GET", "/api/summaries/tok-1/rebuild", "")
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")
	assert.Contains(t, w.Body.String(), "COMPLETED")

	w = doRequest(r, "GET", "/api/summaries/tok-2/rebuild", "")
	assert.Equal(t, http.StatusNotFound, w.Code, "wrong status code")

	w = doRequest(r, "GET", "/api/summaries/tok-3/rebuild", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code, "wrong status code")
}
