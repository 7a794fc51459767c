package api

import (
	"github.com/roarscore/roarscore-api/engine"
	"github.com/roarscore/roarscore-api/store"
	"github.com/roarscore/roarscore-api/summary"
	"github.com/roarscore/roarscore-api/window"
)

var (
	errorMessageMap = map[int64]string{
		999:  "internal server error",
		1010: "invalid parameters",
		1011: "cannot parse request",

		1100: "session not found",
		1101: "too many sessions",
		1102: window.ErrInvalidOrder.Error(),
		1103: "no tracked box at this point",
		1104: engine.ErrScheduleMismatch.Error(),

		1200: "summary not found",
		1201: summary.ErrBatchGapOrOverlap.Error(),
		1202: "fail to start summary rebuild",
		1203: "background worker unavailable",

		1300: store.ErrNotFound.Error(),
		1301: "invalid reaction profile",
	}

	errorInternalServer     = errorJSON(999)
	errorInvalidParameters  = errorJSON(1010)
	errorCannotParseRequest = errorJSON(1011)

	errorSessionNotFound = errorJSON(1100)
	errorTooManySessions = errorJSON(1101)
	errorInvalidOrder    = errorJSON(1102)
	errorNoBox           = errorJSON(1103)

	errorSummaryNotFound   = errorJSON(1200)
	errorRebuildSummary    = errorJSON(1202)
	errorWorkerUnavailable = errorJSON(1203)

	errorProfileNotFound = errorJSON(1300)
	errorInvalidProfile  = errorJSON(1301)
)

type ErrorResponse struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

// errorJSON converts an error code to a standardized error object
func errorJSON(code int64) ErrorResponse {
	var message string
	if msg, ok := errorMessageMap[code]; ok {
		message = msg
	} else {
		message = "unknown"
	}

	return ErrorResponse{
		Code:    code,
		Message: message,
	}
}
