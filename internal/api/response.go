package api

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"calclog/pkg/calclog"
)

// Response represents a successful API response with unified format.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse represents an error API response with structured information.
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// writeSuccess writes a successful response with data.
func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{
		Code: 0,
		Data: data,
	})
}

// writeSuccessWithMessage writes a successful response with data and message.
func writeSuccessWithMessage(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// writeErrorResponse writes an error response. Structured errors pick their
// own HTTP status; fallbackStatus is used for everything else.
func writeErrorResponse(w http.ResponseWriter, r *http.Request, fallbackStatus int, err error) {
	httpStatus := fallbackStatus
	response := ErrorResponse{
		Message:   err.Error(),
		RequestID: middleware.GetReqID(r.Context()),
	}

	if code := calclog.CodeOf(err); code != "" {
		response.ErrorCode = string(code)
		httpStatus = mapErrorCodeToHTTPStatus(code)
	}
	response.Code = httpStatus

	if lw, ok := w.(interface{ SetErrorMessage(string) }); ok {
		lw.SetErrorMessage(response.Message)
	}
	writeJSON(w, httpStatus, response)
}

// mapErrorCodeToHTTPStatus maps business error codes to HTTP status codes.
func mapErrorCodeToHTTPStatus(code calclog.ErrorCode) int {
	switch code {
	case calclog.ErrCodeUnknownWorkoutType, calclog.ErrCodeInvalidInput, calclog.ErrCodeInvalidRate:
		return http.StatusBadRequest
	case calclog.ErrCodeMissingRate:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
