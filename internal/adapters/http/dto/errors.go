// Package dto holds the JSON shapes the HTTP adapter reads and writes, and
// the mapping from domain errors to those shapes.
package dto

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-service/internal/domain"
	"github.com/jsamuelsen/quote-service/internal/platform/logging"
)

const (
	// traceIDKey lets a handler pin the trace id reported to the client.
	traceIDKey = "trace_id"

	// requestIDHeader mirrors middleware.HeaderRequestID; middleware imports dto.
	requestIDHeader = "X-Request-ID"
)

// Machine-readable codes for ErrorDetail.Code.
const (
	ErrorCodeBadRequest  = "BAD_REQUEST"
	ErrorCodeValidation  = "VALIDATION_ERROR"
	ErrorCodeNotFound    = "NOT_FOUND"
	ErrorCodeTooLarge    = "PAYLOAD_TOO_LARGE"
	ErrorCodeTimeout     = "TIMEOUT"
	ErrorCodeUnavailable = "SERVICE_UNAVAILABLE"
	ErrorCodeInternal    = "INTERNAL_ERROR"
)

var statusByCode = map[string]int{
	ErrorCodeBadRequest:  http.StatusBadRequest,
	ErrorCodeValidation:  http.StatusBadRequest,
	ErrorCodeNotFound:    http.StatusNotFound,
	ErrorCodeTooLarge:    http.StatusRequestEntityTooLarge,
	ErrorCodeTimeout:     http.StatusGatewayTimeout,
	ErrorCodeUnavailable: http.StatusServiceUnavailable,
	ErrorCodeInternal:    http.StatusInternalServerError,
}

// ErrorResponse is the error envelope:
//
//	{"error": {"code": "...", "message": "...", "details": {...}}, "traceId": "..."}
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail is the body of the envelope. Details maps field names to
// messages for validation failures.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// MessageResponse is the bare {"message": "..."} body used by the quote
// lookup 404, which existing clients read directly.
type MessageResponse struct {
	Message string `json:"message"`
}

func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	resp := NewErrorResponse(code, message)
	resp.Error.Details = details

	return resp
}

// WithTraceID sets TraceID and returns the receiver.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode returns the status for code, 500 for anything unknown.
func HTTPStatusFromCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}

	return http.StatusInternalServerError
}

// MapDomainError picks the status and envelope for err. Dependency and
// internal failures get a fixed message; the cause only goes to the log.
// An expired request deadline answers 504.
func MapDomainError(err error) (int, *ErrorResponse) {
	var invalid *domain.ValidationError

	switch {
	case errors.As(err, &invalid):
		resp := NewErrorResponse(ErrorCodeValidation, invalid.Error())
		if invalid.Field != "" {
			resp.Error.Details = map[string]string{invalid.Field: invalid.Message}
		}

		return http.StatusBadRequest, resp
	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, err.Error())
	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable,
			NewErrorResponse(ErrorCodeUnavailable, "a required service is temporarily unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, NewErrorResponse(ErrorCodeTimeout, "request timeout exceeded")
	}

	return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, "an internal error occurred")
}

// HandleError writes the envelope for err. 5xx responses are logged with
// the request's logger.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.TraceID = GetTraceID(c)

	if status >= http.StatusInternalServerError {
		ctx := c.Request.Context()
		logging.FromContext(ctx).ErrorContext(ctx, "request failed",
			"error", err,
			"status", status,
			"trace_id", resp.TraceID,
		)
	}

	c.JSON(status, resp)
}

// AbortWithErrorCode stops the handler chain with the envelope for code.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

// GetTraceID returns the id a client can quote when reporting an error: a
// pinned "trace_id" context value, else the active span's trace id, else
// the request id header.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(traceIDKey); ok {
		id, _ := v.(string)
		return id
	}

	if c.Request == nil {
		return ""
	}

	if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.HasTraceID() {
		return sc.TraceID().String()
	}

	return c.GetHeader(requestIDHeader)
}
