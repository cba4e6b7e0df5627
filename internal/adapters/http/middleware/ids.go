// Package middleware holds the gin middleware the quote API runs behind.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quote-service/internal/platform/logging"
)

const (
	// HeaderRequestID identifies one HTTP exchange.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID identifies a business transaction that may span
	// several requests and services.
	HeaderCorrelationID = "X-Correlation-ID"

	// maxInboundIDLength bounds caller-supplied ids; longer ones are replaced.
	maxInboundIDLength = 128
)

type idKey int

const (
	requestIDKey idKey = iota
	correlationIDKey
)

// RequestID adopts the caller's X-Request-ID or mints a UUID. The id is
// echoed in the response, stored on the request context for outbound calls
// and added to the request logger.
func RequestID() gin.HandlerFunc {
	return propagateID(HeaderRequestID, ContextWithRequestID, logging.WithRequestID)
}

// CorrelationID is RequestID for X-Correlation-ID.
func CorrelationID() gin.HandlerFunc {
	return propagateID(HeaderCorrelationID, ContextWithCorrelationID, logging.WithCorrelationID)
}

func propagateID(header string, enrich ...func(context.Context, string) context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if !acceptableID(id) {
			id = uuid.NewString()
			c.Request.Header.Set(header, id)
		}

		c.Header(header, id)

		ctx := c.Request.Context()
		for _, fn := range enrich {
			ctx = fn(ctx, id)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// acceptableID rejects empty, oversized and non-printable-ASCII ids so a
// caller cannot inject arbitrary bytes into logs and outbound headers.
func acceptableID(id string) bool {
	if id == "" || len(id) > maxInboundIDLength {
		return false
	}

	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}

	return true
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// RequestIDFromContext returns "" when ctx is nil or carries no id.
func RequestIDFromContext(ctx context.Context) string {
	return idFrom(ctx, requestIDKey)
}

// CorrelationIDFromContext returns "" when ctx is nil or carries no id.
func CorrelationIDFromContext(ctx context.Context) string {
	return idFrom(ctx, correlationIDKey)
}

func idFrom(ctx context.Context, key idKey) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(key).(string)

	return id
}
