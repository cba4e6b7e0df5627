package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-service/internal/platform/logging"
)

// seen is what a handler behind the ID middleware observed.
type seen struct {
	requestID     string
	correlationID string
	header        http.Header
}

func serveWithIDs(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, seen) {
	t.Helper()

	var got seen

	router := gin.New()
	router.Use(RequestID(), CorrelationID())
	router.GET("/api/v1/quote", func(c *gin.Context) {
		got = seen{
			requestID:     RequestIDFromContext(c.Request.Context()),
			correlationID: CorrelationIDFromContext(c.Request.Context()),
			header:        c.Request.Header.Clone(),
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w, got
}

func TestIDs_AdoptsCallerValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/quote", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	req.Header.Set(HeaderCorrelationID, "corr-456")

	w, got := serveWithIDs(t, req)

	assert.Equal(t, "req-123", w.Header().Get(HeaderRequestID))
	assert.Equal(t, "corr-456", w.Header().Get(HeaderCorrelationID))
	assert.Equal(t, "req-123", got.requestID)
	assert.Equal(t, "corr-456", got.correlationID)
}

func TestIDs_MintsMissingOrUnacceptable(t *testing.T) {
	tests := map[string]string{
		"missing":      "",
		"too long":     strings.Repeat("a", maxInboundIDLength+1),
		"control char": "abc\x01def",
		"space":        "abc def",
	}

	for name, inbound := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/quote", nil)
			if inbound != "" {
				req.Header.Set(HeaderRequestID, inbound)
			}

			w, got := serveWithIDs(t, req)

			minted := w.Header().Get(HeaderRequestID)
			_, err := uuid.Parse(minted)
			require.NoError(t, err, "minted id %q", minted)

			assert.Equal(t, minted, got.requestID)
			assert.Equal(t, minted, got.header.Get(HeaderRequestID), "minted id is visible on the request")

			_, err = uuid.Parse(got.correlationID)
			assert.NoError(t, err)
		})
	}
}

func TestIDs_DistinctPerRequest(t *testing.T) {
	w1, _ := serveWithIDs(t, httptest.NewRequest(http.MethodGet, "/api/v1/quote", nil))
	w2, _ := serveWithIDs(t, httptest.NewRequest(http.MethodGet, "/api/v1/quote", nil))

	assert.NotEqual(t, w1.Header().Get(HeaderRequestID), w2.Header().Get(HeaderRequestID))
}

func TestIDs_TagRequestLogger(t *testing.T) {
	var buf bytes.Buffer

	router := gin.New()
	router.Use(func(c *gin.Context) {
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		c.Next()
	})
	router.Use(RequestID(), CorrelationID())
	router.GET("/api/v1/quote", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("handled")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quote", nil)
	req.Header.Set(HeaderRequestID, "req-9")
	req.Header.Set(HeaderCorrelationID, "corr-9")
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), "request_id=req-9")
	assert.Contains(t, buf.String(), "correlation_id=corr-9")
}

func TestIDContextHelpers(t *testing.T) {
	ctx := ContextWithCorrelationID(ContextWithRequestID(context.Background(), "r"), "c")

	assert.Equal(t, "r", RequestIDFromContext(ctx))
	assert.Equal(t, "c", CorrelationIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
	//nolint:staticcheck // nil context is part of the contract
	assert.Empty(t, CorrelationIDFromContext(nil))
}

func TestAcceptableID(t *testing.T) {
	assert.True(t, acceptableID("req-123"))
	assert.True(t, acceptableID(uuid.NewString()))
	assert.True(t, acceptableID(strings.Repeat("x", maxInboundIDLength)))
	assert.False(t, acceptableID(""))
	assert.False(t, acceptableID("tab\tsep"))
	assert.False(t, acceptableID("naïve"))
}
