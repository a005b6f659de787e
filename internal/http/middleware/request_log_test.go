package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yungbote/francais-backend/internal/platform/logger"
)

func newObservedRouter(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.Use(RequestLogger(&logger.Logger{SugaredLogger: zap.New(core).Sugar()}))
	return r, logs
}

func TestRequestLoggerIncludesCompletionOutcome(t *testing.T) {
	r, logs := newObservedRouter(t)
	r.POST("/api/lesson", func(c *gin.Context) {
		SetCompletionOutcome(c, "lesson", "upstream_error", 429)
		c.Status(http.StatusInternalServerError)
	})
	r.POST("/api/correct", func(c *gin.Context) {
		SetCompletionOutcome(c, "correction", "invalid_input", 0)
		c.Status(http.StatusBadRequest)
	})
	r.POST("/api/story", func(c *gin.Context) {
		SetCompletionOutcome(c, "story", "", 0)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/lesson", nil)
	req.Header.Set(headerRequestID, "req-429")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/correct", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/story", nil))

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 3)

	failed := entries[0]
	assert.Equal(t, zapcore.ErrorLevel, failed.Level)
	m := failed.ContextMap()
	assert.Equal(t, "/api/lesson", m["route"])
	assert.Equal(t, "lesson", m["kind"])
	assert.Equal(t, "upstream_error", m["error_kind"])
	assert.EqualValues(t, 429, m["upstream_status"])
	assert.Equal(t, "req-429", m["request_id"])

	rejected := entries[1]
	assert.Equal(t, zapcore.WarnLevel, rejected.Level)
	m = rejected.ContextMap()
	assert.Equal(t, "invalid_input", m["error_kind"])
	assert.NotContains(t, m, "upstream_status")

	ok := entries[2]
	assert.Equal(t, zapcore.InfoLevel, ok.Level)
	m = ok.ContextMap()
	assert.Equal(t, "story", m["kind"])
	assert.NotContains(t, m, "error_kind")
}

func TestRequestLoggerUnmatchedRoute(t *testing.T) {
	r, logs := newObservedRouter(t)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	m := entries[0].ContextMap()
	assert.Equal(t, "unmatched", m["route"])
	assert.Equal(t, "/nowhere", m["path"])
	assert.NotContains(t, m, "kind")
}
