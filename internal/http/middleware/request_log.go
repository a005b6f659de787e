package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/francais-backend/internal/platform/ctxutil"
	"github.com/yungbote/francais-backend/internal/platform/logger"
)

// Gin context keys set by completion handlers and read by RequestLogger.
const (
	ctxKeyCompletionKind = "completion_kind"
	ctxKeyErrorKind      = "completion_error_kind"
	ctxKeyUpstreamStatus = "completion_upstream_status"
)

// SetCompletionOutcome records what a completion route did so the request
// line can say why it failed. errorKind is "" on success.
func SetCompletionOutcome(c *gin.Context, kind, errorKind string, upstreamStatus int) {
	c.Set(ctxKeyCompletionKind, kind)
	if errorKind != "" {
		c.Set(ctxKeyErrorKind, errorKind)
	}
	if upstreamStatus != 0 {
		c.Set(ctxKeyUpstreamStatus, upstreamStatus)
	}
}

// RequestLogger writes one line per request, at Warn for 4xx and Error for
// 5xx. Completion routes add kind, error_kind and upstream_status.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		fields := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"route", route,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes_out", c.Writer.Size(),
		}
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			fields = append(fields, "trace_id", td.TraceID, "request_id", td.RequestID)
		}
		if kind := c.GetString(ctxKeyCompletionKind); kind != "" {
			fields = append(fields, "kind", kind)
		}
		if ek := c.GetString(ctxKeyErrorKind); ek != "" {
			fields = append(fields, "error_kind", ek)
		}
		if us := c.GetInt(ctxKeyUpstreamStatus); us != 0 {
			fields = append(fields, "upstream_status", us)
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
