package http

import (
	"errors"
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/francais-backend/internal/http/handlers"
	httpMW "github.com/yungbote/francais-backend/internal/http/middleware"
	"github.com/yungbote/francais-backend/internal/http/response"
	"github.com/yungbote/francais-backend/internal/learning/prompts"
	"github.com/yungbote/francais-backend/internal/observability"
	"github.com/yungbote/francais-backend/internal/platform/apierr"
	"github.com/yungbote/francais-backend/internal/platform/logger"
)

const (
	msgNotFound         = "Route introuvable"
	msgMethodNotAllowed = "Methode non autorisee"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	CompletionHandler *httpH.CompletionHandler
	KindsHandler      *httpH.KindsHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(httpMW.Recovery(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/health", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.KindsHandler != nil {
			api.GET("/kinds", cfg.KindsHandler.ListKinds)
		}

		// One route per kind: /api/lesson, /api/correct, ...
		if cfg.CompletionHandler != nil {
			for _, kind := range prompts.Kinds() {
				api.POST("/"+kind.Slug(), cfg.CompletionHandler.Handle(kind))
			}
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.RespondError(c, apierr.New(nethttp.StatusNotFound, "not_found", errors.New(msgNotFound)))
	})
	// GET /api/lesson and friends: the path exists under another method.
	r.NoMethod(func(c *gin.Context) {
		response.RespondError(c, apierr.New(nethttp.StatusMethodNotAllowed, "method_not_allowed", errors.New(msgMethodNotAllowed)))
	})
	return r
}
