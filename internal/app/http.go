package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/francais-backend/internal/http"
	httpH "github.com/yungbote/francais-backend/internal/http/handlers"
	"github.com/yungbote/francais-backend/internal/observability"
	"github.com/yungbote/francais-backend/internal/platform/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Kinds      *httpH.KindsHandler
	Completion *httpH.CompletionHandler
}

func wireHandlers(log *logger.Logger, cfg *Config, clients Clients) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Kinds:      httpH.NewKindsHandler(),
		Completion: httpH.NewCompletionHandler(clients.Gateway, cfg.HTTP.MaxRequestBytes),
	}
}

func wireRouter(log *logger.Logger, cfg *Config, handlers Handlers, metrics *observability.Metrics) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		ServiceName:       cfg.Tracing.ServiceName,
		CORSOrigins:       cfg.HTTP.CORSAllowedOrigins,
		CompletionHandler: handlers.Completion,
		KindsHandler:      handlers.Kinds,
		HealthHandler:     handlers.Health,
	})
}
