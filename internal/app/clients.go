package app

import (
	"fmt"

	"github.com/yungbote/francais-backend/internal/engine"
	"github.com/yungbote/francais-backend/internal/engine/mock"
	"github.com/yungbote/francais-backend/internal/engine/oaihttp"
	"github.com/yungbote/francais-backend/internal/gateway"
	"github.com/yungbote/francais-backend/internal/observability"
	"github.com/yungbote/francais-backend/internal/platform/logger"
)

type Clients struct {
	Engine  engine.Client
	Gateway *gateway.Gateway
}

func wireClients(log *logger.Logger, cfg *Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...", "engine", cfg.Upstream.Engine, "model", cfg.Upstream.Model)

	apiKey := cfg.Upstream.APIKey
	var client engine.Client
	switch cfg.Upstream.Engine {
	case EngineMock:
		client = mock.New()
		if apiKey == "" {
			apiKey = "mock"
		}
	default:
		c, err := oaihttp.New(oaihttp.Config{
			URL:     cfg.Upstream.URL,
			APIKey:  apiKey,
			Model:   cfg.Upstream.Model,
			Timeout: cfg.Upstream.Timeout.Duration,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init upstream client: %w", err)
		}
		client = c
	}

	if apiKey == "" {
		log.Warn("OPENROUTER_API_KEY is not set; completion requests will fail until it is configured")
	}

	return Clients{
		Engine: client,
		Gateway: gateway.New(gateway.Config{
			APIKey:  apiKey,
			Timeout: cfg.Upstream.Timeout.Duration,
		}, client, log, metrics),
	}, nil
}
