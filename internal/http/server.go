package http

import (
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type ServerConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
}

// NewServer wraps the router in an http.Server. No write timeout is set;
// completions are bounded by the upstream timeout instead.
func NewServer(cfg ServerConfig, r *gin.Engine) *nethttp.Server {
	return &nethttp.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
