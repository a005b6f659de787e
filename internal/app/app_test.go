package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/francais-backend/internal/platform/logger"
)

func mockConfig() *Config {
	cfg := defaultConfig()
	cfg.HTTP.Host = "127.0.0.1"
	cfg.HTTP.Port = 0
	cfg.Upstream.Engine = EngineMock
	cfg.Metrics.Enabled = true
	cfg.Metrics.Addr = "127.0.0.1:0"
	return cfg
}

func TestNewAppServesMockCompletions(t *testing.T) {
	a, err := newApp(context.Background(), mockConfig(), logger.NewNop())
	require.NoError(t, err)
	defer a.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/conjugation", strings.NewReader(`{"verb":"aller"}`))
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), "aller")
	assert.Equal(t, 1.0, a.Metrics.CompletionCount("conjugation", "ok"))
}

func TestNewAppWithoutKeyReportsNotConfigured(t *testing.T) {
	cfg := mockConfig()
	cfg.Upstream.Engine = EngineOAIHTTP
	a, err := newApp(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	defer a.Close()

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/story", strings.NewReader(`{}`)))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	assert.JSONEq(t, `{"error":"Configuration requise","success":false}`, rec.Body.String())
}

func TestRunStopsOnCancel(t *testing.T) {
	a, err := newApp(context.Background(), mockConfig(), logger.NewNop())
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
