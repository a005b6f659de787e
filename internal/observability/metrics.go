package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Metrics holds the gateway's counters. A nil *Metrics is valid and records
// nothing, so callers never need to check whether metrics are enabled.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	completions       *CounterVec
	completionLatency *HistogramVec
}

func New() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("fb_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"fb_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 90},
		),
		apiInflight: NewGauge("fb_api_inflight_requests", "In-flight API requests."),
		completions: NewCounterVec("fb_completions_total", "Upstream completion calls by kind/outcome.", []string{"kind", "outcome"}),
		completionLatency: NewHistogramVec(
			"fb_completion_duration_seconds",
			"Upstream completion latency in seconds by kind/outcome.",
			[]string{"kind", "outcome"},
			[]float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 90},
		),
	}
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	st := strconv.Itoa(status)
	m.apiRequests.Inc(method, route, st)
	m.apiLatency.Observe(dur.Seconds(), method, route, st)
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveCompletion records one gateway call. outcome is "ok" or an error kind.
func (m *Metrics) ObserveCompletion(kind, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.completions.Inc(kind, outcome)
	m.completionLatency.Observe(dur.Seconds(), kind, outcome)
}

func (m *Metrics) CompletionCount(kind, outcome string) float64 {
	if m == nil {
		return 0
	}
	return m.completions.Value(kind, outcome)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.completions,
		m.completionLatency,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	addr = strings.TrimSpace(addr)
	if m == nil || addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", m.WriteHTTP)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
