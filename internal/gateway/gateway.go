package gateway

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/francais-backend/internal/engine"
	"github.com/yungbote/francais-backend/internal/learning/prompts"
	"github.com/yungbote/francais-backend/internal/observability"
	"github.com/yungbote/francais-backend/internal/platform/ctxutil"
	"github.com/yungbote/francais-backend/internal/platform/httpx"
	"github.com/yungbote/francais-backend/internal/platform/logger"
)

const DefaultTimeout = 90 * time.Second

type Config struct {
	// APIKey is the upstream credential. Empty means every call fails with
	// NotConfigured before touching the network.
	APIKey  string
	Timeout time.Duration
}

// Gateway turns (kind, fields) into one upstream completion. It holds no
// mutable state and is safe for concurrent use.
type Gateway struct {
	cfg     Config
	client  engine.Client
	log     *logger.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer
}

func New(cfg Config, client engine.Client, log *logger.Logger, metrics *observability.Metrics) *Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Gateway{
		cfg:     cfg,
		client:  client,
		log:     log.With("component", "gateway"),
		metrics: metrics,
		tracer:  otel.Tracer("github.com/yungbote/francais-backend/internal/gateway"),
	}
}

// Complete validates fields for kind, renders the prompt and performs one
// upstream call. Every failure is a *Error.
func (g *Gateway) Complete(ctx context.Context, kind prompts.Kind, fields map[string]string) (string, error) {
	start := time.Now()
	ctx, span := g.tracer.Start(ctx, "gateway.complete", trace.WithAttributes(attribute.String("fb.kind", string(kind))))
	defer span.End()

	text, fp, err := g.complete(ctx, kind, fields)

	outcome := "ok"
	var gerr *Error
	if errors.As(err, &gerr) {
		outcome = string(gerr.Kind)
		span.SetAttributes(attribute.String("fb.error_kind", outcome))
		if gerr.Status != 0 {
			span.SetAttributes(attribute.Int("fb.upstream_status", gerr.Status))
		}
		span.SetStatus(codes.Error, gerr.Message)
	}
	dur := time.Since(start)
	g.metrics.ObserveCompletion(string(kind), outcome, dur)

	// Prompt and result text stay out of the log; prompt_fp identifies the prompt.
	kv := []interface{}{
		"kind", string(kind),
		"request_id", ctxutil.RequestID(ctx),
		"prompt_fp", fp,
		"duration_ms", dur.Milliseconds(),
	}
	switch {
	case gerr == nil:
		g.log.Info("completion ok", append(kv, "chars", len(text))...)
	case gerr.Kind == InvalidInput:
		g.log.Debug("completion rejected", append(kv, "error_kind", string(gerr.Kind), "field", gerr.Field)...)
	default:
		g.log.Warn("completion failed", append(kv,
			"error_kind", string(gerr.Kind),
			"upstream_status", gerr.Status,
			"error", gerr.Err,
		)...)
	}
	return text, err
}

// complete returns the upstream text and the fingerprint of the prompt it
// sent ("" when no prompt was built).
func (g *Gateway) complete(ctx context.Context, kind prompts.Kind, fields map[string]string) (string, string, error) {
	if !kind.Valid() {
		return "", "", invalidInput("kind", msgUnknownKind)
	}
	p, err := prompts.BuildFields(kind, fields)
	if err != nil {
		return "", "", buildError(err)
	}
	fp := p.Fingerprint()
	if g.cfg.APIKey == "" {
		return "", fp, notConfigured(nil)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	text, err := g.client.Complete(callCtx, []engine.Message{
		{Role: engine.RoleSystem, Content: p.System},
		{Role: engine.RoleUser, Content: p.User},
	})
	if err != nil {
		return "", fp, classify(err)
	}
	return text, fp, nil
}

// buildError maps a prompt construction failure. A template that fails to
// render is a server-side configuration fault, not bad input.
func buildError(err error) *Error {
	var fe *prompts.FieldError
	switch {
	case errors.As(err, &fe):
		return invalidInput(string(fe.Field), fe.Message)
	case errors.Is(err, prompts.ErrUnknownKind):
		return invalidInput("kind", msgUnknownKind)
	default:
		return notConfigured(err)
	}
}

func classify(err error) *Error {
	if errors.Is(err, engine.ErrMalformedResponse) {
		return malformed(err)
	}
	if status := httpx.StatusCode(err); status != 0 {
		return upstreamError(status, err)
	}
	if httpx.IsTimeout(err) {
		return upstreamTimeout(err)
	}
	return upstreamError(0, err)
}
