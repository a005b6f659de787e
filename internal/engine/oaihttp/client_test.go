package oaihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/francais-backend/internal/engine"
	"github.com/yungbote/francais-backend/internal/platform/httpx"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

func testMessages() []engine.Message {
	return []engine.Message{
		{Role: engine.RoleSystem, Content: "Tu es un correcteur de francais."},
		{Role: engine.RoleUser, Content: "Phrase: je suis alle"},
	}
}

func TestCompleteRequestShape(t *testing.T) {
	cfg := Config{
		URL:     "http://upstream/api/v1/chat/completions",
		APIKey:  "sk-test",
		Model:   "test-model",
		Timeout: 2 * time.Second,
	}

	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Method != http.MethodPost {
				t.Fatalf("method=%s", req.Method)
			}
			if req.URL.Path != "/api/v1/chat/completions" {
				t.Fatalf("unexpected path: %s", req.URL.Path)
			}
			if got := req.Header.Get("Authorization"); got != "Bearer sk-test" {
				t.Fatalf("authorization=%q", got)
			}
			if got := req.Header.Get("Content-Type"); got != "application/json" {
				t.Fatalf("content-type=%q", got)
			}

			var in struct {
				Model    string `json:"model"`
				Messages []struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				} `json:"messages"`
			}
			if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
				t.Fatalf("decode req: %v", err)
			}
			if in.Model != "test-model" {
				t.Fatalf("model=%q", in.Model)
			}
			if len(in.Messages) != 2 || in.Messages[0].Role != "system" || in.Messages[1].Role != "user" {
				t.Fatalf("messages=%+v", in.Messages)
			}
			if in.Messages[1].Content != "Phrase: je suis alle" {
				t.Fatalf("user content=%q", in.Messages[1].Content)
			}
			return jsonResponse(http.StatusOK, `{"id":"x","choices":[{"index":0,"message":{"role":"assistant","content":"Je suis allé."}}]}`), nil
		}),
	}

	c, err := NewWithHTTPClient(cfg, client)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	out, err := c.Complete(context.Background(), testMessages())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "Je suis allé." {
		t.Fatalf("out=%q", out)
	}
}

func TestCompleteReturnsContentUntrimmed(t *testing.T) {
	want := "  LEÇON: les articles\n\n1. EXPLICATION\n"
	body, _ := json.Marshal(map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{"content": want}}},
	})
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, string(body)), nil
		}),
	}
	c, err := NewWithHTTPClient(Config{URL: "http://upstream/v1/chat/completions", APIKey: "k"}, client)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	out, err := c.Complete(context.Background(), testMessages())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != want {
		t.Fatalf("out=%q want=%q", out, want)
	}
}

func TestCompleteNon200(t *testing.T) {
	for _, status := range []int{201, 204, 400, 401, 429, 500, 502, 503} {
		client := &http.Client{
			Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
				return jsonResponse(status, `{"error":{"message":"nope"}}`), nil
			}),
		}
		c, err := NewWithHTTPClient(Config{URL: "http://upstream/v1/chat/completions", APIKey: "k"}, client)
		if err != nil {
			t.Fatalf("NewWithHTTPClient: %v", err)
		}
		_, err = c.Complete(context.Background(), testMessages())
		var he *HTTPError
		if !errors.As(err, &he) {
			t.Fatalf("status=%d err=%v", status, err)
		}
		if he.StatusCode != status || httpx.StatusCode(err) != status {
			t.Fatalf("status=%d got=%d", status, he.StatusCode)
		}
	}
}

func TestCompleteMalformedBodies(t *testing.T) {
	bodies := map[string]string{
		"not json":        `<html>bad gateway</html>`,
		"empty":           ``,
		"empty object":    `{}`,
		"array":           `[]`,
		"null choices":    `{"choices":null}`,
		"no choices":      `{"choices":[]}`,
		"no message":      `{"choices":[{"text":"legacy"}]}`,
		"no content":      `{"choices":[{"message":{"role":"assistant"}}]}`,
		"null content":    `{"choices":[{"message":{"content":null}}]}`,
		"numeric content": `{"choices":[{"message":{"content":42}}]}`,
		"choice scalar":   `{"choices":["hello"]}`,
	}
	for name, body := range bodies {
		client := &http.Client{
			Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, body), nil
			}),
		}
		c, err := NewWithHTTPClient(Config{URL: "http://upstream/v1/chat/completions", APIKey: "k"}, client)
		if err != nil {
			t.Fatalf("NewWithHTTPClient: %v", err)
		}
		_, err = c.Complete(context.Background(), testMessages())
		if !errors.Is(err, engine.ErrMalformedResponse) {
			t.Fatalf("%s: err=%v", name, err)
		}
	}
}

func TestCompleteTimeout(t *testing.T) {
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		}),
	}
	c, err := NewWithHTTPClient(Config{URL: "http://upstream/v1/chat/completions", APIKey: "k", Timeout: 20 * time.Millisecond}, client)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	_, err = c.Complete(context.Background(), testMessages())
	if !httpx.IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestCompleteOneCallPerInvocation(t *testing.T) {
	var calls int32
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			atomic.AddInt32(&calls, 1)
			return jsonResponse(http.StatusServiceUnavailable, ``), nil
		}),
	}
	c, err := NewWithHTTPClient(Config{URL: "http://upstream/v1/chat/completions", APIKey: "k"}, client)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	_, _ = c.Complete(context.Background(), testMessages())
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("calls=%d", n)
	}
}

func TestNewDefaultsAndValidation(t *testing.T) {
	c, err := New(Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.url != DefaultURL || c.Model() != DefaultModel || c.timeout != DefaultTimeout {
		t.Fatalf("defaults not applied: url=%s model=%s timeout=%s", c.url, c.model, c.timeout)
	}
	if _, err := New(Config{URL: "not a url"}); err == nil {
		t.Fatalf("expected error for relative url")
	}
}
