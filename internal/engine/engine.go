package engine

import (
	"context"
	"errors"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

type Message struct {
	Role    string
	Content string
}

// ErrMalformedResponse is wrapped by clients when a successful upstream
// response does not carry a completion text.
var ErrMalformedResponse = errors.New("malformed upstream response")

// Client sends one chat completion request and returns the completion text
// exactly as the upstream produced it.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
