package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/francais-backend/internal/engine"
)

// Client is an in-process engine.Client. It counts every call and keeps the
// messages of the most recent ones. With no Reply, Err or Fn set it echoes the
// user message, which is enough for local development without an upstream key.
type Client struct {
	Reply string
	Err   error
	Fn    func(ctx context.Context, messages []engine.Message) (string, error)
	// Delay holds each call until it elapses or ctx is done.
	Delay time.Duration

	mu    sync.Mutex
	count int
	// recent holds at most maxRecorded calls, oldest first.
	recent [][]engine.Message
}

// maxRecorded bounds retained messages when the client serves a dev server.
const maxRecorded = 16

var _ engine.Client = (*Client)(nil)

func New() *Client {
	return &Client{}
}

func (c *Client) Complete(ctx context.Context, messages []engine.Message) (string, error) {
	c.record(messages)

	if c.Delay > 0 {
		t := time.NewTimer(c.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch {
	case c.Fn != nil:
		return c.Fn(ctx, messages)
	case c.Err != nil:
		return "", c.Err
	case c.Reply != "":
		return c.Reply, nil
	}

	var user string
	for i := len(messages) - 1; i >= 0; i-- {
		if strings.EqualFold(messages[i].Role, engine.RoleUser) {
			user = messages[i].Content
			break
		}
	}
	if strings.TrimSpace(user) == "" {
		return "mock: ok", nil
	}
	return fmt.Sprintf("mock: %s", user), nil
}

func (c *Client) record(messages []engine.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	if len(c.recent) == maxRecorded {
		copy(c.recent, c.recent[1:])
		c.recent = c.recent[:maxRecorded-1]
	}
	c.recent = append(c.recent, append([]engine.Message(nil), messages...))
}

// CallCount is the number of Complete calls since construction.
func (c *Client) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// LastMessages returns the messages of the most recent call, or nil.
func (c *Client) LastMessages() []engine.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.recent) == 0 {
		return nil
	}
	return c.recent[len(c.recent)-1]
}
