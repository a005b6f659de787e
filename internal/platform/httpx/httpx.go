package httpx

import (
	"context"
	"errors"
	"net"
)

// HTTPStatusCoder is implemented by upstream errors that carry a response status.
type HTTPStatusCoder interface {
	HTTPStatusCode() int
}

// IsTimeout reports whether err is a deadline expiry, either from a context
// or from the network stack. Caller cancellation is not a timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

// StatusCode extracts an HTTP status from err, or 0 when there is none.
func StatusCode(err error) int {
	var sc HTTPStatusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatusCode()
	}
	return 0
}
