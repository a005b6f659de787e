package gateway

import (
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	InvalidInput              ErrorKind = "invalid_input"
	NotConfigured             ErrorKind = "not_configured"
	UpstreamError             ErrorKind = "upstream_error"
	UpstreamTimeout           ErrorKind = "upstream_timeout"
	MalformedUpstreamResponse ErrorKind = "malformed_upstream_response"
)

const (
	msgNotConfigured = "Configuration requise"
	msgTimeout       = "Delai d'attente depasse"
	msgMalformed     = "Reponse invalide du service"
	msgUnknownKind   = "Type de requete inconnu"
)

// Error is the only error type Complete returns. Message is user-facing.
type Error struct {
	Kind ErrorKind
	// Status is the upstream HTTP status for UpstreamError; 0 when the call
	// failed before a response arrived.
	Status int
	// Field names the offending input for InvalidInput.
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus is the status the API answers with for this error.
func (e *Error) HTTPStatus() int {
	if e != nil && e.Kind == InvalidInput {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func invalidInput(field, message string) *Error {
	return &Error{Kind: InvalidInput, Field: field, Message: message}
}

func notConfigured(err error) *Error {
	return &Error{Kind: NotConfigured, Message: msgNotConfigured, Err: err}
}

func upstreamError(status int, err error) *Error {
	return &Error{Kind: UpstreamError, Status: status, Message: fmt.Sprintf("Erreur %d", status), Err: err}
}

func upstreamTimeout(err error) *Error {
	return &Error{Kind: UpstreamTimeout, Message: msgTimeout, Err: err}
}

func malformed(err error) *Error {
	return &Error{Kind: MalformedUpstreamResponse, Message: msgMalformed, Err: err}
}
