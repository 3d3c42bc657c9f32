package predict

import (
	"context"
	"errors"
	"net"

	"potato-classifier/internal/models"
)

// Error is returned by Client.Submit for every failure.
type Error struct {
	Kind models.ErrorKind
	// Detail is the server's error text for server errors, the endpoint for
	// network errors, and empty otherwise.
	Detail     string
	StatusCode int
	Err        error
}

func newError(kind models.ErrorKind, detail string, status int, err error) *Error {
	return &Error{Kind: kind, Detail: detail, StatusCode: status, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message is the text shown to the user.
func (e *Error) Message() string {
	return e.Kind.Message(e.Detail)
}

// KindOf classifies any error, treating errors that did not come from the
// client as unknown.
func KindOf(err error) models.ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return models.ErrorUnknown
}

func classifyTransport(ctx context.Context, err error) models.ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return models.ErrorTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return models.ErrorTimeout
	}
	if errors.Is(err, context.Canceled) {
		return models.ErrorUnknown
	}
	// http.Client.Do only fails before a response arrives.
	return models.ErrorNetworkUnreachable
}
