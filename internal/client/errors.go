package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// ErrNoResults is returned when the API answers successfully with an empty array.
var ErrNoResults = errors.New("no matching country")

// ErrTooManyRedirects is returned by the redirect policy once the limit is exceeded.
var ErrTooManyRedirects = errors.New("too many redirects")

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s for url: %s", e.Code, http.StatusText(e.Code), e.URL)
}

// TransportKind classifies failures that happen before a response is received.
type TransportKind int

const (
	TransportOther TransportKind = iota
	TransportConnection
	TransportTimeout
	TransportRedirects
)

func (k TransportKind) String() string {
	switch k {
	case TransportConnection:
		return "connection"
	case TransportTimeout:
		return "timeout"
	case TransportRedirects:
		return "redirects"
	default:
		return "other"
	}
}

// TransportError wraps a network-layer failure with its classification.
type TransportError struct {
	Kind TransportKind
	Err  error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports a 2xx response whose body could not be read as expected.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// classifyTransport inspects an error returned by http.Client.Do.
func classifyTransport(err error) *TransportError {
	kind := TransportOther

	var netErr net.Error
	var dnsErr *net.DNSError
	var opErr *net.OpError

	switch {
	case errors.Is(err, ErrTooManyRedirects):
		kind = TransportRedirects
	case errors.Is(err, context.DeadlineExceeded):
		kind = TransportTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = TransportTimeout
	case errors.As(err, &dnsErr):
		kind = TransportConnection
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET):
		kind = TransportConnection
	case errors.As(err, &opErr) && opErr.Op == "dial":
		kind = TransportConnection
	}

	return &TransportError{Kind: kind, Err: err}
}
