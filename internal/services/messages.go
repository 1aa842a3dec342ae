package services

import (
	"errors"
	"fmt"
	"net/http"

	"country-capital/internal/client"
)

// User-facing texts shown in the capital and flag areas.
const (
	MsgEmptyQuery    = "Please enter a country name"
	MsgLoading       = "Loading..."
	MsgFlagNotFound  = "Flag not found"
	MsgConnection    = "Connection Error:\nCheck your internet connection"
	MsgTimeout       = "Timeout Error:\nThe request timed out!"
	MsgRedirects     = "Too many redirects:\nCheck the URL"
	msgHTTPFallback  = "HTTP error occurred:\n%v"
	msgRequestFormat = "Request Error:\n%v"
)

var statusMessages = map[int]string{
	http.StatusBadRequest:          "Bad request:\nPlease check your input",
	http.StatusUnauthorized:        "Unauthorized:\nInvalid API key",
	http.StatusForbidden:           "Forbidden:\nAccess is denied",
	http.StatusNotFound:            "Not found:\nCountry not found",
	http.StatusInternalServerError: "Internal Server Error:\nPlease try again later",
	http.StatusBadGateway:          "Bad gateway:\nInvalid response from the server",
	http.StatusServiceUnavailable:  "Server is unavailable:\nServer is down",
	http.StatusGatewayTimeout:      "Gateway Timeout:\nNo response from the server",
}

// StatusMessage returns the fixed text for a recognized HTTP status.
func StatusMessage(code int) (string, bool) {
	msg, ok := statusMessages[code]
	return msg, ok
}

// Describe turns a lookup failure into the text displayed in place of the capital.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, ErrEmptyQuery) {
		return MsgEmptyQuery
	}

	// An empty result array is the same outcome as the API's own 404.
	if errors.Is(err, client.ErrNoResults) {
		msg, _ := StatusMessage(http.StatusNotFound)
		return msg
	}

	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		if msg, ok := StatusMessage(statusErr.Code); ok {
			return msg
		}
		return fmt.Sprintf(msgHTTPFallback, statusErr)
	}

	var transportErr *client.TransportError
	if errors.As(err, &transportErr) {
		switch transportErr.Kind {
		case client.TransportConnection:
			return MsgConnection
		case client.TransportTimeout:
			return MsgTimeout
		case client.TransportRedirects:
			return MsgRedirects
		}
		return fmt.Sprintf(msgRequestFormat, transportErr)
	}

	var decodeErr *client.DecodeError
	if errors.As(err, &decodeErr) {
		return fmt.Sprintf(msgRequestFormat, decodeErr)
	}

	return fmt.Sprintf(msgRequestFormat, err)
}
