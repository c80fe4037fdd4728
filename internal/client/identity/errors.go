package identity

import (
	"encoding/json"
	"errors"
	"strings"
)

// Static error definitions for better error handling.
var (
	// ErrConfiguration indicates that the API key is missing or still set to the placeholder.
	ErrConfiguration = errors.New("missing API key in configuration")
	// ErrNetwork indicates a transport-level failure (DNS, refused connection, timeout).
	ErrNetwork = errors.New("network error (failed API call)")
	// ErrRemote indicates a non-success response from the identity service.
	ErrRemote = errors.New("request failed")
	// ErrUnexpectedResponseFormat indicates a success response whose body is not what the operation expects.
	ErrUnexpectedResponseFormat = errors.New("unexpected response format")
	// ErrUnknownOperation indicates an operation without an endpoint.
	ErrUnknownOperation = errors.New("unknown operation")
)

// RemoteError is returned when the identity service answers with a non-success status.
type RemoteError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Message is the service-provided error message, or "request failed" when absent.
	Message string
}

// errorEnvelope is the error body returned by the identity service.
type errorEnvelope struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// newRemoteError builds a RemoteError from a response body, preferring the service message.
func newRemoteError(statusCode int, body []byte) *RemoteError {
	remoteErr := &RemoteError{
		StatusCode: statusCode,
		Message:    ErrRemote.Error(),
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == nil {
		return remoteErr
	}

	if message := strings.TrimSpace(envelope.Error.Message); message != "" {
		remoteErr.Message = message
	}

	return remoteErr
}

// Error returns the service-provided message.
func (e *RemoteError) Error() string {
	return e.Message
}

// Unwrap makes errors.Is(err, ErrRemote) hold for every RemoteError.
func (e *RemoteError) Unwrap() error {
	return ErrRemote
}
