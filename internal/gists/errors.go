package gists

import (
	"errors"
	"net/http"
)

// ErrorKind classifies a RemoteServiceError.
type ErrorKind int

const (
	// KindStatus is a non-2xx response from the remote service.
	KindStatus ErrorKind = iota
	// KindTransport is a failure to complete the HTTP exchange at all.
	KindTransport
	// KindMalformed is a 2xx response whose body could not be decoded.
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindTransport:
		return "transport"
	case KindMalformed:
		return "malformed response"
	default:
		return "unknown"
	}
}

// RemoteServiceError is the single error type surfaced for any failure
// talking to the gist listing or raw content endpoints.
type RemoteServiceError struct {
	Kind ErrorKind

	// StatusCode is set for KindStatus errors.
	StatusCode int

	// Message is the human readable message from the remote error body,
	// or a generic description. Empty when the remote did not give one.
	Message string

	Err error
}

func (e *RemoteServiceError) Error() string {
	message := e.Message
	if message == "" {
		message = "None"
	}
	return "Github gists error: " + message
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}

// IsRemoteServiceError reports whether err is or wraps a RemoteServiceError.
func IsRemoteServiceError(err error) bool {
	var remoteErr *RemoteServiceError
	return errors.As(err, &remoteErr)
}

// IsNotFound reports whether err is a 404 from the remote service, which
// GitHub returns for unknown users.
func IsNotFound(err error) bool {
	var remoteErr *RemoteServiceError
	return errors.As(err, &remoteErr) && remoteErr.Kind == KindStatus && remoteErr.StatusCode == http.StatusNotFound
}
