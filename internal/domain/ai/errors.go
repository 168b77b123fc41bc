package ai

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse indicates the model returned no usable content at all.
var ErrEmptyResponse = errors.New("ai: response contained no usable content")

// AuthenticationError: credential rejected by the remote service.
type AuthenticationError struct {
	Status  int
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("ai: authentication rejected (HTTP %d): %s", e.Status, e.Message)
}

// APIError: the remote service reported quota, rate-limit or internal failure.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("ai: api error (HTTP %d, %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("ai: api error (HTTP %d): %s", e.Status, e.Message)
}

// NetworkError: the request never produced an HTTP response.
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string { return "ai: network error: " + e.Cause.Error() }
func (e *NetworkError) Unwrap() error { return e.Cause }

func IsAuth(err error) bool {
	var e *AuthenticationError
	return errors.As(err, &e)
}

func IsAPI(err error) bool {
	var e *APIError
	return errors.As(err, &e)
}

func IsNetwork(err error) bool {
	var e *NetworkError
	return errors.As(err, &e)
}
