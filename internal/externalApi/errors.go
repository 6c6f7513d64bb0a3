package externalApi

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("error not found")
	ErrUnauthorized = errors.New("error unauthorized")
	ErrBadResponse  = errors.New("error bad response")
)

const defaultErrMsg = "An error occurred"

// APIError is a request the backend answered with a non-2xx status or with
// success=false.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func NewAPIError(status int, code, errMsg, message string) *APIError {
	msg := errMsg
	if msg == "" {
		msg = message
	}
	if msg == "" {
		msg = defaultErrMsg
	}
	if code == "" {
		code = "UNKNOWN_ERROR"
	}
	return &APIError{Status: status, Code: code, Message: msg}
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return nil
	}
}
