// Package apperr holds the three error classes every desk operation can fail with:
// transport failures, backend rejections (success:false envelopes) and client-side
// validation failures.
package apperr

import (
	"errors"
	"fmt"
)

// DefaultFailureMessage is used when the backend rejects a request without a message
const DefaultFailureMessage = "请求失败"

// TransportFailureMessage is shown to users for any transport-level failure
const TransportFailureMessage = "网络异常，请稍后重试"

var (
	// ErrNotEnvelope is wrapped by TransportError when a response body is not a {success,data,message} envelope
	ErrNotEnvelope = errors.New("response is not an envelope")

	// ErrUnexpectedStatus is wrapped by TransportError for non-2xx responses without a usable envelope
	ErrUnexpectedStatus = errors.New("unexpected http status")
)

// TransportError is a network failure or a non-2xx HTTP response
type TransportError struct {
	Method     string
	Path       string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s %d: %v", e.Method, e.Path, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RequestFailedError is a success:false envelope. Message is the server text, shown verbatim.
type RequestFailedError struct {
	Message    string
	StatusCode int
}

// NewRequestFailed builds a RequestFailedError, falling back to the generic message
func NewRequestFailed(message string, statusCode int) *RequestFailedError {
	if message == "" {
		message = DefaultFailureMessage
	}
	return &RequestFailedError{Message: message, StatusCode: statusCode}
}

func (e *RequestFailedError) Error() string {
	return e.Message
}

// ValidationError blocks a request before it reaches the network
type ValidationError struct {
	Field   string
	Message string
}

// NewValidation builds a ValidationError for a missing or invalid field
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsTransport reports whether err is (or wraps) a TransportError
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsRequestFailed reports whether err is (or wraps) a RequestFailedError
func IsRequestFailed(err error) bool {
	var rf *RequestFailedError
	return errors.As(err, &rf)
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UserMessage converts any error into the text a user should see
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}

	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf.Message
	}

	return TransportFailureMessage
}
