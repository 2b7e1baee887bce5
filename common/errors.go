package common

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
)

var ErrInvalidConfiguration = fmt.Errorf("invalid configuration")
var ErrInvalidArgument = fmt.Errorf("invalid argument")
var ErrTransport = fmt.Errorf("cannot establish connection with judge server")
var ErrJudgeService = fmt.Errorf("judge service error")
var ErrDecode = fmt.Errorf("cannot decode judge server response")

// ServiceError is returned when the judge answers with a status outside
// [200, 300).
type ServiceError struct {
	StatusCode int
	Message    string
}

func NewServiceError(statusCode int, message string) *ServiceError {
	if message == "" {
		message = "judge service returned " + strconv.Itoa(statusCode) + " " + http.StatusText(statusCode)
	}
	return &ServiceError{StatusCode: statusCode, Message: message}
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Is(target error) bool {
	return target == ErrJudgeService
}

// TransportError wraps a failure to get any response from the judge:
// refused connection, DNS failure, timeout or cancellation.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return ErrTransport.Error() + ": " + e.Method + " " + e.Path + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is matches ErrTransport, and ErrJudgeService since a transport failure is
// a judge service failure seen from the caller.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport || target == ErrJudgeService
}

func (e *TransportError) Timeout() bool {
	var ne net.Error
	if errors.As(e.Err, &ne) {
		return ne.Timeout()
	}
	return false
}

// DecodeError is returned when a response body expected to be JSON is not.
type DecodeError struct {
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return ErrDecode.Error() + " (status " + strconv.Itoa(e.StatusCode) + "): " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}
