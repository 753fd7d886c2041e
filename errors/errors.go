package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode identifies an error class surfaced to event originators and
// HTTP clients.
type ErrorCode string

const (
	ErrorCode_BAD_REQUEST    ErrorCode = "bad_request"
	ErrorCode_INVALID_TARGET ErrorCode = "invalid_target"
	ErrorCode_NO_MOM         ErrorCode = "no_mom"
	ErrorCode_INTERNAL       ErrorCode = "internal"
)

// String returns the wire form of the code.
func (c ErrorCode) String() string { return string(c) }

// AppError là custom error type cho application
type AppError struct {
	Raw      error
	HTTPCode int
	Code     ErrorCode
	Message  string
	Details  map[string]string
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// ErrBadRequest indicates a malformed or incomplete inbound event. State is
// never mutated before this error is produced.
func ErrBadRequest(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_BAD_REQUEST,
		Message:  message,
	}
}

// ErrInvalidTarget indicates a targeted signal addressed to a participant
// that is not present in the room.
func ErrInvalidTarget(target, room string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_INVALID_TARGET,
		Message:  fmt.Sprintf("target %s not found in room %s", target, room),
	}.WithDetail("target", target).WithDetail("room", room)
}

// ErrNoMOM indicates that no minutes of meeting have been generated yet for
// the room.
func ErrNoMOM(room string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NO_MOM,
		Message:  fmt.Sprintf("No MOM generated yet for room %s", room),
	}.WithDetail("room", room)
}

func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}
