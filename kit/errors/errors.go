package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// Error codes understood by every layer of the mock platform. Handlers map
// them onto HTTP statuses with CodeToStatus.
const (
	EInternal     = "internal error"
	EInvalid      = "invalid"       // request body present but undecodable or failed validation
	ENotFound     = "not found"     // referenced entity absent
	EConflict     = "conflict"      // name collision without force
	EUnauthorized = "unauthorized"  // no credential on the request
	ECorruptState = "corrupt state" // durable blob present but unreadable; fatal

	EUnprocessableEntity = "unprocessable entity"
)

// Error is the error struct shared across the module.
//
// The Code targets automated handlers so that recovery can occur.
// Msg is meant for the human driving the CLI. Op and Err chain errors
// together in a logical stack trace.
type Error struct {
	Code string
	Msg  string
	Op   string
	Err  error
}

// Error implements the error interface by writing out the recursive messages.
func (e *Error) Error() string {
	if e.Msg != "" && e.Err != nil {
		var b strings.Builder
		b.WriteString(e.Msg)
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
		return b.String()
	} else if e.Msg != "" {
		return e.Msg
	} else if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("<%s>", e.Code)
}

// Unwrap returns the wrapped error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode returns the code of the root error, if available; otherwise returns EInternal.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	e, ok := err.(*Error)
	if !ok {
		return EInternal
	}

	if e == nil {
		return ""
	}

	if e.Code != "" {
		return e.Code
	}

	if e.Err != nil {
		return ErrorCode(e.Err)
	}

	return EInternal
}

// ErrorMessage returns the human-readable message of the error, if available.
// Otherwise returns a generic error message.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	e, ok := err.(*Error)
	if !ok {
		return "An internal error has occurred."
	}

	if e == nil {
		return ""
	}

	if e.Msg != "" {
		return e.Msg
	}

	if e.Err != nil {
		return ErrorMessage(e.Err)
	}

	return "An internal error has occurred."
}

// statusCode maps error codes onto HTTP statuses.
var statusCode = map[string]int{
	EInternal:            http.StatusInternalServerError,
	EInvalid:             http.StatusBadRequest,
	ENotFound:            http.StatusNotFound,
	EConflict:            http.StatusConflict,
	EUnauthorized:        http.StatusUnauthorized,
	ECorruptState:        http.StatusInternalServerError,
	EUnprocessableEntity: http.StatusUnprocessableEntity,
}

// CodeToStatus returns the HTTP status for an error code. Unknown codes are
// reported as internal errors rather than dropped.
func CodeToStatus(code string) int {
	if status, ok := statusCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
