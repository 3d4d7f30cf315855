// Package domainerrors carries the error taxonomy shared by services and
// transport. Services return *Error values; handlers translate the Code into an
// HTTP status and surface the Key to clients as a machine-readable reason.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies a failure independently of transport.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeValidation         Code = "validation_error"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal_error"
)

// Error keys reported alongside bad requests on entity endpoints.
const (
	KeyIDExists   = "idexists"
	KeyIDNull     = "idnull"
	KeyIDInvalid  = "idinvalid"
	KeyIDNotFound = "idnotfound"
)

// Error is a coded domain error. Err, when set, is the underlying cause and is
// never exposed to clients.
type Error struct {
	Code    Code
	Key     string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a domain error with the given code.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// NewKeyed builds a domain error that carries a client-facing reason key.
func NewKeyed(code Code, key, msg string) error {
	return &Error{Code: code, Key: key, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode reports whether any domain error in err's chain carries code.
func HasCode(err error, code Code) bool {
	var de *Error
	for err != nil {
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// Is is an alias of HasCode kept for call sites that read better with it.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// As returns the outermost domain error in err's chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// KeyOf returns the reason key of the outermost domain error, if any.
func KeyOf(err error) string {
	if de, ok := As(err); ok {
		return de.Key
	}
	return ""
}

// ToHTTPStatus maps a code to the status a handler should answer with.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeInvalidInput, CodeValidation, CodeInvariantViolation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
