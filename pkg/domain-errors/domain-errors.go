package domainerrors

import "errors"

// Code names what went wrong in service terms. Transports map it to their
// own status values.
type Code string

const (
	CodeNotFound      Code = "not_found"
	CodeBadRequest    Code = "bad_request"
	CodeInvalidInput  Code = "invalid_input"
	CodeValidation    Code = "validation_failed"
	CodeInternal      Code = "internal_error"
	CodeConfiguration Code = "configuration_error"
	CodeTimeout       Code = "timeout"

	// Revocation input defects. Each is distinct so callers can tell client
	// defects apart without string matching.
	CodeEmptyBody           Code = "empty_body"
	CodeMalformedToken      Code = "malformed_token"
	CodeInvalidPayloadShape Code = "invalid_payload_shape"
	CodeMissingURI          Code = "missing_uri"
	CodeMissingIndex        Code = "missing_index"

	// Infrastructure failures at the two external suspension points.
	CodeSigningFailed Code = "signing_failed"
	CodeStorageFailed Code = "storage_failed"
)

var inputDefects = map[Code]bool{
	CodeBadRequest:          true,
	CodeInvalidInput:        true,
	CodeValidation:          true,
	CodeEmptyBody:           true,
	CodeMalformedToken:      true,
	CodeInvalidPayloadShape: true,
	CodeMissingURI:          true,
	CodeMissingIndex:        true,
}

// IsInputDefect reports whether code blames the caller's input.
func (c Code) IsInputDefect() bool {
	return inputDefects[c]
}

// Error carries a stable code alongside an optional message and cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same code, so errors.Is(err, New(code, ""))
// works as a code test.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches code to err unless err already carries one, in which case
// the existing code wins.
func Wrap(err error, code Code, msg string) error {
	if existing, ok := CodeOf(err); ok {
		return &Error{Code: existing, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// WrapAs attaches code to err even when err already carries a different one.
// Use it at boundaries where every failure means the same thing to callers.
func WrapAs(err error, code Code, msg string) error {
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the outermost code in err's chain.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

func HasCode(err error, code Code) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}
