package xtype

import "fmt"

// Error codes distinguishing the error kinds spec.md §7 requires.
const (
	// ErrCodeIO marks an underlying reader/writer failure, propagated
	// unchanged from the standard library.
	ErrCodeIO = "IO_ERROR"
	// ErrCodeInvalidData marks malformed input in the declared or detected
	// format.
	ErrCodeInvalidData = "INVALID_DATA"
	// ErrCodeFormatNotDetected marks detection failure when from is omitted
	// and every probe reported "not matched".
	ErrCodeFormatNotDetected = "FORMAT_NOT_DETECTED"
	// ErrCodeUnsupportedCardinality marks an attempt to emit more than one
	// document to a single-document output format (TOML).
	ErrCodeUnsupportedCardinality = "UNSUPPORTED_CARDINALITY"
	// ErrCodeUnsupportedEncoding marks YAML bytes that are not a recognized
	// UTF-*N* stream.
	ErrCodeUnsupportedEncoding = "UNSUPPORTED_ENCODING"
)

// Error is xt's structured error type. It carries a stable Code that callers
// compare after a type assertion or errors.As, a human Message, an optional
// Position when the underlying parser supplied one (a byte offset for JSON,
// a line number for TOML), and the wrapped cause.
type Error struct {
	Code     string
	Message  string
	Position *int64
	Err      error
}

// NewError creates an Error with the given code and message and no wrapped
// cause.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError creates an Error with the given code whose message is derived
// from err, wrapping err so errors.Is/errors.As can still see through to it.
func WrapError(code string, err error) *Error {
	return &Error{Code: code, Message: err.Error(), Err: err}
}

// WithPosition sets the position associated with the error and returns the
// receiver for chaining.
func (e *Error) WithPosition(pos int64) *Error {
	e.Position = &pos
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position != nil {
		return fmt.Sprintf("%s: %s (at position %d)", e.Code, e.Message, *e.Position)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}
