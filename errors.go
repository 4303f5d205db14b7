package wpress

import "errors"

// Sentinel errors.
var (
	// ErrIncompleteHeader is returned when fewer than HeaderSize bytes are
	// available where a header block was expected.
	ErrIncompleteHeader = errors.New("wpress: incomplete header")

	// ErrInvalidHeader is returned when a header block does not decode.
	ErrInvalidHeader = errors.New("wpress: invalid header")

	// ErrFieldTooLong is returned when a value does not fit its header slot.
	ErrFieldTooLong = errors.New("wpress: field length exceeded")

	// ErrInvalidField is returned when a value contains a NUL byte, or a
	// name contains a path separator.
	ErrInvalidField = errors.New("wpress: invalid field content")

	// ErrNoName is returned when a path has no final component.
	ErrNoName = errors.New("wpress: path has no file name")

	// ErrBeforeEpoch is returned for modification times before the Unix epoch.
	ErrBeforeEpoch = errors.New("wpress: modification time before Unix epoch")

	// ErrUnsafePath is returned when an entry path cannot be reduced to a
	// relative path inside the destination directory.
	ErrUnsafePath = errors.New("wpress: unsafe entry path")

	// ErrSizeOverflow is returned when a size cannot be represented as a
	// stream offset.
	ErrSizeOverflow = errors.New("wpress: size overflow")

	// ErrTooManyFiles is returned when Add collects more files than allowed.
	ErrTooManyFiles = errors.New("wpress: too many files")

	// ErrWriterClosed is returned by Writer methods called after Write or
	// Close.
	ErrWriterClosed = errors.New("wpress: writer closed")
)

// FieldError records a failure to encode or decode one header field.
type FieldError struct {
	Op    string // "encode" or "decode"
	Field Field
	Err   error
}

func (e *FieldError) Error() string {
	return "wpress: " + e.Op + " " + e.Field.String() + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error { return e.Err }
