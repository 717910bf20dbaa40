package cgi

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMetaVariable is matched by every *MetaVariableError.
	ErrInvalidMetaVariable = errors.New("cgi: invalid meta-variable")
	// ErrInvalidURL is matched by every *URLError.
	ErrInvalidURL = errors.New("cgi: invalid request url")
	// ErrHeader is matched by every *HeaderError.
	ErrHeader = errors.New("cgi: invalid response header")
	// ErrContentTooLarge is returned when the body length does not fit the
	// Content-Length header.
	ErrContentTooLarge = errors.New("cgi: content too large")
	// ErrIO wraps failures of the output sink.
	ErrIO = errors.New("cgi: write failed")
)

// MetaVariableError reports a mandatory meta-variable that was missing or
// held an unusable value.
type MetaVariableError struct {
	Key MetaVariable
}

func (e *MetaVariableError) Error() string {
	return fmt.Sprintf("cgi: invalid meta-variable %s", e.Key)
}

func (e *MetaVariableError) Is(target error) bool { return target == ErrInvalidMetaVariable }

// URLError reports a request url that could not be assembled.
type URLError struct {
	URL string
	Err error
}

func (e *URLError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cgi: invalid request url %q", e.URL)
	}
	return fmt.Sprintf("cgi: invalid request url %q: %v", e.URL, e.Err)
}

func (e *URLError) Unwrap() error { return e.Err }

func (e *URLError) Is(target error) bool { return target == ErrInvalidURL }

// HeaderError reports a response header that cannot be put on the wire.
type HeaderError struct {
	Name  string
	Value string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("cgi: invalid response header %q: %q", e.Name, e.Value)
}

func (e *HeaderError) Is(target error) bool { return target == ErrHeader }

func ioErr(err error) error {
	return fmt.Errorf("%w: %w", ErrIO, err)
}
