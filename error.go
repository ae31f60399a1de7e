package fasub

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by storage implementations when a lookup misses.
// Extraction never returns it; a submission missing from the site is a
// nil record, not an error.
var ErrNotFound = errors.New("not found")

// Error is the single error classification used across fasub.
// Retry reports whether the same operation may succeed if attempted again.
type Error struct {
	Message string
	Retry   bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Errorf returns a new Error with a formatted message.
func Errorf(retry bool, format string, args ...any) *Error {
	return &Error{
		Message: fmt.Sprintf(format, args...),
		Retry:   retry,
	}
}

// ErrorMessage returns the message of err if it is an *Error, otherwise
// the result of err.Error(). Returns an empty string for a nil error.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsRetryable reports whether err is an *Error marked as retryable.
// Errors of any other type are not retryable.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retry
	}
	return false
}

// TransportError classifies a failure of the transport itself
// (connection refused, timeout, truncated body).
func TransportError(err error) *Error {
	return Errorf(true, "transport error: %v", err)
}

// StatusError classifies an unexpected HTTP status. Server errors and
// rate-limit responses are retryable; everything else is not.
func StatusError(code int, url string) *Error {
	retry := code >= 500 || code == 429
	if code >= 500 {
		return Errorf(retry, "got server error: %d for %s", code, url)
	}
	return Errorf(retry, "got status %d for %s", code, url)
}

// MissingFieldError reports that the locator for field matched nothing.
func MissingFieldError(field string) *Error {
	return Errorf(false, "unable to select %s", field)
}

// MissingAttributeError reports that the element for field was found but
// lacked attr. Seen when the site serves a partially rendered page.
func MissingAttributeError(field, attr string) *Error {
	return Errorf(true, "unable to read %s attribute of %s", attr, field)
}

// ParseIntError reports that text for field was not an integer.
func ParseIntError(field, text string) *Error {
	return Errorf(false, "value was not number: %s %q", field, text)
}

// DateError reports date text that matched none of the accepted templates.
func DateError(text string) *Error {
	return Errorf(false, "unable to parse date %q", text)
}

// RatingError reports an unrecognized rating label.
func RatingError(text string) *Error {
	return Errorf(false, "unknown rating %q", text)
}

// DecodeError reports a payload that could not be decoded as an image.
func DecodeError(err error) *Error {
	return Errorf(false, "unable to decode image: %v", err)
}

// InvalidSubmissionTypeError reports a view page carrying neither image
// nor animation markup.
func InvalidSubmissionTypeError() *Error {
	return Errorf(false, "invalid submission type")
}
