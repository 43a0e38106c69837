package uvdocs

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECONFLICT = "conflict"
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"

	// EFETCH reports a network or transport failure reaching an upstream page.
	EFETCH = "fetch"
	// EPARSE reports markup that is missing the expected structure.
	EPARSE = "parse"
	// ECACHEIO reports a persistence read or write fault.
	ECACHEIO = "cache_io"

	// Resolution misses, one per address level.
	ENOSECTION    = "section_not_found"
	ENOELEMENT    = "element_not_found"
	ENOSUBSECTION = "subsection_not_found"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code & message.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("uvdocs error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsNotFound reports whether err is any of the "not found" codes.
func IsNotFound(err error) bool {
	switch ErrorCode(err) {
	case ENOTFOUND, ENOSECTION, ENOELEMENT, ENOSUBSECTION:
		return true
	}
	return false
}
