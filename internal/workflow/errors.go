package workflow

import "fmt"

// Code classifies a workflow failure so callers can map it to a response.
type Code string

// Error codes returned by the moderation engine and the application workflow.
const (
	CodeInvalidTransition    Code = "INVALID_TRANSITION"
	CodeNotFound             Code = "NOT_FOUND"
	CodeUnauthorized         Code = "UNAUTHORIZED"
	CodeDuplicateApplication Code = "DUPLICATE_APPLICATION"
	CodePostingNotVisible    Code = "POSTING_NOT_VISIBLE"
	CodeAlreadyDecided       Code = "ALREADY_DECIDED"
	CodeValidation           Code = "VALIDATION"
	CodeInternal             Code = "INTERNAL"
)

// Sentinels for errors.Is. A sentinel matches any Error carrying the same code.
var (
	ErrInvalidTransition    = &Error{Code: CodeInvalidTransition}
	ErrNotFound             = &Error{Code: CodeNotFound}
	ErrUnauthorized         = &Error{Code: CodeUnauthorized}
	ErrDuplicateApplication = &Error{Code: CodeDuplicateApplication}
	ErrPostingNotVisible    = &Error{Code: CodePostingNotVisible}
	ErrAlreadyDecided       = &Error{Code: CodeAlreadyDecided}
	ErrValidation           = &Error{Code: CodeValidation}
)

// Error is a classified workflow error with a user facing message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// NewError builds an Error. err may be nil.
func NewError(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Errorf builds an Error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return CodeInternal
}
