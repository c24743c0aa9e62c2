package domain

import (
	"errors"
	"strings"
)

// ErrorKind classifies a failure for callers. Every Error carries exactly one.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindAuthentication ErrorKind = "authentication"
	KindAuthorization  ErrorKind = "authorization"
	KindConflict       ErrorKind = "conflict"
	KindPersistence    ErrorKind = "persistence"
)

// Codes refine a kind.
const (
	CodeInvalidFields      = "invalid_fields"
	CodeInvalidCredentials = "invalid_credentials"
	CodeProviderError      = "provider_error"
	CodeUnauthorized       = "unauthorized"
	CodeEmailTaken         = "email_taken"
	CodeInternal           = "internal"
)

// GenericFailureMessage is the only text a caller ever sees for an
// unexpected failure.
const GenericFailureMessage = "Something went wrong. Please try again."

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the tagged failure value returned by every mutation. Message is
// safe to show to the caller; Err holds the internal cause and is never
// rendered.
type Error struct {
	Kind    ErrorKind    `json:"kind"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
	Err     error        `json:"-"`
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind and code so sentinels work with errors.Is regardless of
// message or cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

var (
	ErrInvalidCredentials = &Error{Kind: KindAuthentication, Code: CodeInvalidCredentials, Message: "Invalid credentials."}
	ErrProvider           = &Error{Kind: KindAuthentication, Code: CodeProviderError, Message: GenericFailureMessage}
	ErrUnauthorized       = &Error{Kind: KindAuthorization, Code: CodeUnauthorized, Message: "You must be signed in to do that."}
	ErrEmailTaken         = &Error{Kind: KindConflict, Code: CodeEmailTaken, Message: "That email is already in use."}
	ErrInternal           = &Error{Kind: KindPersistence, Code: CodeInternal, Message: GenericFailureMessage}
)

// ValidationFailed builds a validation error naming every field.
func ValidationFailed(fields []FieldError) *Error {
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f.Message)
	}
	return &Error{
		Kind:    KindValidation,
		Code:    CodeInvalidFields,
		Message: strings.Join(msgs, "; "),
		Fields:  fields,
	}
}

// ProviderFailure wraps a sign-in failure that is not a credentials problem.
func ProviderFailure(cause error) *Error {
	return &Error{Kind: KindAuthentication, Code: CodeProviderError, Message: GenericFailureMessage, Err: cause}
}

// PersistenceFailure wraps an unexpected store failure.
func PersistenceFailure(cause error) *Error {
	return &Error{Kind: KindPersistence, Code: CodeInternal, Message: GenericFailureMessage, Err: cause}
}

// Unauthorized wraps a cross-tenant or missing-session refusal with its cause.
func Unauthorized(cause error) *Error {
	return &Error{Kind: KindAuthorization, Code: CodeUnauthorized, Message: ErrUnauthorized.Message, Err: cause}
}

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
