package domain

import "errors"

// Kind classifies an application error
type Kind int

const (
	KindInternal             Kind = iota // Unexpected storage or filesystem failure
	KindBadRequest                       // Missing or invalid input
	KindUnauthorized                     // Missing, malformed, expired or revoked token
	KindNotFound                         // No matching resource
	KindConflict                         // Uniqueness violation
	KindUnsupportedMediaType             // Disallowed upload extension
)

// Error is an application error carrying a kind and a human-readable message
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// BadRequest creates a BadRequest error
func BadRequest(msg string) *Error { return &Error{Kind: KindBadRequest, Message: msg} }

// Unauthorized creates an Unauthorized error
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

// NotFound creates a NotFound error
func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

// Conflict creates a Conflict error
func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

// UnsupportedMediaType creates an UnsupportedMediaType error
func UnsupportedMediaType(msg string) *Error {
	return &Error{Kind: KindUnsupportedMediaType, Message: msg}
}

// KindOf reports the kind of err, KindInternal for anything that is not an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Auth errors
var (
	ErrMissingCredentials = BadRequest("Username and password are required")
	ErrUsernameTaken      = BadRequest("User already exists")
	ErrPasswordTooLong    = BadRequest("Password must be at most 72 bytes")
	ErrInvalidCredentials = Unauthorized("Invalid credentials")
	ErrUserNotFound       = NotFound("User not found")
)

// Employee errors
var (
	ErrEmployeeNotFound = NotFound("Employee not found")
	ErrEmailTaken       = Conflict("Employee email already exists")
	ErrImagesOnly       = UnsupportedMediaType("Error: Images Only! (jpg, jpeg, png)")
)
