package apperr

import "fmt"

// Code identifies an error category. Codes are part of the API contract:
// they appear verbatim in the JSON error body.
type Code string

const (
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeForbidden          Code = "FORBIDDEN"
	CodeRingNotFound       Code = "RING_NOT_FOUND"
	CodeUserNotFound       Code = "USER_NOT_FOUND"
	CodeUsernameExists     Code = "USERNAME_EXISTS"
	CodeRingNameExists     Code = "RING_NAME_EXISTS"
	CodeAlreadyMember      Code = "ALREADY_MEMBER"
	CodeInternal           Code = "INTERNAL_ERROR"
)

// Error is the closed error variant shared by every component. Handlers map
// it to an HTTP status at the boundary; no other layer knows about HTTP.
type Error struct {
	Code    Code
	Message string
	Field   string // optional: which input field failed validation
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func Validation(message, field string) *Error {
	return &Error{Code: CodeValidation, Message: message, Field: field}
}

func Unauthorized() *Error {
	return &Error{Code: CodeUnauthorized, Message: "Authentication required"}
}

func InvalidCredentials() *Error {
	return &Error{Code: CodeInvalidCredentials, Message: "Invalid username or password"}
}

func Forbidden() *Error {
	return &Error{Code: CodeForbidden, Message: "You are not a member of this Ring."}
}

func NotFound(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Conflict(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Internal(message string) *Error {
	return &Error{Code: CodeInternal, Message: message}
}
