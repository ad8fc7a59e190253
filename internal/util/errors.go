package util

import (
	"errors"
	"net/http"
)

var (
	ErrAuthMissing        = errors.New("access token required")
	ErrAuthInvalid        = errors.New("invalid token")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrRelationExists     = errors.New("student already linked to instructor")
	ErrTestNotFound       = errors.New("test not found")
	ErrAttemptNotFound    = errors.New("attempt not found")
	ErrValidation         = errors.New("validation failed")
	ErrUnknownQuestion    = errors.New("answer references a question outside the test")
	ErrDuplicateAnswer    = errors.New("question answered more than once")
	ErrUnsupportedFile    = errors.New("unsupported file type")
)

// Error codes returned to clients in the errorCode field.
const (
	CodeAuthMissing        = "AUTHENTICATION_MISSING"
	CodeAuthInvalid        = "AUTHENTICATION_INVALID"
	CodeAuthorization      = "AUTHORIZATION_DENIED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeConflict           = "CONFLICT"
	CodeNotFound           = "NOT_FOUND"
	CodeValidation         = "VALIDATION_FAILED"
	CodeUnknownQuestion    = "UNKNOWN_QUESTION"
	CodeDuplicateAnswer    = "DUPLICATE_ANSWER"
	CodeUnsupportedFile    = "UNSUPPORTED_FILE"
	CodeInternal           = "INTERNAL"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// Checked in order; more specific errors come before the ones they wrap.
var errorMappings = []errorMapping{
	{ErrAuthMissing, http.StatusUnauthorized, CodeAuthMissing},
	{ErrAuthInvalid, http.StatusForbidden, CodeAuthInvalid},
	{ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
	{ErrPermissionDenied, http.StatusForbidden, CodeAuthorization},
	{ErrEmailRegistered, http.StatusConflict, CodeConflict},
	{ErrRelationExists, http.StatusConflict, CodeConflict},
	{ErrUserNotFound, http.StatusNotFound, CodeNotFound},
	{ErrStudentNotFound, http.StatusNotFound, CodeNotFound},
	{ErrTestNotFound, http.StatusNotFound, CodeNotFound},
	{ErrAttemptNotFound, http.StatusNotFound, CodeNotFound},
	{ErrUnknownQuestion, http.StatusBadRequest, CodeUnknownQuestion},
	{ErrDuplicateAnswer, http.StatusBadRequest, CodeDuplicateAnswer},
	{ErrUnsupportedFile, http.StatusBadRequest, CodeUnsupportedFile},
	{ErrValidation, http.StatusBadRequest, CodeValidation},
}

// Classify resolves err to an HTTP status and error code. Unknown errors are internal.
func Classify(err error) (int, string, bool) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.code, true
		}
	}
	return http.StatusInternalServerError, CodeInternal, false
}
