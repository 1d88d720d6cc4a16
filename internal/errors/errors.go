package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned for a failed login. It covers both
	// unknown-user and wrong-password so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrAccountDeactivated is returned when the user account is disabled.
	ErrAccountDeactivated = errors.New("user account is deactivated")
	// ErrEmailNotConfirmed is returned when the email address has not been verified.
	ErrEmailNotConfirmed = errors.New("email address is not verified")
	// ErrInvalidToken is returned for any access token failure.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidRefreshToken covers unknown, expired and rotated refresh tokens.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrInvalidVerificationToken is returned for a wrong email verification token.
	ErrInvalidVerificationToken = errors.New("invalid verification token")
	// ErrVerificationTokenExpired is returned when the verification token has lapsed.
	ErrVerificationTokenExpired = errors.New("verification token has expired")
	// ErrInvalidResetToken is returned for a wrong password reset token.
	ErrInvalidResetToken = errors.New("invalid reset token")
	// ErrResetTokenExpired is returned when the password reset token has lapsed.
	ErrResetTokenExpired = errors.New("reset token has expired")
	// ErrPasswordMismatch is returned when password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrWrongPassword is returned when the current password check fails.
	ErrWrongPassword = errors.New("current password is incorrect")

	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken is returned when registering an existing email.
	ErrEmailTaken = errors.New("email already exists")
	// ErrAlreadyVerified is returned when re-verifying a confirmed email.
	ErrAlreadyVerified = errors.New("email already verified")
	// ErrSystemNameTaken is returned for a duplicate role/permission system name.
	ErrSystemNameTaken = errors.New("system name already exists")

	// ErrNotFound is returned by id lookups that matched nothing.
	ErrNotFound = errors.New("record not found")

	// ErrSystemRoleDelete rejects deletion of built-in roles.
	ErrSystemRoleDelete = errors.New("system roles cannot be deleted")
	// ErrSystemRoleRename rejects system-name changes on built-in roles.
	ErrSystemRoleRename = errors.New("cannot change the system name of a system role")
	// ErrMenuItemHasChildren rejects deleting a menu item that still has children.
	ErrMenuItemHasChildren = errors.New("cannot delete a menu item with children")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Authentication
// failures map to 401, authorization is handled by the middleware,
// validation failures to 400, domain-rule violations to 422.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrAccountDeactivated),
		errors.Is(err, ErrEmailNotConfirmed),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrUsernameTaken),
		errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrSystemNameTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE")
	case errors.Is(err, ErrInvalidVerificationToken),
		errors.Is(err, ErrVerificationTokenExpired),
		errors.Is(err, ErrInvalidResetToken),
		errors.Is(err, ErrResetTokenExpired),
		errors.Is(err, ErrPasswordMismatch),
		errors.Is(err, ErrWrongPassword),
		errors.Is(err, ErrAlreadyVerified):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	case errors.Is(err, ErrSystemRoleDelete),
		errors.Is(err, ErrSystemRoleRename),
		errors.Is(err, ErrMenuItemHasChildren):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error(), "RULE_VIOLATION")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
