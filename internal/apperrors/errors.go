package apperrors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidInput is returned when a request field fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateUsername is returned when the username is already registered.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrUserNotFound is returned when no user matches the lookup key.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when the password does not match the stored hash.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingToken is returned when a protected request carries no bearer token.
	ErrMissingToken = errors.New("missing token")
	// ErrMalformedToken is returned when a token cannot be parsed or its signature does not verify.
	ErrMalformedToken = errors.New("malformed token")
	// ErrTokenExpired is returned when a correctly signed token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Client-facing messages.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgDuplicateUsername  = "Username already exists"
	MsgMissingToken       = "Token is missing!"
	MsgMalformedToken     = "Token is invalid!"
	MsgTokenExpired       = "Token has expired!"
	MsgInternal           = "Internal server error"
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{Message: e.Message}
}

// IsInternal reports whether the error maps to a 5xx response.
func (e *HTTPError) IsInternal() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors collapse
// into a generic 500 so the cause never reaches the client.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrDuplicateUsername):
		return NewHTTPError(http.StatusConflict, MsgDuplicateUsername)
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, MsgInvalidCredentials)
	case errors.Is(err, ErrMissingToken):
		return NewHTTPError(http.StatusUnauthorized, MsgMissingToken)
	case errors.Is(err, ErrTokenExpired):
		return NewHTTPError(http.StatusUnauthorized, MsgTokenExpired)
	case errors.Is(err, ErrMalformedToken):
		return NewHTTPError(http.StatusUnauthorized, MsgMalformedToken)
	default:
		return NewHTTPError(http.StatusInternalServerError, MsgInternal)
	}
}
