package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes returned in the "error" field of rejection responses. Clients
// use the code to decide between redirecting to login (credential and session
// failures) and retrying (storage_unavailable).
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeUnauthenticated    = "unauthenticated"
	ErrorCodeTokenInvalid       = "token_invalid"
	ErrorCodeSessionNotFound    = "session_not_found"
	ErrorCodeSessionSuperseded  = "session_superseded"
	ErrorCodeRefreshExpired     = "refresh_expired"
	ErrorCodeEmailTaken         = "email_taken"
	ErrorCodeStorageUnavailable = "storage_unavailable"
	ErrorCodeServerError        = "server_error"
	ErrorCodeRateLimited        = "rate_limited"
)

// APIError is a machine-readable error response. It implements the error
// interface and is used by handlers to write rejection responses.
type APIError struct {
	// StatusCode is the HTTP status code for this error.
	StatusCode int `json:"-"`

	// Code is the machine-readable error code.
	Code string `json:"error"`

	// Description is a human-readable description of the error.
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

var (
	// ErrInvalidRequest is returned for malformed bodies or missing fields.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidCredentials is returned when the supplied credentials do not
	// resolve to a user. Deliberately identical for unknown email and wrong
	// password.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid email or password",
	}

	// ErrUnauthenticated is returned when no access token is present.
	ErrUnauthenticated = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeUnauthenticated,
		Description: "authentication required",
	}

	// ErrTokenInvalid is returned for tampered or malformed tokens.
	ErrTokenInvalid = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeTokenInvalid,
		Description: "the access token is malformed or its signature is invalid",
	}

	// ErrSessionNotFound is returned when no session exists for the user,
	// typically after a logout or a login elsewhere.
	ErrSessionNotFound = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeSessionNotFound,
		Description: "no active session, log in again",
	}

	// ErrSessionSuperseded is returned when a newer login replaced the
	// session this token was issued under.
	ErrSessionSuperseded = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeSessionSuperseded,
		Description: "session was replaced by a newer login",
	}

	// ErrRefreshExpired is returned when the stored refresh token has
	// expired and a full re-login is required.
	ErrRefreshExpired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeRefreshExpired,
		Description: "refresh token expired, log in again",
	}

	// ErrEmailTaken is returned when registering an address that exists.
	ErrEmailTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeEmailTaken,
		Description: "an account with this email already exists",
	}

	// ErrStorageUnavailable is returned when the session store cannot be
	// reached. Retryable, distinct from authentication failures.
	ErrStorageUnavailable = &APIError{
		StatusCode:  http.StatusServiceUnavailable,
		Code:        ErrorCodeStorageUnavailable,
		Description: "session storage temporarily unavailable, retry",
	}

	// ErrServerError is the fallback for unexpected conditions.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)
