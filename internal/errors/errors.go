package errors

import (
	"errors"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// Failure constructors for the auth taxonomy. Handlers map anything else to 500.

// DuplicateAccount reports a registration against an already-taken email.
func DuplicateAccount() error {
	return &ErrorWithStatusCode{Message: "Email already registered", StatusCode: http.StatusBadRequest}
}

// InvalidCredentials deliberately covers both "no such account" and "wrong
// password" so callers cannot enumerate accounts through login.
func InvalidCredentials() error {
	return &ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
}

func AccountNotFound() error {
	return &ErrorWithStatusCode{Message: "Account not found", StatusCode: http.StatusNotFound}
}

// InvalidOrExpiredToken covers verification and reset tokens alike. Expired
// tokens are indistinguishable from absent ones.
func InvalidOrExpiredToken() error {
	return &ErrorWithStatusCode{Message: "Invalid or expired token", StatusCode: http.StatusBadRequest}
}

// Unauthorized is the guard's denial.
func Unauthorized() error {
	return &ErrorWithStatusCode{Message: "Access denied", StatusCode: http.StatusForbidden}
}

// NotificationDeliveryFailed propagates only from the password-reset request
// path; registration swallows delivery failures.
func NotificationDeliveryFailed() error {
	return &ErrorWithStatusCode{Message: "Could not send email, please retry", StatusCode: http.StatusBadGateway}
}

// IsNotFound reports whether err carries a 404 status.
func IsNotFound(err error) bool {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) {
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// StatusCode extracts the http status carried by err, defaulting to 500.
func StatusCode(err error) int {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}
