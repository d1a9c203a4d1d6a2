package auth

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes surfaced to API clients alongside the HTTP status.
const (
	TextCodeInvalidCreds        = "INVALID_CREDENTIALS"
	TextCodeDuplicateIdentifier = "DUPLICATE_IDENTIFIER"
	TextCodeTokenExpired        = "TOKEN_EXPIRED"
	TextCodeTokenMalformed      = "TOKEN_MALFORMED"
)

// ErrMismatchedHashAndPassword is returned for both unknown identifiers and
// wrong passwords; the message must stay identical for the two cases so the
// response never leaks which one occurred.
var ErrMismatchedHashAndPassword = goerrors.New("invalid credentials provided", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// ErrDuplicateIdentifier is the registration failure for an email or
// username that already belongs to another user.
var ErrDuplicateIdentifier = goerrors.New("identifier already registered", goerrors.CategoryConflict).
	WithTextCode(TextCodeDuplicateIdentifier)

// ErrTokenExpired covers tokens past their expiry instant.
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed covers tokens that fail to parse or verify.
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = goerrors.New("identity not found", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized)

// ErrTooManyLoginAttempts is returned while the cool down window is active
var ErrTooManyLoginAttempts = goerrors.New("too many login attempts", goerrors.CategoryAuth).
	WithTextCode("TOO_MANY_ATTEMPTS").
	WithCode(goerrors.CodeUnauthorized)

// ErrUnableToFindSession is the error when a request carries no session
var ErrUnableToFindSession = goerrors.New("unable to find session", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized)

// ErrUnableToDecodeSession unable to decode claims into a session
var ErrUnableToDecodeSession = goerrors.New("unable to decode session", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized)

// ErrNoEmptyString guards hashing of empty credentials
var ErrNoEmptyString = goerrors.New("value should not be an empty string", goerrors.CategoryValidation)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsDuplicateKeyError reports whether err is a storage level unique
// constraint violation. The constraint is what makes registration atomic;
// this helper only translates the driver message.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
