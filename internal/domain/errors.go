// Package domain holds the error taxonomy shared by the service,
// repository and transport layers. Sentinels cover the cases callers
// only branch on; struct errors carry the data a caller needs to act.
// Messages never include password hashes or token material.
package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// token lifecycle, each rejection reason surfaced distinctly
	ErrNoToken             = errors.New("no token provided")
	ErrMalformedAuthHeader = errors.New("malformed authorization header")
	ErrTokenExpired        = errors.New("token has expired")
	ErrTokenInvalid        = errors.New("token is invalid")
	ErrTokenRevoked        = errors.New("token has been revoked")

	// mfa challenge terminal states
	ErrChallengeExpired = errors.New("mfa challenge has expired")
	ErrChallengeLocked  = errors.New("mfa challenge is locked")
)

// ConfigError reports a startup misconfiguration. It is never returned
// from a request path.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "config: " + e.Reason
}

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// InvalidCodeError reports a wrong MFA code. AttemptsRemaining tells
// the client how many tries are left before the challenge locks.
type InvalidCodeError struct {
	AttemptsRemaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid code, %d attempts remaining", e.AttemptsRemaining)
}
