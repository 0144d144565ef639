package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinels_Distinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrValidation,
		ErrInvalidCredentials,
		ErrNoToken,
		ErrMalformedAuthHeader,
		ErrTokenExpired,
		ErrTokenInvalid,
		ErrTokenRevoked,
		ErrChallengeExpired,
		ErrChallengeLocked,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.NotErrorIs(t, a, b, "%v must not match %v", a, b)
		}
	}
}

func TestSentinels_SurviveWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("%w: classId is required", ErrValidation)
	assert.ErrorIs(t, wrapped, ErrValidation)
	assert.Contains(t, wrapped.Error(), "classId is required")
}

func TestStructErrors_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "config", err: &ConfigError{Reason: "JWT_SECRET is not set"}, want: "config: JWT_SECRET is not set"},
		{name: "not found", err: &NotFoundError{Resource: "class"}, want: "class not found"},
		{name: "conflict", err: &ConflictError{Reason: "already enrolled"}, want: "already enrolled"},
		{name: "invalid code", err: &InvalidCodeError{AttemptsRemaining: 2}, want: "invalid code, 2 attempts remaining"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestStructErrors_MatchViaAs(t *testing.T) {
	t.Parallel()

	var notFound *NotFoundError
	err := fmt.Errorf("lookup: %w", &NotFoundError{Resource: "user"})
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "user", notFound.Resource)

	var invalid *InvalidCodeError
	err = &InvalidCodeError{AttemptsRemaining: 0}
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 0, invalid.AttemptsRemaining)

	// struct errors never match the sentinels
	assert.False(t, errors.Is(err, ErrChallengeLocked))
}
