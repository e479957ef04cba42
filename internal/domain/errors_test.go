package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"malformed", NewMalformedRequestError("bad"), KindMalformedRequest},
		{"not found", NewNotFoundError("Pet", "42"), KindNotFound},
		{"rule", NewRuleViolationError("dup"), KindRuleViolation},
		{"conflict", NewConflictError("race"), KindConflict},
		{"wrapped", fmt.Errorf("outer: %w", NewConflictError("race")), KindConflict},
		{"plain", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestNewNotFoundError_CarriesContext(t *testing.T) {
	err := NewNotFoundError("City", "1000")

	assert.Equal(t, "City 1000 not found", err.Error())
	assert.Equal(t, "City", err.Context["entity"])
	assert.Equal(t, "1000", err.Context["key"])
	assert.True(t, IsNotFound(err))
}

func TestInternalError_Unwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternalError("failed to load users", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to load users: connection reset", err.Error())
}

func TestAsError(t *testing.T) {
	rule := NewRuleViolationError("quota")
	assert.Same(t, rule, AsError(rule, "ignored"))

	converted := AsError(errors.New("db down"), "failed to save user")
	assert.Equal(t, KindInternal, converted.Kind)
	assert.Equal(t, "failed to save user", converted.Message)
}

func TestWith_AddsContext(t *testing.T) {
	err := NewConflictError("not registered").With("email", "a@x.com").With("pet_id", "42")

	assert.Equal(t, map[string]string{"email": "a@x.com", "pet_id": "42"}, err.Context)
}
