package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientErrorWrapping(t *testing.T) {
	err := &ClientError{
		Op:      "api.Profile",
		Kind:    "unauthorized",
		Status:  401,
		Message: "token expired",
		Err:     ErrUnauthorized,
	}

	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Contains(t, err.Error(), "api.Profile")
	assert.Contains(t, err.Error(), "token expired")

	var ce *ClientError
	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, errors.As(wrapped, &ce))
	assert.Equal(t, 401, ce.Status)
}

func TestErrorPredicates(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		local     bool
		auth      bool
		transport bool
	}{
		{"validation", NewClientError("op", "validation", ErrValidation), true, false, false},
		{"not authenticated", NewClientError("op", "not_authenticated", ErrNotAuthenticated), true, true, false},
		{"unauthorized", NewClientError("op", "unauthorized", ErrUnauthorized), false, true, false},
		{"no response", NewClientError("op", "no_response", ErrNoResponse), false, false, true},
		{"request setup", NewClientError("op", "request_setup", ErrRequestSetup), false, false, true},
		{"server", NewClientError("op", "server", ErrServer), false, false, false},
		{"plain error", errors.New("boom"), false, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.local, IsLocal(tc.err))
			assert.Equal(t, tc.auth, IsAuthFailure(tc.err))
			assert.Equal(t, tc.transport, IsTransport(tc.err))
		})
	}
}
