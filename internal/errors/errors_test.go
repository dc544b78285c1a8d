package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{ErrConfig, ErrServer, ErrSession, ErrUI}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code)
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{"config error", ErrConfig, "Invalid configuration in .greengrid.yaml", "Check your configuration file syntax"},
		{"server error", ErrServer, "Cannot listen on :8501", "Pick another address with --addr"},
		{"session error", ErrSession, "Unknown substation 'S99'", "Pick one of S01 ... S15"},
		{"ui error", ErrUI, "Dashboard needs a terminal", "Run greengrid simulate instead"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)
			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	err := WrapWithCode(
		errors.New("listen tcp :80: bind: permission denied"),
		ErrServer,
		"Cannot start the web dashboard",
		"Use an unprivileged port, e.g. --addr :8501",
	)

	out := err.Error()
	lines := strings.Split(out, "\n")
	assert.True(t, strings.HasPrefix(lines[0], "✗ Cannot start the web dashboard"))
	assert.Contains(t, out, "permission denied")
	assert.Contains(t, out, "--addr :8501")
	assert.Equal(t, "Cannot start the web dashboard", err.Short())
}

func TestErrorFormatting_NoSuggestion(t *testing.T) {
	out := New(ErrUI, "Render failed", "").Error()
	assert.Equal(t, "✗ Render failed\n", out)
}

func TestUnwrapAndIs(t *testing.T) {
	cause := errors.New("root cause")
	wrapped := WrapWithCode(cause, ErrConfig, "Config failed", "")

	assert.Equal(t, cause, wrapped.Unwrap())
	assert.True(t, errors.Is(wrapped, cause))

	var ggErr *Error
	require.True(t, errors.As(fmt.Errorf("outer: %w", wrapped), &ggErr))
	assert.Equal(t, ErrConfig, ggErr.Code)
}

func TestIsCode(t *testing.T) {
	err := New(ErrConfig, "Config error", "")

	assert.True(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(err, ErrServer))
	assert.True(t, IsCode(fmt.Errorf("wrapped: %w", err), ErrConfig))
	assert.False(t, IsCode(errors.New("standard error"), ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))
}

func TestNewUnknownSubstation(t *testing.T) {
	err := NewUnknownSubstation("S42", []string{"S01", "S02", "S15"})
	assert.Equal(t, ErrSession, err.Code)
	assert.Contains(t, err.Message, "S42")
	assert.Contains(t, err.Suggestion, "S01 ... S15")

	err = NewUnknownSubstation("x", nil)
	assert.Equal(t, "Pick one of the configured substations", err.Suggestion)
}
