package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrConfig, "Config file not found", "Create a .fleetdeck.yaml")

	assert.Equal(t, ErrConfig, err.Code)
	assert.Contains(t, err.Error(), "✗ Config file not found")
	assert.Contains(t, err.Error(), "Create a .fleetdeck.yaml")
	assert.Nil(t, err.Unwrap())
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, "Failed to fetch nodes")

	assert.Equal(t, ErrFetch, err.Code)
	assert.Contains(t, err.Error(), "Failed to fetch nodes")
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, cause, err.Unwrap())
}

func TestWrapWithCode(t *testing.T) {
	cause := stderrors.New("yaml: line 3")
	err := WrapWithCode(cause, ErrConfig, "Invalid config", "Check the YAML syntax")

	assert.Equal(t, ErrConfig, err.Code)
	assert.True(t, stderrors.Is(err, cause))
}

func TestIsCode(t *testing.T) {
	err := New(ErrValidation, "bad payload", "")

	assert.True(t, IsCode(err, ErrValidation))
	assert.False(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(nil, ErrValidation))
	assert.False(t, IsCode(stderrors.New("plain"), ErrValidation))

	// Wrapped structured errors still match through errors.As.
	wrapped := fmt.Errorf("context: %w", err)
	assert.True(t, IsCode(wrapped, ErrValidation))
}

func TestError_OmitsEmptySections(t *testing.T) {
	err := New(ErrFeed, "Feed dropped", "")
	out := err.Error()

	require.Contains(t, out, "Feed dropped")
	// No cause and no suggestion: just the headline.
	assert.NotContains(t, out, "\n\n  \n")
}
