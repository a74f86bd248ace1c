package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	err := NewInvalidInputError("horizon out of range")
	assert.Equal(t, "INVALID_INPUT: horizon out of range", err.Error())

	err = err.WithDetails("got 101")
	assert.Equal(t, "INVALID_INPUT: horizon out of range - got 101", err.Error())
}

func TestAppErrorIs(t *testing.T) {
	err := NewInsufficientDataError("too short")

	assert.True(t, errors.Is(err, NewInsufficientDataError("different message")))
	assert.False(t, errors.Is(err, NewInvalidInputError("too short")))
}

func TestWrapErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk read failed")
	err := WrapError(cause, ErrorTypeInternal, CodeInternalError, "load failed")

	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestCodePredicates(t *testing.T) {
	assert.True(t, IsInsufficientData(NewInsufficientDataError("x")))
	assert.False(t, IsInsufficientData(NewInvalidInputError("x")))
	assert.False(t, IsInsufficientData(fmt.Errorf("plain")))

	assert.True(t, IsInvalidInput(NewInvalidInputError("x")))
	assert.False(t, IsInvalidInput(nil))

	// Predicates see through wrapping.
	wrapped := fmt.Errorf("context: %w", NewInvalidInputError("x"))
	assert.True(t, IsInvalidInput(wrapped))
}
