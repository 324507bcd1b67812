package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", Clone(ErrInvalidRoster, "class c1: duration must be positive"))

	appErr := FromError(wrapped)

	assert.Equal(t, ErrInvalidRoster.Code, appErr.Code)
	assert.Equal(t, "class c1: duration must be positive", appErr.Message)
	assert.True(t, IsClientError(wrapped))
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	appErr := FromError(errors.New("boom"))

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.False(t, IsClientError(appErr))
	assert.Nil(t, FromError(nil))
}

func TestCloneDoesNotMutateOriginal(t *testing.T) {
	clone := Clone(ErrValidation, "bad input")

	assert.Equal(t, "bad input", clone.Message)
	assert.Equal(t, "validation failed", ErrValidation.Message)
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, ErrInternal.Code, ErrInternal.Status, "failed to save export")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to save export: disk full", err.Error())
}
