package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelErrors(t *testing.T) {
	wrapped := fmt.Errorf("failed to create donation: %w", ErrDuplicate)
	assert.True(t, IsDuplicateError(wrapped))
	assert.False(t, IsNotFoundError(wrapped))
	assert.False(t, IsInvalidInputError(wrapped))

	assert.True(t, IsNotFoundError(fmt.Errorf("donation: %w", ErrNotFound)))
	assert.True(t, IsInvalidInputError(fmt.Errorf("amount: %w", ErrInvalidInput)))
	assert.False(t, IsNotFoundError(errors.New("not found")), "plain strings are not sentinel errors")
	assert.False(t, IsNotFoundError(nil))
}
