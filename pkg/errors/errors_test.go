package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NewInternalError("failed to get provider", fmt.Errorf("connection refused"))
	assert.Equal(t, "INTERNAL: failed to get provider: connection refused", err.Error())

	notFound := NewNotFoundError("provider with id 1 not found")
	assert.Equal(t, "NOT_FOUND: provider with id 1 not found", notFound.Error())
}

func TestIsType(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", NewNotFoundError("missing"))

	assert.True(t, IsType(wrapped, ErrorTypeNotFound))
	assert.False(t, IsType(wrapped, ErrorTypeInternal))
	assert.False(t, IsType(fmt.Errorf("plain"), ErrorTypeNotFound))
	assert.False(t, IsType(nil, ErrorTypeNotFound))
}
