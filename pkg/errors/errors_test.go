package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesClonesByCode(t *testing.T) {
	clone := Clone(ErrValidation, "marks out of range")
	wrapped := fmt.Errorf("save: %w", clone)

	assert.True(t, errors.Is(wrapped, ErrValidation))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, "marks out of range", clone.Message)
	assert.Equal(t, "validation failed", ErrValidation.Message)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	appErr := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Nil(t, FromError(nil))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Wrap(cause, ErrGatewayUnavailable.Code, ErrGatewayUnavailable.Status, "list grades")
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	assert.Equal(t, "list grades: dial tcp: refused", err.Error())
}
