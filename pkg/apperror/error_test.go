package apperror_test

import (
	"errors"
	"net/http"
	"testing"

	"sweepo-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

func TestValidation(t *testing.T) {
	err := apperror.Validation([]string{"The Name field is required.", "The Service field is required."})

	assert.Equal(t, http.StatusBadRequest, err.Code)
	assert.Equal(t, "Validation failed: The Name field is required., The Service field is required.", err.Error())
	assert.Empty(t, err.RequestID)
}

func TestInternal(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := apperror.Internal(cause)

	assert.Equal(t, http.StatusInternalServerError, err.Code)
	assert.Equal(t, apperror.MsgInternal, err.Error())
	assert.NotContains(t, err.Message, "connection refused")
	assert.Empty(t, err.RequestID)
	assert.ErrorIs(t, err, cause)
}

func TestWithRequestID(t *testing.T) {
	cause := errors.New("smtp: 535")
	base := apperror.New(http.StatusInternalServerError, "failed", cause)

	withID := base.WithRequestID("a1b2c3d4")

	assert.Equal(t, "a1b2c3d4", withID.RequestID)
	assert.Empty(t, base.RequestID, "original error must stay untouched")
	assert.ErrorIs(t, withID, cause)
}
