package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_WithDetailsKeepsSentinel(t *testing.T) {
	err := ErrInsufficientPoints.WithDetails(map[string]interface{}{"points": 2})

	assert.Equal(t, 2, err.Details["points"])
	assert.Empty(t, ErrInsufficientPoints.Details)
	assert.True(t, stderrors.Is(err, ErrInsufficientPoints))
}

func TestAppError_Wrap(t *testing.T) {
	cause := fmt.Errorf("dial tcp: timeout")
	err := fmt.Errorf("fetch: %w", ErrStationSource.Wrap(cause))

	assert.True(t, stderrors.Is(err, ErrStationSource))
	assert.True(t, stderrors.Is(err, cause))
	assert.False(t, stderrors.Is(err, ErrSecretStore))
	assert.Contains(t, err.Error(), "dial tcp: timeout")

	var appErr *AppError
	assert.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, "STATION_SOURCE_UNAVAILABLE", appErr.Code)
}
