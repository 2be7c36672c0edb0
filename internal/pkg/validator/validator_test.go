package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	ID  string  `json:"id" validate:"required"`
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(&sample{ID: "BikePoints_1", Lat: 51.5}))

	err := Validate(&sample{Lat: 120})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "id failed required")
		assert.Contains(t, err.Error(), "lat failed max=90")
	}
}
