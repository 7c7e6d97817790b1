package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product_draft_studio/apperr"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"min=1,max=2"`
	Style string `json:"style,omitempty" validate:"oneof=a b"`
}

func TestValidate_UsesJSONNames(t *testing.T) {
	err := New().Validate(sample{Count: 3, Style: "c"})
	require.Error(t, err)

	var ae *apperr.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, apperr.CodeValidation, ae.Code)

	details, ok := ae.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "must not exceed 2", details["count"])
	assert.Equal(t, "must be one of: a b", details["style"])
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, Default().Validate(sample{Name: "x", Count: 1, Style: "a"}))
}
