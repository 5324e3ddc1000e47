package apierror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromValidationError(t *testing.T) {
	t.Run("field problems become a structured 400", func(t *testing.T) {
		type payload struct {
			Name string `validate:"required"`
			Age  int    `validate:"gt=0"`
		}

		apierr := FromValidationError(validator.New().Struct(&payload{}))
		require.NotNil(t, apierr)
		assert.Equal(t, http.StatusBadRequest, apierr.Code())

		structured, ok := apierr.(*StructuredError)
		require.True(t, ok)
		assert.Equal(t, []string{"This field is required"}, structured.Errors["Name"])
		assert.Equal(t, []string{"Value must be greater than 0"}, structured.Errors["Age"])
	})

	t.Run("anything else is an internal error", func(t *testing.T) {
		for _, err := range []error{
			errors.New("boom"),
			validator.New().Struct(nil),
		} {
			apierr := FromValidationError(err)
			require.NotNil(t, apierr)
			assert.Same(t, InternalServerError, apierr)
			assert.Equal(t, http.StatusInternalServerError, apierr.Code())
		}
	})
}
