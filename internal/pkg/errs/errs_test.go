package errs_test

import (
	"errors"
	"testing"

	"deliveryorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("order", int64(42))

		assert.Equal(t, "order", err.ParamName)
		assert.Equal(t, int64(42), err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: order 42", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := errs.NewObjectNotFoundErrorWithCause("order", int64(7), cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "object not found: order 7 (cause: connection reset)", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("latitude")

		assert.Equal(t, "latitude", err.ParamName)
		assert.Equal(t, "value is invalid: latitude", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("latitude", errors.New("not a number"))

		assert.Equal(t, "value is invalid: latitude (cause: not a number)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("address", 5, 20, 600)

		assert.Equal(t, 5, err.Value)
		assert.Equal(t, 20, err.Min)
		assert.Equal(t, 600, err.Max)
		assert.Equal(t, "value is out of range: address is 5, min value is 20, max value is 600", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeErrorWithCause("page", -1, 0, "inf", errors.New("negative"))

		assert.Equal(t,
			"value is out of range: page is -1, min value is 0, max value is inf (cause: negative)",
			err.Error())
	})

	t.Run("keeps value on a single line", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("composition", "two\nlines", 1, 600)

		assert.Contains(t, err.Error(), "two lines")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("composition")
	assert.Equal(t, "value is required: composition", err.Error())

	withCause := errs.NewValueIsRequiredErrorWithCause("composition", errors.New("empty"))
	assert.Equal(t, "value is required: composition (cause: empty)", withCause.Error())
}

func TestErrorsAreClassifiedBySentinel(t *testing.T) {
	require.ErrorIs(t, errs.NewObjectNotFoundError("order", 1), errs.ErrObjectNotFound)
	require.ErrorIs(t, errs.NewValueIsInvalidError("x"), errs.ErrValueIsInvalid)
	require.ErrorIs(t, errs.NewValueIsOutOfRangeError("x", 1, 2, 3), errs.ErrValueIsOutOfRange)
	require.ErrorIs(t, errs.NewValueIsRequiredError("x"), errs.ErrValueIsRequired)

	joined := errors.Join(errs.NewValueIsRequiredError("a"), errs.NewValueIsInvalidError("b"))
	require.ErrorIs(t, joined, errs.ErrValueIsRequired)
	require.ErrorIs(t, joined, errs.ErrValueIsInvalid)
}
