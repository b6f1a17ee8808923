package guard_test

import (
	"errors"
	"testing"

	"deliveryorders/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed_guard_passes", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("unused")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_returns_given_error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expected := errors.New("query not constructed")

		err := g.Validate(expected)

		assert.Equal(t, expected, err)
	})

	t.Run("zero_value_falls_back_to_default_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

func TestConstructorGuard_EmbeddedInValueObject(t *testing.T) {
	type pageRequest struct {
		page  int
		guard guard.ConstructorGuard
	}
	errNotConstructed := errors.New("pageRequest must be created via newPageRequest")

	newPageRequest := func(page int) pageRequest {
		return pageRequest{page: page, guard: guard.NewConstructorGuard()}
	}

	built := newPageRequest(2)
	require.NoError(t, built.guard.Validate(errNotConstructed))

	literal := pageRequest{page: 2}
	require.ErrorIs(t, literal.guard.Validate(errNotConstructed), errNotConstructed)
}
