package commands_test

import (
	"testing"

	"deliveryorders/internal/core/application/usecases/commands"
	"deliveryorders/internal/core/domain/model/order"
	"deliveryorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChangeOrderStatusCommand(t *testing.T) {
	cmd, err := commands.NewChangeOrderStatusCommand(12, order.Delivered)

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, int64(12), cmd.OrderID())
	assert.Equal(t, order.Delivered, cmd.Status())
}

func TestNewChangeOrderStatusCommand_InvalidInput(t *testing.T) {
	_, err := commands.NewChangeOrderStatusCommand(0, order.Unknown)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Contains(t, err.Error(), "order id")
	assert.Contains(t, err.Error(), "status")
}

func TestChangeOrderStatusCommand_NotConstructed(t *testing.T) {
	var cmd commands.ChangeOrderStatusCommand

	require.ErrorIs(t, cmd.Validate(), commands.ErrChangeOrderStatusCommandIsNotConstructed)
}
