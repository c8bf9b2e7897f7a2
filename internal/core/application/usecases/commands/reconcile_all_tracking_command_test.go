package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReconcileAllTrackingCommand(t *testing.T) {
	cmd := commands.NewReconcileAllTrackingCommand()
	require.NoError(t, cmd.Validate())
}

func TestReconcileAllTrackingCommand_Validate_NotConstructed(t *testing.T) {
	var cmd commands.ReconcileAllTrackingCommand
	assert.ErrorIs(t, cmd.Validate(), commands.ErrReconcileAllTrackingCommandIsNotConstructed)
}
