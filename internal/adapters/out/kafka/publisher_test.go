package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStatusChangedMessage(t *testing.T) {
	item, err := order.NewItem("SKU-1", "Walnut desk organizer", 1, 900_00)
	require.NoError(t, err)
	guest, err := order.NewGuestInfo("Riya Sen", "", "", "14 Lake Road, Kolkata")
	require.NoError(t, err)

	aggregate, err := order.NewOrder(kernel.NewUUID(), []order.Item{item}, 60_00, order.COD, nil, &guest)
	require.NoError(t, err)

	changed, err := aggregate.TransitionTo(order.Cancelled, order.ActorMerchant)
	require.NoError(t, err)
	require.True(t, changed)

	occurredAt := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	message, err := newStatusChangedMessage(aggregate, order.OrderPlaced, order.ActorMerchant, occurredAt)
	require.NoError(t, err)

	assert.Equal(t, aggregate.ID().String(), string(message.Key),
		"messages must be keyed by order id for partition ordering")
	assert.Equal(t, occurredAt, message.Time)

	var event ports.OrderStatusChangedEvent
	require.NoError(t, json.Unmarshal(message.Value, &event))

	assert.Equal(t, aggregate.ID().String(), event.OrderID)
	assert.Equal(t, order.OrderPlaced.String(), event.FromStatus)
	assert.Equal(t, order.Cancelled.String(), event.ToStatus)
	assert.Equal(t, order.ActorMerchant.String(), event.Actor)
	assert.Equal(t, "2026-08-29T12:00:00Z", event.OccurredAt)
}
