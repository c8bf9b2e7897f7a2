package order_test

import (
	"fmt"
	"testing"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipelineStatuses() []order.Status {
	return []order.Status{
		order.OrderPlaced,
		order.Confirmed,
		order.Processing,
		order.PickupRequested,
		order.WaitingForPickup,
		order.PickedUp,
		order.WarehouseReceived,
		order.Shipped,
		order.OutForDelivery,
		order.Delivered,
	}
}

func allValidStatuses() []order.Status {
	return append(pipelineStatuses(),
		order.Cancelled,
		order.PaymentFailed,
		order.ReturnRequested,
		order.ReturnApproved,
		order.Returned,
	)
}

func TestStatus_Validate(t *testing.T) {
	t.Run("should validate all enum members", func(t *testing.T) {
		for _, status := range allValidStatuses() {
			t.Run(fmt.Sprintf("should validate %s status", status.String()), func(t *testing.T) {
				require.NoError(t, status.Validate())
			})
		}
	})

	t.Run("should reject Unknown status", func(t *testing.T) {
		err := order.Unknown.Validate()

		require.Error(t, err)
		assert.IsType(t, &errs.ValueIsInvalidError{}, err)
		assert.Contains(t, err.Error(), "status is invalid")
	})

	t.Run("should reject out of range status values", func(t *testing.T) {
		for _, status := range []order.Status{order.Status(-1), order.Status(16), order.Status(100)} {
			require.Error(t, status.Validate())
		}
	})
}

func TestStatus_String(t *testing.T) {
	t.Run("should return persisted names", func(t *testing.T) {
		assert.Equal(t, "ORDER_PLACED", order.OrderPlaced.String())
		assert.Equal(t, "OUT_FOR_DELIVERY", order.OutForDelivery.String())
		assert.Equal(t, "WAREHOUSE_RECEIVED", order.WarehouseReceived.String())
		assert.Equal(t, "RETURN_REQUESTED", order.ReturnRequested.String())
		assert.Equal(t, "UNKNOWN", order.Unknown.String())
		assert.Equal(t, "UNKNOWN", order.Status(42).String())
	})
}

func TestParseStatus(t *testing.T) {
	t.Run("should round-trip every valid status", func(t *testing.T) {
		for _, status := range allValidStatuses() {
			parsed, err := order.ParseStatus(status.String())
			require.NoError(t, err)
			assert.Equal(t, status, parsed)
		}
	})

	t.Run("should reject free text", func(t *testing.T) {
		for _, text := range []string{"", "shipped", "In Transit", "UNKNOWN", "delivered to neighbour"} {
			_, err := order.ParseStatus(text)
			require.Error(t, err, "text %q must not parse", text)
			assert.IsType(t, &errs.ValueIsInvalidError{}, err)
		}
	})
}

func TestStatus_PipelineIndex(t *testing.T) {
	t.Run("should order pipeline statuses strictly", func(t *testing.T) {
		previous := -1
		for _, status := range pipelineStatuses() {
			idx, ok := status.PipelineIndex()
			require.True(t, ok, "%s should be on the pipeline", status)
			assert.Greater(t, idx, previous)
			previous = idx
		}
	})

	t.Run("should report off-pipeline statuses", func(t *testing.T) {
		offPipeline := []order.Status{
			order.Cancelled,
			order.PaymentFailed,
			order.ReturnRequested,
			order.ReturnApproved,
			order.Returned,
			order.Unknown,
		}
		for _, status := range offPipeline {
			_, ok := status.PipelineIndex()
			assert.False(t, ok, "%s should be off the pipeline", status)
		}
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, order.Delivered.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
	assert.True(t, order.Returned.IsTerminal())

	for _, status := range []order.Status{
		order.OrderPlaced, order.Processing, order.Shipped,
		order.OutForDelivery, order.PaymentFailed, order.ReturnRequested, order.ReturnApproved,
	} {
		assert.False(t, status.IsTerminal(), "%s should not be terminal", status)
	}
}

func TestStatus_ValidateMerchantTransition(t *testing.T) {
	t.Run("should allow any transition between non-terminal states", func(t *testing.T) {
		require.NoError(t, order.PickedUp.ValidateMerchantTransition(order.Cancelled))
		require.NoError(t, order.Shipped.ValidateMerchantTransition(order.Processing))
		require.NoError(t, order.OrderPlaced.ValidateMerchantTransition(order.Delivered))
		require.NoError(t, order.ReturnRequested.ValidateMerchantTransition(order.ReturnApproved))
		require.NoError(t, order.ReturnApproved.ValidateMerchantTransition(order.Returned))
	})

	t.Run("should allow the return request escape from Delivered", func(t *testing.T) {
		require.NoError(t, order.Delivered.ValidateMerchantTransition(order.ReturnRequested))
	})

	t.Run("should reject backward moves out of terminal states", func(t *testing.T) {
		require.Error(t, order.Delivered.ValidateMerchantTransition(order.OrderPlaced))
		require.Error(t, order.Cancelled.ValidateMerchantTransition(order.Processing))
		require.Error(t, order.Returned.ValidateMerchantTransition(order.Shipped))
		require.Error(t, order.Cancelled.ValidateMerchantTransition(order.ReturnRequested))
	})

	t.Run("should reject invalid target statuses", func(t *testing.T) {
		require.Error(t, order.Processing.ValidateMerchantTransition(order.Unknown))
		require.Error(t, order.Processing.ValidateMerchantTransition(order.Status(99)))
	})
}

func TestStatus_AcceptsSystemCandidate(t *testing.T) {
	t.Run("should accept strictly forward pipeline moves", func(t *testing.T) {
		assert.True(t, order.OrderPlaced.AcceptsSystemCandidate(order.Processing))
		assert.True(t, order.Processing.AcceptsSystemCandidate(order.OutForDelivery))
		assert.True(t, order.OutForDelivery.AcceptsSystemCandidate(order.Delivered))
	})

	t.Run("should discard same-or-backward pipeline moves", func(t *testing.T) {
		assert.False(t, order.Shipped.AcceptsSystemCandidate(order.Shipped))
		assert.False(t, order.OutForDelivery.AcceptsSystemCandidate(order.Shipped))
		assert.False(t, order.Delivered.AcceptsSystemCandidate(order.Shipped))
	})

	t.Run("should discard proposals against off-pipeline statuses", func(t *testing.T) {
		// A cancelled order has no pipeline index, so any system proposal
		// measured against it is discarded.
		assert.False(t, order.Cancelled.AcceptsSystemCandidate(order.Shipped))
		assert.False(t, order.ReturnRequested.AcceptsSystemCandidate(order.Delivered))
	})

	t.Run("should discard off-pipeline candidates", func(t *testing.T) {
		assert.False(t, order.Shipped.AcceptsSystemCandidate(order.Cancelled))
		assert.False(t, order.Delivered.AcceptsSystemCandidate(order.ReturnRequested))
	})
}
