package services_test

import (
	"strings"
	"testing"

	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentSignatureVerifier(t *testing.T) {
	verifier := services.NewPaymentSignatureVerifier("merchant-secret")

	t.Run("should accept its own signature", func(t *testing.T) {
		signature := verifier.Sign("gw_order_1", "pay_1")

		require.Len(t, signature, 64)
		assert.True(t, verifier.Verify("gw_order_1", "pay_1", signature))
	})

	t.Run("should accept uppercase hex", func(t *testing.T) {
		signature := strings.ToUpper(verifier.Sign("gw_order_1", "pay_1"))
		assert.True(t, verifier.Verify("gw_order_1", "pay_1", signature))
	})

	t.Run("should reject a signature over different ids", func(t *testing.T) {
		signature := verifier.Sign("gw_order_1", "pay_1")

		assert.False(t, verifier.Verify("gw_order_2", "pay_1", signature))
		assert.False(t, verifier.Verify("gw_order_1", "pay_2", signature))
	})

	t.Run("should reject a signature under a different secret", func(t *testing.T) {
		other := services.NewPaymentSignatureVerifier("stolen-secret")
		assert.False(t, verifier.Verify("gw_order_1", "pay_1", other.Sign("gw_order_1", "pay_1")))
	})

	t.Run("should reject garbage", func(t *testing.T) {
		assert.False(t, verifier.Verify("gw_order_1", "pay_1", ""))
		assert.False(t, verifier.Verify("gw_order_1", "pay_1", "not-hex"))
	})
}
