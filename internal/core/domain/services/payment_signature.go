package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// PaymentSignatureVerifier authenticates payment gateway callbacks.
//
// The gateway signs every callback with an HMAC-SHA256 over the gateway
// order id and payment id joined by a pipe, keyed with the shared merchant
// secret. Verification is the only authentication the callback endpoint
// has, so a mismatch must reject the request before any state is touched.
type PaymentSignatureVerifier struct {
	secret []byte
}

// NewPaymentSignatureVerifier creates a verifier bound to the shared
// merchant secret.
func NewPaymentSignatureVerifier(secret string) PaymentSignatureVerifier {
	return PaymentSignatureVerifier{secret: []byte(secret)}
}

// Verify reports whether the provided hex signature matches the expected
// HMAC for the given gateway order id and payment id. Comparison is
// constant time; the signature's hex case is ignored.
func (v PaymentSignatureVerifier) Verify(gatewayOrderID, gatewayPaymentID, signature string) bool {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// Sign computes the hex signature for the given gateway order id and
// payment id. Exposed for tests and outbound gateway calls.
func (v PaymentSignatureVerifier) Sign(gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
