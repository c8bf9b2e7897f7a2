// Package services provides domain services that implement business logic
// spanning the Order aggregate and external courier data.
//
// The package includes:
//   - StatusReconciler: A pure domain service mapping a courier's free-text
//     tracking snapshot to a candidate internal status, guarded against
//     status regression.
//   - PaymentSignatureVerifier: HMAC-SHA256 verification of payment gateway
//     callback signatures against the server-held secret.
//
// Domain services here are pure: they perform no I/O and leave persistence
// to the application layer, following Domain-Driven Design principles.
package services
