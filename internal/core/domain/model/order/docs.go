// Package order provides domain entities and business logic for order
// fulfillment. It implements the Order aggregate root with lifecycle
// management and the fulfillment status state machine.
//
// The package includes:
//   - Order: The aggregate root that manages identity, payment state, tracking data, and lifecycle
//   - Status: The closed fulfillment status enum with its canonical pipeline ordering
//   - Actor: The originator of a status transition (merchant or system)
//   - Item, GuestInfo, Coupon, CourierEvent: value objects owned by the aggregate
//
// Key business rules:
//   - Status is always a member of the closed enum; free-text statuses are never persisted
//   - Exactly one of a registered customer reference or guest info is set
//   - isPaid is monotonic: once an order is paid it is never reset to unpaid
//   - Courier events are append-only; reconciliation never deletes history
//   - System-initiated transitions only move forward along the canonical pipeline
//   - Merchant-initiated transitions are permissive, except backward moves out of a terminal state
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
