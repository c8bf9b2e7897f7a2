package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// prepaidDiscountPercent is the fixed incentive applied when a COD order is
// converted to prepaid through the payment gateway.
const prepaidDiscountPercent = 5

// prepaidCouponCode is the synthetic coupon recorded for an applied
// prepaid-conversion discount, so the total mutation stays auditable.
const prepaidCouponCode = "PREPAID5"

// shortNumberLength is the length of the human-facing order number derived
// from the order id.
const shortNumberLength = 8

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrIllegalTransition is returned when a merchant-requested status
	// change would move an order backward out of a terminal state.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrExactlyOneParty is returned when an order does not have exactly one
	// of a registered customer reference or guest info.
	ErrExactlyOneParty = errors.New("exactly one of customer ID or guest info must be set")

	// ErrNoItems is returned when an order is created without line items.
	ErrNoItems = errors.New("order must contain at least one item")

	// ErrTrackingUpdateIsEmpty is returned when a tracking update carries no
	// tracking number, courier name, or URL at all.
	ErrTrackingUpdateIsEmpty = errors.New("tracking update must carry at least one field")
)

// Order is the aggregate root for a fulfillment order and the single
// source of truth its three asynchronous writers reconcile against: the
// payment verifier, merchant status edits, and courier tracking polls.
//
// Order maintains these invariants:
//   - status is always a member of the closed Status enum
//   - exactly one of customerID / guest is set
//   - isPaid is monotonic: once true it is never reset by this aggregate
//   - courierEvents is append-only
//   - total is fixed at creation; the prepaid-conversion discount is an
//     explicit, audited mutation recorded as a coupon snapshot
//
// All fields are private; state changes go through validated methods.
type Order struct {
	id kernel.UUID

	items       []Item
	subtotal    int64
	shippingFee int64
	total       int64
	coupon      *Coupon

	paymentMethod    PaymentMethod
	paymentStatus    PaymentStatus
	isPaid           bool
	gatewayPaymentID string
	gatewayOrderID   string

	status        Status
	trackingID    string
	trackingURL   string
	courierName   string
	courierEvents []CourierEvent

	customerID *kernel.UUID
	guest      *GuestInfo

	createdAt time.Time
	updatedAt time.Time
	closedAt  *time.Time

	isConstructed bool
}

// NewOrder creates a new Order in OrderPlaced status with payment pending.
// This is the checkout entry point: COD orders are materialized here
// directly, CARD orders are materialized here by the payment verifier and
// then marked paid.
//
// Validation enforced:
//   - id must be a constructed UUID
//   - at least one item, each created via NewItem
//   - shippingFee must be non-negative
//   - paymentMethod must be a member of the closed enum
//   - exactly one of customerID / guest must be provided
//
// Subtotal and total are computed once from the item price snapshots and
// the shipping fee; later status changes never recompute them.
func NewOrder(
	id kernel.UUID,
	items []Item,
	shippingFee int64,
	paymentMethod PaymentMethod,
	customerID *kernel.UUID,
	guest *GuestInfo,
) (*Order, error) {
	now := time.Now().UTC()
	o := &Order{
		status:        OrderPlaced,
		paymentStatus: PaymentPending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setItems(items),
		o.setShippingFee(shippingFee),
		o.setPaymentMethod(paymentMethod),
		o.setParty(customerID, guest),
	); err != nil {
		return nil, err
	}

	o.subtotal = 0
	for _, item := range o.items {
		o.subtotal += item.LineTotal()
	}
	o.total = o.subtotal + o.shippingFee

	return o, nil
}

// RestoreOrderParams carries the full persisted state of an order for
// reconstruction from storage.
type RestoreOrderParams struct {
	ID               kernel.UUID
	Items            []Item
	Subtotal         int64
	ShippingFee      int64
	Total            int64
	Coupon           *Coupon
	PaymentMethod    PaymentMethod
	PaymentStatus    PaymentStatus
	IsPaid           bool
	GatewayPaymentID string
	GatewayOrderID   string
	Status           Status
	TrackingID       string
	TrackingURL      string
	CourierName      string
	CourierEvents    []CourierEvent
	CustomerID       *kernel.UUID
	Guest            *GuestInfo
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ClosedAt         *time.Time
}

// RestoreOrder reconstructs an Order from persistence. Identity, status,
// payment enums, and the party invariant are re-validated; monetary values
// are trusted as stored since they are snapshots by design.
func RestoreOrder(p RestoreOrderParams) (*Order, error) {
	o := &Order{
		subtotal:         p.Subtotal,
		shippingFee:      p.ShippingFee,
		total:            p.Total,
		coupon:           p.Coupon,
		paymentStatus:    p.PaymentStatus,
		isPaid:           p.IsPaid,
		gatewayPaymentID: p.GatewayPaymentID,
		gatewayOrderID:   p.GatewayOrderID,
		trackingID:       p.TrackingID,
		trackingURL:      p.TrackingURL,
		courierName:      p.CourierName,
		courierEvents:    p.CourierEvents,
		createdAt:        p.CreatedAt,
		updatedAt:        p.UpdatedAt,
		closedAt:         p.ClosedAt,
		isConstructed:    true,
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setItems(p.Items),
		o.setPaymentMethod(p.PaymentMethod),
		o.setParty(p.CustomerID, p.Guest),
		p.Status.Validate(),
		p.PaymentStatus.Validate(),
	); err != nil {
		return nil, err
	}

	o.status = p.Status
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// ShortNumber returns the short human-facing order number: a fixed-length
// uppercase prefix of the order id. It is unique enough for display, not a
// guaranteed globally unique key.
func (o *Order) ShortNumber() string {
	compact := strings.ReplaceAll(o.id.String(), "-", "")
	return strings.ToUpper(compact[:shortNumberLength])
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// Subtotal returns the sum of line totals in minor units.
func (o *Order) Subtotal() int64 {
	return o.subtotal
}

// ShippingFee returns the shipping fee in minor units.
func (o *Order) ShippingFee() int64 {
	return o.shippingFee
}

// Total returns the order total in minor units. Fixed at creation except
// for the explicit prepaid-conversion discount.
func (o *Order) Total() int64 {
	return o.total
}

// Coupon returns the applied discount snapshot, or nil.
func (o *Order) Coupon() *Coupon {
	return o.coupon
}

// PaymentMethod returns the order's payment method.
func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

// PaymentStatus returns the payment settlement state.
func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// IsPaid reports whether a payment has settled for this order.
func (o *Order) IsPaid() bool {
	return o.isPaid
}

// GatewayPaymentID returns the gateway's payment identifier, present only
// for card payments. It is the idempotency key for duplicate payment events.
func (o *Order) GatewayPaymentID() string {
	return o.gatewayPaymentID
}

// GatewayOrderID returns the gateway's order identifier, present only for
// card payments.
func (o *Order) GatewayOrderID() string {
	return o.gatewayOrderID
}

// Status returns the current fulfillment status.
func (o *Order) Status() Status {
	return o.status
}

// TrackingID returns the courier-issued tracking number (AWB), possibly empty.
func (o *Order) TrackingID() string {
	return o.trackingID
}

// TrackingURL returns the courier tracking page URL, possibly empty.
func (o *Order) TrackingURL() string {
	return o.trackingURL
}

// CourierName returns the courier vendor name, possibly empty.
func (o *Order) CourierName() string {
	return o.courierName
}

// CourierEvents returns a copy of the append-only courier history.
func (o *Order) CourierEvents() []CourierEvent {
	events := make([]CourierEvent, len(o.courierEvents))
	copy(events, o.courierEvents)
	return events
}

// CustomerID returns the registered customer reference, or nil for guests.
func (o *Order) CustomerID() *kernel.UUID {
	return o.customerID
}

// Guest returns the guest snapshot, or nil for registered customers.
func (o *Order) Guest() *GuestInfo {
	return o.guest
}

// CreatedAt returns when the order was materialized.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns when the order last changed.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// ClosedAt returns when the order reached a terminal status, or nil.
func (o *Order) ClosedAt() *time.Time {
	return o.closedAt
}

// IsTrackable reports whether the order should be polled against the
// courier API: it has a tracking number and has not reached a terminal
// status.
func (o *Order) IsTrackable() bool {
	return o.trackingID != "" && !o.status.IsTerminal()
}

// TransitionTo applies a requested status change on behalf of an actor.
//
// Merchant transitions are permissive manual overrides: any move between
// non-terminal states is committed, and only backward moves out of a
// terminal state are rejected with ErrIllegalTransition (the single
// exception being Delivered -> ReturnRequested). Callers are expected to
// audit-log every merchant transition.
//
// System transitions come from courier reconciliation and are held to the
// monotonicity guard: a candidate whose canonical pipeline index is not
// strictly greater than the current one is discarded as a no-op, not an
// error, which makes duplicate and out-of-order courier snapshots safe.
//
// Returns whether the status actually changed.
func (o *Order) TransitionTo(to Status, actor Actor) (bool, error) {
	if err := actor.Validate(); err != nil {
		return false, err
	}
	if err := to.Validate(); err != nil {
		return false, err
	}

	if to == o.status {
		return false, nil
	}

	switch actor {
	case ActorSystem:
		if !o.status.AcceptsSystemCandidate(to) {
			return false, nil
		}
	case ActorMerchant:
		if err := o.status.ValidateMerchantTransition(to); err != nil {
			return false, fmt.Errorf("%w: %w", ErrIllegalTransition, err)
		}
	}

	o.setStatus(to)
	return true, nil
}

// AssignTracking records courier tracking details on the order. Empty
// fields leave the existing value untouched; an update with no fields at
// all is rejected.
//
// Assigning a tracking number while the order is still in OrderPlaced or
// Processing is evidence the shipment has left processing, so the status
// is auto-promoted to Shipped as part of the same change. Returns whether
// that promotion happened.
func (o *Order) AssignTracking(trackingID, courierName, trackingURL string) (bool, error) {
	if trackingID == "" && courierName == "" && trackingURL == "" {
		return false, ErrTrackingUpdateIsEmpty
	}

	if trackingID != "" {
		o.trackingID = trackingID
	}
	if courierName != "" {
		o.courierName = courierName
	}
	if trackingURL != "" {
		o.trackingURL = trackingURL
	}

	promoted := false
	if o.status == OrderPlaced || o.status == Processing {
		o.setStatus(Shipped)
		promoted = true
	} else {
		o.touch()
	}

	return promoted, nil
}

// SyncCourierEvents appends courier history entries that are not yet part
// of the order. Existing entries are never modified or removed, so feeding
// the same snapshot repeatedly is idempotent. Returns how many entries
// were appended.
func (o *Order) SyncCourierEvents(events []CourierEvent) (int, error) {
	appended := 0
	for _, event := range events {
		if err := event.Validate(); err != nil {
			return appended, err
		}

		known := false
		for _, existing := range o.courierEvents {
			if existing.IsSame(event) {
				known = true
				break
			}
		}
		if known {
			continue
		}

		o.courierEvents = append(o.courierEvents, event)
		appended++
	}

	if appended > 0 {
		o.touch()
	}
	return appended, nil
}

// MarkPaid records a settled gateway payment on the order. Payment is
// monotonic: marking an already-paid order again is a no-op, never an
// error, so duplicate gateway callbacks stay harmless.
func (o *Order) MarkPaid(gatewayPaymentID, gatewayOrderID string) error {
	if gatewayPaymentID == "" {
		return errs.NewValueIsRequiredError("gatewayPaymentId")
	}

	if o.isPaid {
		return nil
	}

	o.isPaid = true
	o.paymentStatus = PaymentPaid
	o.gatewayPaymentID = gatewayPaymentID
	o.gatewayOrderID = gatewayOrderID
	o.touch()
	return nil
}

// ConvertToPrepaid upgrades an unpaid COD order to a paid card order with
// the fixed prepaid discount, recording the discount as a synthetic coupon
// so the total mutation stays auditable.
//
// The payment status is the idempotency guard: converting an already-paid
// order changes nothing and reports applied=false, so a re-delivered
// gateway callback can never discount the total twice.
func (o *Order) ConvertToPrepaid(gatewayPaymentID, gatewayOrderID string) (bool, error) {
	if gatewayPaymentID == "" {
		return false, errs.NewValueIsRequiredError("gatewayPaymentId")
	}

	if o.paymentStatus == PaymentPaid {
		return false, nil
	}

	discount := o.total * prepaidDiscountPercent / 100
	o.total -= discount
	o.coupon = &Coupon{Code: prepaidCouponCode, Discount: discount}
	o.paymentMethod = Card
	o.isPaid = true
	o.paymentStatus = PaymentPaid
	o.gatewayPaymentID = gatewayPaymentID
	o.gatewayOrderID = gatewayOrderID
	o.touch()
	return true, nil
}

// setStatus commits a validated status value, maintaining closedAt for
// terminal states (and clearing it again on Delivered -> ReturnRequested).
func (o *Order) setStatus(to Status) {
	o.status = to
	if to.IsTerminal() {
		now := time.Now().UTC()
		o.closedAt = &now
	} else {
		o.closedAt = nil
	}
	o.touch()
}

func (o *Order) touch() {
	o.updatedAt = time.Now().UTC()
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setShippingFee(fee int64) error {
	if fee < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"shippingFee is invalid", fmt.Errorf("%d is negative", fee))
	}
	o.shippingFee = fee
	return nil
}

func (o *Order) setPaymentMethod(method PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	o.paymentMethod = method
	return nil
}

func (o *Order) setParty(customerID *kernel.UUID, guest *GuestInfo) error {
	if (customerID == nil) == (guest == nil) {
		return ErrExactlyOneParty
	}

	if customerID != nil {
		if err := customerID.Validate(); err != nil {
			return err
		}
		id := *customerID
		o.customerID = &id
		return nil
	}

	if err := guest.Validate(); err != nil {
		return err
	}
	g := *guest
	o.guest = &g
	return nil
}
