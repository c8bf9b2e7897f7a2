package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves the full view of a single order, the shape the
// storefront renders on the order detail page.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//
//	view, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get order: %w", err)
//	}
//
//	fmt.Printf("Order %s is %s\n", view.ShortNumber, view.Status)
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for a single order view.
// Returns a validation error when the order id is empty.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the identifier of the requested order.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// GetOrderItemResponse is one order line in the order view.
type GetOrderItemResponse struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

// GetOrderCouponResponse is the applied discount snapshot in the order view.
type GetOrderCouponResponse struct {
	Code     string `json:"code"`
	Discount int64  `json:"discount"`
}

// GetOrderGuestResponse is the guest checkout snapshot in the order view.
type GetOrderGuestResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address"`
}

// GetOrderCourierEventResponse is one courier history entry in the order view.
type GetOrderCourierEventResponse struct {
	StatusText string    `json:"statusText"`
	Location   string    `json:"location,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	Remarks    string    `json:"remarks,omitempty"`
}

// GetOrderQueryResponse is the read model for the order detail page.
// It is assembled straight from the database row without going through
// the domain aggregate.
type GetOrderQueryResponse struct {
	ID          kernel.UUID `json:"id"`
	ShortNumber string      `json:"shortNumber"`
	Status      string      `json:"status"`

	Items       []GetOrderItemResponse  `json:"items"`
	Subtotal    int64                   `json:"subtotal"`
	ShippingFee int64                   `json:"shippingFee"`
	Total       int64                   `json:"total"`
	Coupon      *GetOrderCouponResponse `json:"coupon,omitempty"`

	PaymentMethod string `json:"paymentMethod"`
	PaymentStatus string `json:"paymentStatus"`
	IsPaid        bool   `json:"isPaid"`

	TrackingID    string                         `json:"trackingId,omitempty"`
	TrackingURL   string                         `json:"trackingUrl,omitempty"`
	CourierName   string                         `json:"courierName,omitempty"`
	CourierEvents []GetOrderCourierEventResponse `json:"courierEvents"`

	CustomerID *kernel.UUID           `json:"customerId,omitempty"`
	Guest      *GetOrderGuestResponse `json:"guest,omitempty"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	ClosedAt  *time.Time `json:"closedAt,omitempty"`
}
