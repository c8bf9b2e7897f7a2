// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Line items, the applied coupon, the guest snapshot, and the courier event
// history are nested value objects with no identity of their own, so they
// are stored as jsonb documents rather than child tables. The gateway
// payment id carries a partial unique index: it is the idempotency key for
// payment callbacks and NULL for orders that never saw the gateway.
type OrderDTO struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Items       []byte `gorm:"type:jsonb"`
	Subtotal    int64
	ShippingFee int64
	Total       int64
	Coupon      []byte `gorm:"type:jsonb"`

	PaymentMethod    string
	PaymentStatus    string
	IsPaid           bool
	GatewayPaymentID *string `gorm:"uniqueIndex"`
	GatewayOrderID   string

	Status        string `gorm:"index"`
	TrackingID    string `gorm:"index"`
	TrackingURL   string
	CourierName   string
	CourierEvents []byte `gorm:"type:jsonb"`

	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	Guest      []byte     `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
	ClosedAt  *time.Time
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// itemDTO is the jsonb shape of one order line.
type itemDTO struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// couponDTO is the jsonb shape of the applied discount snapshot.
type couponDTO struct {
	Code     string `json:"code"`
	Discount int64  `json:"discount"`
}

// guestDTO is the jsonb shape of the guest checkout snapshot.
type guestDTO struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address"`
}

// courierEventDTO is the jsonb shape of one courier history entry.
type courierEventDTO struct {
	StatusText string    `json:"status_text"`
	Location   string    `json:"location,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Remarks    string    `json:"remarks,omitempty"`
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	items := make([]itemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, itemDTO{
			ProductID: item.ProductID(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
		})
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return OrderDTO{}, err
	}

	events := make([]courierEventDTO, 0, len(aggregate.CourierEvents()))
	for _, event := range aggregate.CourierEvents() {
		events = append(events, courierEventDTO{
			StatusText: event.StatusText(),
			Location:   event.Location(),
			OccurredAt: event.OccurredAt(),
			Remarks:    event.Remarks(),
		})
	}
	eventsJSON, err := json.Marshal(events)
	if err != nil {
		return OrderDTO{}, err
	}

	var couponJSON []byte
	if coupon := aggregate.Coupon(); coupon != nil {
		couponJSON, err = json.Marshal(couponDTO{Code: coupon.Code, Discount: coupon.Discount})
		if err != nil {
			return OrderDTO{}, err
		}
	}

	var guestJSON []byte
	if guest := aggregate.Guest(); guest != nil {
		guestJSON, err = json.Marshal(guestDTO{
			Name:    guest.Name(),
			Email:   guest.Email(),
			Phone:   guest.Phone(),
			Address: guest.Address(),
		})
		if err != nil {
			return OrderDTO{}, err
		}
	}

	var customerID *uuid.UUID
	if id := aggregate.CustomerID(); id != nil {
		raw := id.Bytes()
		customerID = &raw
	}

	var gatewayPaymentID *string
	if id := aggregate.GatewayPaymentID(); id != "" {
		gatewayPaymentID = &id
	}

	return OrderDTO{
		ID:               aggregate.ID().Bytes(),
		Items:            itemsJSON,
		Subtotal:         aggregate.Subtotal(),
		ShippingFee:      aggregate.ShippingFee(),
		Total:            aggregate.Total(),
		Coupon:           couponJSON,
		PaymentMethod:    aggregate.PaymentMethod().String(),
		PaymentStatus:    aggregate.PaymentStatus().String(),
		IsPaid:           aggregate.IsPaid(),
		GatewayPaymentID: gatewayPaymentID,
		GatewayOrderID:   aggregate.GatewayOrderID(),
		Status:           aggregate.Status().String(),
		TrackingID:       aggregate.TrackingID(),
		TrackingURL:      aggregate.TrackingURL(),
		CourierName:      aggregate.CourierName(),
		CourierEvents:    eventsJSON,
		CustomerID:       customerID,
		Guest:            guestJSON,
		CreatedAt:        aggregate.CreatedAt(),
		UpdatedAt:        aggregate.UpdatedAt(),
		ClosedAt:         aggregate.ClosedAt(),
	}, nil
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including nested value objects using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var itemDTOs []itemDTO
	if len(dto.Items) > 0 {
		if err = json.Unmarshal(dto.Items, &itemDTOs); err != nil {
			return nil, err
		}
	}
	items := make([]order.Item, 0, len(itemDTOs))
	for _, raw := range itemDTOs {
		item, itemErr := order.NewItem(raw.ProductID, raw.Name, raw.Quantity, raw.UnitPrice)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	var eventDTOs []courierEventDTO
	if len(dto.CourierEvents) > 0 {
		if err = json.Unmarshal(dto.CourierEvents, &eventDTOs); err != nil {
			return nil, err
		}
	}
	events := make([]order.CourierEvent, 0, len(eventDTOs))
	for _, raw := range eventDTOs {
		event, eventErr := order.NewCourierEvent(raw.StatusText, raw.Location, raw.OccurredAt, raw.Remarks)
		if eventErr != nil {
			return nil, eventErr
		}
		events = append(events, event)
	}

	var coupon *order.Coupon
	if len(dto.Coupon) > 0 {
		var raw couponDTO
		if err = json.Unmarshal(dto.Coupon, &raw); err != nil {
			return nil, err
		}
		coupon = &order.Coupon{Code: raw.Code, Discount: raw.Discount}
	}

	var guest *order.GuestInfo
	if len(dto.Guest) > 0 {
		var raw guestDTO
		if err = json.Unmarshal(dto.Guest, &raw); err != nil {
			return nil, err
		}
		g, guestErr := order.NewGuestInfo(raw.Name, raw.Email, raw.Phone, raw.Address)
		if guestErr != nil {
			return nil, guestErr
		}
		guest = &g
	}

	var customerID *kernel.UUID
	if dto.CustomerID != nil {
		cID, customerErr := kernel.UUIDFromBytes((*dto.CustomerID)[:])
		if customerErr != nil {
			return nil, customerErr
		}
		customerID = &cID
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	paymentMethod, err := order.ParsePaymentMethod(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := order.ParsePaymentStatus(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	gatewayPaymentID := ""
	if dto.GatewayPaymentID != nil {
		gatewayPaymentID = *dto.GatewayPaymentID
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:               id,
		Items:            items,
		Subtotal:         dto.Subtotal,
		ShippingFee:      dto.ShippingFee,
		Total:            dto.Total,
		Coupon:           coupon,
		PaymentMethod:    paymentMethod,
		PaymentStatus:    paymentStatus,
		IsPaid:           dto.IsPaid,
		GatewayPaymentID: gatewayPaymentID,
		GatewayOrderID:   dto.GatewayOrderID,
		Status:           status,
		TrackingID:       dto.TrackingID,
		TrackingURL:      dto.TrackingURL,
		CourierName:      dto.CourierName,
		CourierEvents:    events,
		CustomerID:       customerID,
		Guest:            guest,
		CreatedAt:        dto.CreatedAt,
		UpdatedAt:        dto.UpdatedAt,
		ClosedAt:         dto.ClosedAt,
	})
}
