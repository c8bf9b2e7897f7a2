package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler retrieves a single order view from the database.
// Reads the row directly and decodes the jsonb documents into the
// response shape, bypassing the domain aggregate.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order detail queries.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query and returns the order view.
// Returns errs.ObjectNotFoundError when no order exists for the id.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			items,
			subtotal,
			shipping_fee,
			total,
			coupon,
			payment_method,
			payment_status,
			is_paid,
			tracking_id,
			tracking_url,
			courier_name,
			courier_events,
			customer_id,
			guest,
			created_at,
			updated_at,
			closed_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	var (
		id         uuid.UUID
		itemsJSON  []byte
		couponJSON []byte
		eventsJSON []byte
		guestJSON  []byte
		customerID uuid.NullUUID
		closedAt   sql.NullTime
		resp       GetOrderQueryResponse
	)

	err := row.Scan(
		&id,
		&resp.Status,
		&itemsJSON,
		&resp.Subtotal,
		&resp.ShippingFee,
		&resp.Total,
		&couponJSON,
		&resp.PaymentMethod,
		&resp.PaymentStatus,
		&resp.IsPaid,
		&resp.TrackingID,
		&resp.TrackingURL,
		&resp.CourierName,
		&eventsJSON,
		&customerID,
		&guestJSON,
		&resp.CreatedAt,
		&resp.UpdatedAt,
		&closedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return GetOrderQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.ID = orderID
	resp.ShortNumber = shortNumber(orderID)

	resp.Items = make([]GetOrderItemResponse, 0)
	if len(itemsJSON) > 0 {
		var items []storedItem
		if err = json.Unmarshal(itemsJSON, &items); err != nil {
			return GetOrderQueryResponse{}, err
		}
		for _, item := range items {
			resp.Items = append(resp.Items, GetOrderItemResponse{
				ProductID: item.ProductID,
				Name:      item.Name,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}
	}

	resp.CourierEvents = make([]GetOrderCourierEventResponse, 0)
	if len(eventsJSON) > 0 {
		var events []storedCourierEvent
		if err = json.Unmarshal(eventsJSON, &events); err != nil {
			return GetOrderQueryResponse{}, err
		}
		for _, event := range events {
			resp.CourierEvents = append(resp.CourierEvents, GetOrderCourierEventResponse{
				StatusText: event.StatusText,
				Location:   event.Location,
				OccurredAt: event.OccurredAt,
				Remarks:    event.Remarks,
			})
		}
	}

	if len(couponJSON) > 0 {
		var coupon storedCoupon
		if err = json.Unmarshal(couponJSON, &coupon); err != nil {
			return GetOrderQueryResponse{}, err
		}
		resp.Coupon = &GetOrderCouponResponse{Code: coupon.Code, Discount: coupon.Discount}
	}

	if len(guestJSON) > 0 {
		var guest storedGuest
		if err = json.Unmarshal(guestJSON, &guest); err != nil {
			return GetOrderQueryResponse{}, err
		}
		resp.Guest = &GetOrderGuestResponse{
			Name:    guest.Name,
			Email:   guest.Email,
			Phone:   guest.Phone,
			Address: guest.Address,
		}
	}

	if customerID.Valid {
		cID, idErr := kernel.UUIDFromBytes(customerID.UUID[:])
		if idErr != nil {
			return GetOrderQueryResponse{}, idErr
		}
		resp.CustomerID = &cID
	}

	if closedAt.Valid {
		t := closedAt.Time
		resp.ClosedAt = &t
	}

	return resp, nil
}

// shortNumber derives the customer-facing order number: the first eight
// hex characters of the order id, uppercased. Mirrors Order.ShortNumber.
func shortNumber(id kernel.UUID) string {
	compact := strings.ReplaceAll(id.String(), "-", "")
	return strings.ToUpper(compact[:8])
}

// Stored jsonb shapes, as written by the order repository.
type storedItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type storedCoupon struct {
	Code     string `json:"code"`
	Discount int64  `json:"discount"`
}

type storedGuest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type storedCourierEvent struct {
	StatusText string    `json:"status_text"`
	Location   string    `json:"location"`
	OccurredAt time.Time `json:"occurred_at"`
	Remarks    string    `json:"remarks"`
}
