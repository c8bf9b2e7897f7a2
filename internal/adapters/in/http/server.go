// Package http exposes the fulfillment API over REST using echo.
package http

import (
	"errors"
	"net/http"
	"strings"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server implements the HTTP handlers for the fulfillment API.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	checkoutHandler      commands.CheckoutCommandHandler
	verifyPaymentHandler commands.VerifyPaymentCommandHandler
	changeStatusHandler  commands.ChangeStatusCommandHandler

	// Query handlers
	getOrderHandler queries.GetOrderQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	checkoutHandler commands.CheckoutCommandHandler,
	verifyPaymentHandler commands.VerifyPaymentCommandHandler,
	changeStatusHandler commands.ChangeStatusCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
) *Server {
	return &Server{
		checkoutHandler:      checkoutHandler,
		verifyPaymentHandler: verifyPaymentHandler,
		changeStatusHandler:  changeStatusHandler,
		getOrderHandler:      getOrderHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.PATCH("/orders/:id/status", s.ChangeOrderStatus)
	api.POST("/payments/verify", s.VerifyPayment)
}

// ErrorResponse is the error body shared by all endpoints.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ItemRequest is one order line in a checkout or payment payload.
type ItemRequest struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

// GuestInfoRequest is the guest checkout contact block.
type GuestInfoRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CreateOrderRequest is the checkout request body.
type CreateOrderRequest struct {
	Items         []ItemRequest     `json:"items"`
	ShippingFee   int64             `json:"shippingFee"`
	PaymentMethod string            `json:"paymentMethod"`
	CustomerID    string            `json:"customerId,omitempty"`
	GuestInfo     *GuestInfoRequest `json:"guestInfo,omitempty"`
}

// CreateOrderResponse confirms a placed order.
type CreateOrderResponse struct {
	OrderID     string `json:"orderId"`
	ShortNumber string `json:"shortNumber"`
	Status      string `json:"status"`
}

// CreateOrder handles POST /api/v1/orders - places a new order.
// COD orders are placed directly; CARD orders normally arrive through the
// payment verification callback instead.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	items, err := toDomainItems(req.Items)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	paymentMethod, err := order.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return badRequest(ctx, "Invalid payment method: "+req.PaymentMethod)
	}

	customerID, guest, err := toParty(req.CustomerID, req.GuestInfo)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCheckoutCommand(orderID, items, req.ShippingFee, paymentMethod, customerID, guest)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if err := s.checkoutHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapCommandError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{
		OrderID:     orderID.String(),
		ShortNumber: shortNumber(orderID),
		Status:      order.OrderPlaced.String(),
	})
}

// VerifyPaymentRequest is the payment gateway callback body.
type VerifyPaymentRequest struct {
	PaymentID      string               `json:"paymentId"`
	GatewayOrderID string               `json:"gatewayOrderId"`
	Signature      string               `json:"signature"`
	Payload        VerifyPaymentPayload `json:"payload"`
}

// VerifyPaymentPayload carries either a reference to an existing order or
// the cart needed to materialize a fresh one.
type VerifyPaymentPayload struct {
	ExistingOrderID string            `json:"existingOrderId,omitempty"`
	Items           []ItemRequest     `json:"items,omitempty"`
	ShippingFee     int64             `json:"shippingFee,omitempty"`
	CustomerID      string            `json:"customerId,omitempty"`
	GuestInfo       *GuestInfoRequest `json:"guestInfo,omitempty"`
}

// VerifyPaymentResponse is the callback acknowledgement for the gateway.
type VerifyPaymentResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId,omitempty"`
	Message string `json:"message"`
}

// VerifyPayment handles POST /api/v1/payments/verify - the payment gateway callback.
func (s *Server) VerifyPayment(ctx echo.Context) error {
	var req VerifyPaymentRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, VerifyPaymentResponse{
			Success: false,
			Message: "Invalid request body",
		})
	}

	orderID := kernel.NewUUID()
	if req.Payload.ExistingOrderID != "" {
		parsed, err := kernel.UUIDFromString(req.Payload.ExistingOrderID)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, VerifyPaymentResponse{
				Success: false,
				Message: "Invalid existing order id",
			})
		}
		orderID = parsed
	}

	items, err := toDomainItems(req.Payload.Items)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, VerifyPaymentResponse{
			Success: false,
			Message: "Invalid payment payload: " + err.Error(),
		})
	}

	customerID, guest, err := toParty(req.Payload.CustomerID, req.Payload.GuestInfo)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, VerifyPaymentResponse{
			Success: false,
			Message: "Invalid payment payload: " + err.Error(),
		})
	}

	cmd, err := commands.NewVerifyPaymentCommand(
		orderID,
		req.GatewayOrderID,
		req.PaymentID,
		req.Signature,
		items,
		req.Payload.ShippingFee,
		customerID,
		guest,
	)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, VerifyPaymentResponse{
			Success: false,
			Message: "Invalid payment callback: " + err.Error(),
		})
	}

	result, err := s.verifyPaymentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrSignatureMismatch):
			return ctx.JSON(http.StatusBadRequest, VerifyPaymentResponse{
				Success: false,
				Message: "Signature verification failed",
			})
		case errors.Is(err, errs.ErrObjectNotFound):
			return ctx.JSON(http.StatusNotFound, VerifyPaymentResponse{
				Success: false,
				Message: "Order not found",
			})
		case errors.Is(err, errs.ErrValueIsRequired), errors.Is(err, errs.ErrValueIsInvalid):
			return ctx.JSON(http.StatusBadRequest, VerifyPaymentResponse{
				Success: false,
				Message: "Invalid payment callback: " + err.Error(),
			})
		default:
			return ctx.JSON(http.StatusInternalServerError, VerifyPaymentResponse{
				Success: false,
				Message: "Payment verification failed",
			})
		}
	}

	message := "Payment verified"
	if result.AlreadyProcessed {
		message = "Payment already processed"
	}

	return ctx.JSON(http.StatusOK, VerifyPaymentResponse{
		Success: true,
		OrderID: result.OrderID.String(),
		Message: message,
	})
}

// ChangeOrderStatusRequest is the merchant status edit body. All fields are
// optional, but the request must carry either a status or a tracking update.
type ChangeOrderStatusRequest struct {
	Status      string `json:"status,omitempty"`
	TrackingID  string `json:"trackingId,omitempty"`
	TrackingURL string `json:"trackingUrl,omitempty"`
	CourierName string `json:"courierName,omitempty"`
}

// ChangeOrderStatusResponse reports the applied transition.
type ChangeOrderStatusResponse struct {
	OrderID string `json:"orderId"`
	From    string `json:"from"`
	To      string `json:"to"`
	Changed bool   `json:"changed"`
}

// ChangeOrderStatus handles PATCH /api/v1/orders/:id/status - merchant status edits.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req ChangeOrderStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target := order.Unknown
	if req.Status != "" {
		target, err = order.ParseStatus(req.Status)
		if err != nil {
			return badRequest(ctx, "Invalid status: "+req.Status)
		}
	}

	cmd, err := commands.NewChangeStatusCommand(
		orderID,
		target,
		order.ActorMerchant,
		req.TrackingID,
		req.CourierName,
		req.TrackingURL,
	)
	if err != nil {
		return badRequest(ctx, "Invalid status change: "+err.Error())
	}

	result, err := s.changeStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapCommandError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ChangeOrderStatusResponse{
		OrderID: orderID.String(),
		From:    result.From.String(),
		To:      result.To.String(),
		Changed: result.Changed,
	})
}

// GetOrder handles GET /api/v1/orders/:id - the order detail view.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	view, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapCommandError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, view)
}

// toDomainItems converts request items into domain order lines.
func toDomainItems(reqItems []ItemRequest) ([]order.Item, error) {
	items := make([]order.Item, 0, len(reqItems))
	for _, raw := range reqItems {
		item, err := order.NewItem(raw.ProductID, raw.Name, raw.Quantity, raw.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// toParty resolves the orderer: a registered customer reference or a guest
// snapshot. Validation of the exactly-one rule stays with the command.
func toParty(customerID string, guestInfo *GuestInfoRequest) (*kernel.UUID, *order.GuestInfo, error) {
	var customer *kernel.UUID
	if customerID != "" {
		parsed, err := kernel.UUIDFromString(customerID)
		if err != nil {
			return nil, nil, err
		}
		customer = &parsed
	}

	var guest *order.GuestInfo
	if guestInfo != nil {
		parsed, err := order.NewGuestInfo(guestInfo.Name, guestInfo.Email, guestInfo.Phone, guestInfo.Address)
		if err != nil {
			return nil, nil, err
		}
		guest = &parsed
	}

	return customer, guest, nil
}

// shortNumber mirrors the aggregate's customer-facing order number.
func shortNumber(id kernel.UUID) string {
	compact := strings.ReplaceAll(id.String(), "-", "")
	return strings.ToUpper(compact[:8])
}

// badRequest writes a 400 with the standard error body.
func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// mapCommandError translates use-case errors into HTTP responses.
func mapCommandError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: "Order not found",
		})
	case errors.Is(err, order.ErrIllegalTransition):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsRequired), errors.Is(err, errs.ErrValueIsInvalid):
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}
