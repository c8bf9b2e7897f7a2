package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	fulfillmenthttp "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests cover request parsing and validation mapping, which reject
// bad input before any use case runs. Handler orchestration is covered by
// the command handler tests.

func newTestServer() (*echo.Echo, *fulfillmenthttp.Server) {
	e := echo.New()
	// Zero-value handlers: every request below is rejected during parsing
	// or command construction, before any handler runs.
	server := fulfillmenthttp.NewServer(
		commands.CheckoutCommandHandler{},
		commands.VerifyPaymentCommandHandler{},
		commands.ChangeStatusCommandHandler{},
		queries.GetOrderQueryHandler{},
	)
	server.RegisterRoutes(e)
	return e, server
}

func TestCreateOrder_InvalidPaymentMethod(t *testing.T) {
	e, _ := newTestServer()

	body := `{"items":[{"productId":"SKU-1","name":"Desk organizer","quantity":1,"unitPrice":90000}],` +
		`"shippingFee":6000,"paymentMethod":"CRYPTO",` +
		`"guestInfo":{"name":"Riya Sen","address":"14 Lake Road, Kolkata"}}`

	rec := doRequest(e, http.MethodPost, "/api/v1/orders", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp fulfillmenthttp.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "Invalid payment method")
}

func TestCreateOrder_MalformedBody(t *testing.T) {
	e, _ := newTestServer()

	rec := doRequest(e, http.MethodPost, "/api/v1/orders", `{"items": not-json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrder_InvalidItem(t *testing.T) {
	e, _ := newTestServer()

	body := `{"items":[{"productId":"","name":"Desk organizer","quantity":1,"unitPrice":90000}],` +
		`"shippingFee":6000,"paymentMethod":"COD",` +
		`"guestInfo":{"name":"Riya Sen","address":"14 Lake Road, Kolkata"}}`

	rec := doRequest(e, http.MethodPost, "/api/v1/orders", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangeOrderStatus_InvalidOrderID(t *testing.T) {
	e, _ := newTestServer()

	rec := doRequest(e, http.MethodPatch, "/api/v1/orders/not-a-uuid/status", `{"status":"SHIPPED"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp fulfillmenthttp.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid order id", resp.Message)
}

func TestChangeOrderStatus_UnknownStatus(t *testing.T) {
	e, _ := newTestServer()

	rec := doRequest(e, http.MethodPatch,
		"/api/v1/orders/4b4fd0a4-229f-41d8-a8f1-7f3f3f3f3f3f/status", `{"status":"TELEPORTED"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp fulfillmenthttp.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "Invalid status")
}

func TestChangeOrderStatus_NothingToChange(t *testing.T) {
	e, _ := newTestServer()

	rec := doRequest(e, http.MethodPatch,
		"/api/v1/orders/4b4fd0a4-229f-41d8-a8f1-7f3f3f3f3f3f/status", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrder_InvalidOrderID(t *testing.T) {
	e, _ := newTestServer()

	rec := doRequest(e, http.MethodGet, "/api/v1/orders/garbage", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyPayment_InvalidExistingOrderID(t *testing.T) {
	e, _ := newTestServer()

	body := `{"paymentId":"pay_1","gatewayOrderId":"gw_1","signature":"abc",` +
		`"payload":{"existingOrderId":"nope"}}`

	rec := doRequest(e, http.MethodPost, "/api/v1/payments/verify", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp fulfillmenthttp.VerifyPaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid existing order id", resp.Message)
}

func TestVerifyPayment_MissingSignature(t *testing.T) {
	e, _ := newTestServer()

	body := `{"paymentId":"pay_1","gatewayOrderId":"gw_1","signature":"","payload":{}}`

	rec := doRequest(e, http.MethodPost, "/api/v1/payments/verify", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp fulfillmenthttp.VerifyPaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
