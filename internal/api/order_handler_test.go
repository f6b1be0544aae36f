package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvik/sagapay/internal/api"
	"github.com/nordvik/sagapay/internal/api/middleware"
	"github.com/nordvik/sagapay/internal/config"
	"github.com/nordvik/sagapay/internal/domain"
	"github.com/nordvik/sagapay/internal/events"
	"github.com/nordvik/sagapay/internal/mocks"
	"github.com/nordvik/sagapay/internal/platform/logger"
	"github.com/nordvik/sagapay/internal/service"
	"github.com/nordvik/sagapay/internal/service/auth"
	"github.com/nordvik/sagapay/internal/service/ordersaga"
)

type orderFixture struct {
	router    chi.Router
	orders    *mocks.OrderStore
	payments  *mocks.PaymentStore
	publisher *mocks.Publisher
	jwt       auth.JWTService
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	orders := mocks.NewOrderStore()
	payments := mocks.NewPaymentStore()
	publisher := mocks.NewPublisher()

	log, err := logger.Setup("error")
	require.NoError(t, err)

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "0123456789abcdef0123456789abcdef",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	svc := service.NewOrderService(orders, payments, ordersaga.NewProducer(publisher, log), log)
	handler := api.NewOrderHandler(svc)

	router := chi.NewRouter()
	router.Use(middleware.TraceMiddleware)
	router.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(jwtService).Authenticate)
		r.Post("/orders", handler.Create)
		r.Get("/orders", handler.List)
		r.Get("/orders/{id}", handler.Get)
		r.Patch("/orders/{id}/status", handler.UpdateStatus)
		r.Get("/payments/order/{orderID}", handler.GetPayment)
	})

	return &orderFixture{
		router:    router,
		orders:    orders,
		payments:  payments,
		publisher: publisher,
		jwt:       jwtService,
	}
}

func (f *orderFixture) token(t *testing.T, userID int64) string {
	t.Helper()
	token, err := f.jwt.GenerateToken(context.Background(), userID, "ada@example.com", []string{"user"})
	require.NoError(t, err)
	return token
}

func (f *orderFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func createOrderBody() api.CreateOrderRequest {
	return api.CreateOrderRequest{
		Items: []api.OrderItemRequest{
			{SKU: "SKU-1", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		},
	}
}

func TestCreateOrderEndpoint(t *testing.T) {
	fixture := newOrderFixture(t)
	token := fixture.token(t, 7)

	rec := fixture.do(t, http.MethodPost, "/orders", token, createOrderBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp api.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotZero(t, resp.ID)
	assert.Equal(t, int64(7), resp.UserID)
	assert.Equal(t, "PENDING", resp.Status)
	assert.True(t, decimal.RequireFromString("20.00").Equal(resp.Total))

	assert.Len(t, fixture.publisher.MessagesFor(events.TopicOrderCreated), 1)
}

func TestCreateOrderRequiresAuth(t *testing.T) {
	fixture := newOrderFixture(t)

	rec := fixture.do(t, http.MethodPost, "/orders", "", createOrderBody())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = fixture.do(t, http.MethodPost, "/orders", "not.a.token", createOrderBody())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateOrderEmptyItems(t *testing.T) {
	fixture := newOrderFixture(t)

	rec := fixture.do(t, http.MethodPost, "/orders", fixture.token(t, 7), api.CreateOrderRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrderEndpoint(t *testing.T) {
	fixture := newOrderFixture(t)
	fixture.orders.Seed(&domain.Order{ID: 5, UserID: 7, Status: domain.OrderStatusPending, Total: decimal.RequireFromString("20.00")})

	rec := fixture.do(t, http.MethodGet, "/orders/5", fixture.token(t, 7), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(5), resp.ID)
}

func TestGetOrderHidesForeignOrders(t *testing.T) {
	fixture := newOrderFixture(t)
	fixture.orders.Seed(&domain.Order{ID: 5, UserID: 7, Status: domain.OrderStatusPending})

	// Another user's token sees 404, not 403, so order IDs cannot be probed.
	rec := fixture.do(t, http.MethodGet, "/orders/5", fixture.token(t, 8), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetOrderNotFoundEndpoint(t *testing.T) {
	fixture := newOrderFixture(t)

	rec := fixture.do(t, http.MethodGet, "/orders/404", fixture.token(t, 7), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOrdersEndpoint(t *testing.T) {
	fixture := newOrderFixture(t)
	fixture.orders.Seed(&domain.Order{ID: 1, UserID: 7, Status: domain.OrderStatusPending})
	fixture.orders.Seed(&domain.Order{ID: 2, UserID: 7, Status: domain.OrderStatusConfirmed})
	fixture.orders.Seed(&domain.Order{ID: 3, UserID: 8, Status: domain.OrderStatusPending})

	rec := fixture.do(t, http.MethodGet, "/orders", fixture.token(t, 7), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []api.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestUpdateOrderStatusEndpoint(t *testing.T) {
	fixture := newOrderFixture(t)
	fixture.orders.Seed(&domain.Order{ID: 5, UserID: 7, Status: domain.OrderStatusConfirmed})

	rec := fixture.do(t, http.MethodPatch, "/orders/5/status", fixture.token(t, 7),
		api.UpdateOrderStatusRequest{Status: "PROCESSING"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	order, err := fixture.orders.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, order.Status)
}

func TestUpdateOrderStatusConflictEndpoint(t *testing.T) {
	fixture := newOrderFixture(t)
	fixture.orders.Seed(&domain.Order{ID: 5, UserID: 7, Status: domain.OrderStatusConfirmed})

	// Nothing ever returns to PENDING.
	rec := fixture.do(t, http.MethodPatch, "/orders/5/status", fixture.token(t, 7),
		api.UpdateOrderStatusRequest{Status: "PENDING"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = fixture.do(t, http.MethodPatch, "/orders/5/status", fixture.token(t, 7),
		api.UpdateOrderStatusRequest{Status: "PAYMENT_FAILED"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateOrderStatusUnknownValue(t *testing.T) {
	fixture := newOrderFixture(t)
	fixture.orders.Seed(&domain.Order{ID: 5, UserID: 7, Status: domain.OrderStatusConfirmed})

	rec := fixture.do(t, http.MethodPatch, "/orders/5/status", fixture.token(t, 7),
		api.UpdateOrderStatusRequest{Status: "TELEPORTED"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPaymentEndpoint(t *testing.T) {
	fixture := newOrderFixture(t)

	payment, err := domain.NewPayment(5, 7, domain.PaymentStatusSuccess, decimal.RequireFromString("20.00"))
	require.NoError(t, err)
	require.NoError(t, fixture.payments.Create(context.Background(), payment))

	rec := fixture.do(t, http.MethodGet, "/payments/order/5", fixture.token(t, 7), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.PaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, payment.ID, resp.ID)
	assert.Equal(t, "SUCCESS", resp.Status)

	// Other users cannot see the payment.
	rec = fixture.do(t, http.MethodGet, "/payments/order/5", fixture.token(t, 8), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
