package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nordvik/sagapay/internal/api/middleware"
	"github.com/nordvik/sagapay/internal/domain"
	"github.com/nordvik/sagapay/internal/service"
	"github.com/nordvik/sagapay/internal/store"
)

// OrderHandler serves the JWT-protected order and payment endpoints.
type OrderHandler struct {
	orders *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create handles POST /orders. The response is a synchronous 201 regardless
// of how the payment saga later settles the order.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateOrderRequest

	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := ValidateRequest(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.OrderItem{
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	order, err := h.orders.CreateOrder(r.Context(), claims.UserID, items)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, NewOrderResponse(order))
}

// Get handles GET /orders/{id}. Users only see their own orders.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := pathOrderID(r)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if order.UserID != claims.UserID {
		// Hide the order's existence from other users.
		HandleAPIError(w, r, store.ErrOrderNotFound)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, NewOrderResponse(order))
}

// List handles GET /orders, returning the caller's orders newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), claims.UserID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, NewOrderResponse(order))
	}

	RespondWithJSON(w, r, http.StatusOK, resp)
}

// UpdateStatus handles PATCH /orders/{id}/status, the manual fulfilment
// path. Unlike the saga consumer, conflicts surface here as 409.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := pathOrderID(r)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest

	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := ValidateRequest(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if order.UserID != claims.UserID {
		HandleAPIError(w, r, store.ErrOrderNotFound)
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), id, status); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// GetPayment handles GET /payments/order/{orderID}.
func (h *OrderHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid order ID")
		return
	}

	payment, err := h.orders.GetPaymentForOrder(r.Context(), orderID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if payment.UserID != claims.UserID {
		HandleAPIError(w, r, store.ErrPaymentNotFound)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, NewPaymentResponse(payment))
}

func pathOrderID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
