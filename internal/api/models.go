package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nordvik/sagapay/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name      string        `json:"name"      validate:"required"`
	Surname   string        `json:"surname"   validate:"required"`
	Birthdate time.Time     `json:"birthdate" validate:"required"`
	Email     string        `json:"email"     validate:"required,email"`
	Password  string        `json:"password"  validate:"required,min=8,max=72"`
	Cards     []CardRequest `json:"cards,omitempty" validate:"dive"`
}

// CardRequest is an optional payment card captured at registration.
type CardRequest struct {
	Number      string `json:"number"       validate:"required"`
	ExpiryMonth int    `json:"expiry_month" validate:"required,min=1,max=12"`
	ExpiryYear  int    `json:"expiry_year"  validate:"required,min=2000"`
}

// RegisterResponse defines the successful registration response.
type RegisterResponse struct {
	ProfileID   uuid.UUID `json:"profile_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token,omitempty"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Handle   string `json:"handle"   validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for the login endpoint.
type AuthResponse struct {
	UserID      int64  `json:"user_id"`
	AccessToken string `json:"access_token"`
}

// CreateProfileRequest defines the payload for the internal profile endpoint.
type CreateProfileRequest struct {
	Name      string    `json:"name"      validate:"required"`
	Surname   string    `json:"surname"   validate:"required"`
	Birthdate time.Time `json:"birthdate" validate:"required"`
	Email     string    `json:"email"     validate:"required,email"`
}

// CreateCredentialRequest defines the payload for the internal credential
// endpoint.
type CreateCredentialRequest struct {
	Handle string `json:"handle" validate:"required"`
	Secret string `json:"secret" validate:"required,min=8,max=72"`
}

// OrderItemRequest is one line item on an order creation request.
type OrderItemRequest struct {
	SKU       string          `json:"sku"        validate:"required"`
	Quantity  int             `json:"quantity"   validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required"`
}

// CreateOrderRequest defines the payload for the order creation endpoint.
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderStatusRequest defines the payload for the manual status update
// endpoint.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderResponse is the wire shape of an order.
type OrderResponse struct {
	ID        int64               `json:"id"`
	UserID    int64               `json:"user_id"`
	Status    string              `json:"status"`
	Total     decimal.Decimal     `json:"total"`
	CreatedAt time.Time           `json:"created_at"`
	Items     []OrderItemResponse `json:"items"`
}

// OrderItemResponse is one line item on an order response.
type OrderItemResponse struct {
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// PaymentResponse is the wire shape of a payment.
type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   int64           `json:"order_id"`
	UserID    int64           `json:"user_id"`
	Status    string          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewOrderResponse converts a domain order to its wire shape.
func NewOrderResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return OrderResponse{
		ID:        order.ID,
		UserID:    order.UserID,
		Status:    string(order.Status),
		Total:     order.Total,
		CreatedAt: order.CreatedAt,
		Items:     items,
	}
}

// NewPaymentResponse converts a domain payment to its wire shape.
func NewPaymentResponse(payment *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        payment.ID,
		OrderID:   payment.OrderID,
		UserID:    payment.UserID,
		Status:    string(payment.Status),
		Amount:    payment.Amount,
		CreatedAt: payment.CreatedAt,
	}
}
