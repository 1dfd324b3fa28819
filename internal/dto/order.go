package dto

import "time"

type ShippingAddressDTO struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	AddressLine string `json:"addressLine"`
	City        string `json:"city"`
	Region      string `json:"region"`
	PostalCode  string `json:"postalCode"`
}

// CheckoutItemDTO is a direct-checkout line: the caller names the item and
// quantity instead of going through a stored cart. This is the path guests
// and training-program purchases use.
type CheckoutItemDTO struct {
	ItemKind string `json:"itemKind"`
	ItemID   int    `json:"itemId"`
	Quantity int    `json:"quantity"`
}

type CheckoutRequest struct {
	UserID          *string            `json:"userId,omitempty"`
	CustomerEmail   string             `json:"customerEmail"`
	Items           []CheckoutItemDTO  `json:"items,omitempty"`
	ShippingAddress ShippingAddressDTO `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	Notes           *string            `json:"notes,omitempty"`
}

type CheckoutResponse struct {
	OrderID     int64   `json:"orderId"`
	OrderNumber string  `json:"orderNumber"`
	Total       float64 `json:"total"`
	PaymentURL  string  `json:"paymentUrl,omitempty"`
}

type OrderItemDTO struct {
	ItemKind  string  `json:"itemKind"`
	ItemID    int     `json:"itemId"`
	Title     string  `json:"title"`
	Image     string  `json:"image"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

type OrderDTO struct {
	ID              int64              `json:"id"`
	OrderNumber     string             `json:"orderNumber"`
	UserID          *string            `json:"userId,omitempty"`
	Items           []OrderItemDTO     `json:"items"`
	ShippingAddress ShippingAddressDTO `json:"shippingAddress"`
	Subtotal        float64            `json:"subtotal"`
	ShippingFee     float64            `json:"shippingFee"`
	Tax             float64            `json:"tax"`
	Total           float64            `json:"total"`
	Status          string             `json:"status"`
	PaymentStatus   string             `json:"paymentStatus"`
	PaymentMethod   string             `json:"paymentMethod"`
	Notes           *string            `json:"notes,omitempty"`
	DeliveredAt     *time.Time         `json:"deliveredAt,omitempty"`
	CancelledAt     *time.Time         `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// OrderSummaryDTO is the lean shape for per-user listings; items are not
// resolved on this path.
type OrderSummaryDTO struct {
	ID            int64     `json:"id"`
	OrderNumber   string    `json:"orderNumber"`
	Total         float64   `json:"total"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	CreatedAt     time.Time `json:"createdAt"`
}

type OrderListDTO struct {
	Orders  []OrderSummaryDTO `json:"orders"`
	Total   int               `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"perPage"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}
