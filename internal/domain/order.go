package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

const (
	PaymentMethodCard           = "card"
	PaymentMethodCashOnDelivery = "cod"
)

var statusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusConfirmed:  1,
	OrderStatusProcessing: 2,
	OrderStatusShipped:    3,
	OrderStatusDelivered:  4,
}

// CanTransition reports whether an order may move from one status to another.
// Progress moves are forward-only along pending → confirmed → processing →
// shipped → delivered; delivered is terminal; cancelled is reachable from any
// non-terminal state and is itself terminal.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return false
	}
	if from == OrderStatusDelivered || from == OrderStatusCancelled {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

func IsValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type ShippingAddress struct {
	Name        string
	Phone       string
	AddressLine string
	City        string
	Region      string
	PostalCode  string
}

// OrderItem is the immutable snapshot captured at order time. Title, image
// and unit price must never be re-derived from the live catalog: historical
// orders stay stable when catalog prices change.
type OrderItem struct {
	ID        int64
	OrderID   int64
	Ref       ItemRef
	Title     string
	Image     string
	UnitPrice float64
	Quantity  int
}

func (i OrderItem) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

type Order struct {
	ID              int64
	OrderNumber     string
	UserID          *string
	Items           []OrderItem
	ShippingAddress ShippingAddress
	Subtotal        float64
	ShippingFee     float64
	Tax             float64
	Total           float64
	Status          OrderStatus
	PaymentStatus   PaymentStatus
	PaymentMethod   string
	Notes           *string
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (o Order) IsGuest() bool {
	return o.UserID == nil
}
