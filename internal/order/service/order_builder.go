package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"fitstore/internal/config"
	"fitstore/internal/domain"
	"fitstore/internal/errors"
)

type OrderWriter interface {
	Insert(ctx context.Context, order domain.Order) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
}

// LineItem is a priced, resolved selection entering an order. The builder
// copies these into immutable snapshots; it never reads the catalog itself.
type LineItem struct {
	Ref       domain.ItemRef
	Title     string
	Image     string
	UnitPrice float64
	Quantity  int
}

type BuildInput struct {
	UserID          *string
	Items           []LineItem
	ShippingAddress domain.ShippingAddress
	PaymentMethod   string
	Notes           *string
}

type OrderBuilder struct {
	repo        OrderWriter
	pricing     config.PricingConfig
	maxAttempts int
	logger      *zap.Logger
}

func NewOrderBuilder(repo OrderWriter, pricing config.PricingConfig, maxAttempts int, logger *zap.Logger) *OrderBuilder {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &OrderBuilder{
		repo:        repo,
		pricing:     pricing,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// CreateOrder computes totals once, allocates a unique order number and
// persists the order as pending/pending. Totals are never recomputed after
// this point.
func (b *OrderBuilder) CreateOrder(ctx context.Context, input BuildInput) (*domain.Order, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	subtotal, shippingFee, tax, total := b.ComputeTotals(input.Items, input.ShippingAddress.Region)

	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, li := range input.Items {
		items = append(items, domain.OrderItem{
			Ref:       li.Ref,
			Title:     li.Title,
			Image:     li.Image,
			UnitPrice: li.UnitPrice,
			Quantity:  li.Quantity,
		})
	}

	order := domain.Order{
		UserID:          input.UserID,
		Items:           items,
		ShippingAddress: input.ShippingAddress,
		Subtotal:        subtotal,
		ShippingFee:     shippingFee,
		Tax:             tax,
		Total:           total,
		Status:          domain.OrderStatusPending,
		PaymentStatus:   domain.PaymentStatusPending,
		PaymentMethod:   input.PaymentMethod,
		Notes:           input.Notes,
	}

	var orderID int64
	for attempt := 1; ; attempt++ {
		order.OrderNumber = GenerateOrderNumber(time.Now())

		id, err := b.repo.Insert(ctx, order)
		if err == nil {
			orderID = id
			break
		}

		if _, ok := errors.IsOrderNumberCollisionError(err); ok {
			if attempt < b.maxAttempts {
				b.logger.Warn("order number collision, regenerating",
					zap.String("orderNumber", order.OrderNumber),
					zap.Int("attempt", attempt),
				)
				continue
			}
			return nil, err
		}

		return nil, errors.NewOrderPersistenceError("persisting order failed", err)
	}

	persisted, err := b.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, errors.NewOrderPersistenceError("reading back persisted order failed", err)
	}

	b.logger.Info("order created",
		zap.Int64("orderId", persisted.ID),
		zap.String("orderNumber", persisted.OrderNumber),
		zap.Float64("total", persisted.Total),
		zap.String("paymentMethod", persisted.PaymentMethod),
	)

	return persisted, nil
}

// ComputeTotals applies the pricing rules: subtotal over the snapshots, a
// two-tier flat shipping fee waived above the free-shipping threshold, and a
// flat tax on the subtotal.
func (b *OrderBuilder) ComputeTotals(items []LineItem, region string) (subtotal, shippingFee, tax, total float64) {
	for _, li := range items {
		subtotal += li.UnitPrice * float64(li.Quantity)
	}
	subtotal = round2(subtotal)

	if subtotal >= b.pricing.FreeShippingThreshold {
		shippingFee = 0
	} else if strings.EqualFold(region, b.pricing.LocalRegion) {
		shippingFee = b.pricing.LocalShippingFee
	} else {
		shippingFee = b.pricing.RemoteShippingFee
	}

	tax = round2(subtotal * b.pricing.TaxRate)
	total = round2(subtotal + shippingFee + tax)
	return subtotal, shippingFee, tax, total
}

func validateInput(input BuildInput) error {
	var details []errors.ValidationDetail

	if len(input.Items) == 0 {
		details = append(details, errors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	for i, li := range input.Items {
		if err := li.Ref.Validate(); err != nil {
			details = append(details, errors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].ref", i),
				Message: err.Error(),
			})
		}
		if li.Quantity < 1 {
			details = append(details, errors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "quantity must be at least 1",
			})
		}
		if li.UnitPrice < 0 {
			details = append(details, errors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].unitPrice", i),
				Message: "unitPrice must be non-negative",
			})
		}
	}

	if input.PaymentMethod != domain.PaymentMethodCard && input.PaymentMethod != domain.PaymentMethodCashOnDelivery {
		details = append(details, errors.ValidationDetail{
			Field:   "paymentMethod",
			Message: "paymentMethod must be card or cod",
		})
	}

	addr := input.ShippingAddress
	required := []struct {
		field string
		value string
	}{
		{"shippingAddress.name", addr.Name},
		{"shippingAddress.phone", addr.Phone},
		{"shippingAddress.addressLine", addr.AddressLine},
		{"shippingAddress.city", addr.City},
		{"shippingAddress.region", addr.Region},
	}
	for _, req := range required {
		if strings.TrimSpace(req.value) == "" {
			details = append(details, errors.ValidationDetail{
				Field:   req.field,
				Message: req.field + " is required",
			})
		}
	}

	if len(details) > 0 {
		return errors.NewValidationError("validation failed", details...)
	}
	return nil
}

const orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateOrderNumber produces ORD-<yymmdd>-<6 char base36>. Uniqueness is
// enforced by the database index; collisions are handled by regeneration.
func GenerateOrderNumber(now time.Time) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = orderNumberAlphabet[rand.Intn(len(orderNumberAlphabet))]
	}
	return fmt.Sprintf("ORD-%s-%s", now.Format("060102"), string(suffix))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
