package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	cartservice "fitstore/internal/cart/service"
	"fitstore/internal/catalog"
	"fitstore/internal/domain"
	"fitstore/internal/dto"
	"fitstore/internal/errors"
	orderservice "fitstore/internal/order/service"
	"fitstore/internal/payment"
)

type CartReader interface {
	ListActive(ctx context.Context, userID string) ([]cartservice.ResolvedEntry, error)
}

type ItemResolver interface {
	Resolve(ctx context.Context, ref domain.ItemRef) (*catalog.ResolvedItem, error)
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, input orderservice.BuildInput) (*domain.Order, error)
}

type PaymentInitiator interface {
	InitiatePayment(ctx context.Context, order *domain.Order, customer payment.CustomerInfo) (*payment.Session, error)
}

// CheckoutUseCase turns either the user's selected cart entries or an
// explicit item list into a pending order and, for card payments, a gateway
// redirect. The cart is left intact: entries are cleared only after the
// gateway confirms payment. The direct path needs no cart and no user, which
// is how guests and training-program purchases place orders.
type CheckoutUseCase struct {
	carts    CartReader
	resolver ItemResolver
	builder  OrderCreator
	gateway  PaymentInitiator
	logger   *zap.Logger
}

func NewCheckoutUseCase(carts CartReader, resolver ItemResolver, builder OrderCreator, gateway PaymentInitiator, logger *zap.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{
		carts:    carts,
		resolver: resolver,
		builder:  builder,
		gateway:  gateway,
		logger:   logger,
	}
}

func (uc *CheckoutUseCase) Checkout(ctx context.Context, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	// An empty userId is a guest, not a user named "".
	if req.UserID != nil && *req.UserID == "" {
		req.UserID = nil
	}

	var items []orderservice.LineItem
	var err error

	if len(req.Items) > 0 {
		items, err = uc.directItems(ctx, req.Items)
	} else {
		items, err = uc.cartItems(ctx, req.UserID)
	}
	if err != nil {
		return nil, err
	}

	order, err := uc.builder.CreateOrder(ctx, orderservice.BuildInput{
		UserID: req.UserID,
		Items:  items,
		ShippingAddress: domain.ShippingAddress{
			Name:        req.ShippingAddress.Name,
			Phone:       req.ShippingAddress.Phone,
			AddressLine: req.ShippingAddress.AddressLine,
			City:        req.ShippingAddress.City,
			Region:      req.ShippingAddress.Region,
			PostalCode:  req.ShippingAddress.PostalCode,
		},
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.CheckoutResponse{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Total:       order.Total,
	}

	if order.PaymentMethod == domain.PaymentMethodCashOnDelivery {
		uc.logger.Info("cash-on-delivery checkout completed",
			zap.Int64("orderId", order.ID),
			zap.String("orderNumber", order.OrderNumber),
		)
		return resp, nil
	}

	session, err := uc.gateway.InitiatePayment(ctx, order, payment.CustomerInfo{
		Name:  req.ShippingAddress.Name,
		Email: req.CustomerEmail,
		Phone: req.ShippingAddress.Phone,
	})
	if err != nil {
		// The order stays pending/pending; the customer can retry payment.
		return nil, err
	}

	resp.PaymentURL = session.PaymentURL
	return resp, nil
}

// cartItems reads the user's selected cart entries. Live prices become
// frozen snapshots here; after this point the order never consults the
// catalog again.
func (uc *CheckoutUseCase) cartItems(ctx context.Context, userID *string) ([]orderservice.LineItem, error) {
	if userID == nil || *userID == "" {
		return nil, errors.NewValidationError("userId is required for cart checkout")
	}

	entries, err := uc.carts.ListActive(ctx, *userID)
	if err != nil {
		return nil, err
	}

	items := make([]orderservice.LineItem, 0, len(entries))
	for _, re := range entries {
		if !re.Entry.IsSelected {
			continue
		}
		items = append(items, orderservice.LineItem{
			Ref:       re.Entry.Ref,
			Title:     re.Title,
			Image:     re.Image,
			UnitPrice: re.UnitPrice,
			Quantity:  re.Entry.Quantity,
		})
	}

	if len(items) == 0 {
		return nil, errors.NewValidationError("no cart items are selected for checkout")
	}
	return items, nil
}

// directItems resolves an explicit item list against the catalog. All three
// item kinds are allowed here, including training programs, which never pass
// through a cart.
func (uc *CheckoutUseCase) directItems(ctx context.Context, reqItems []dto.CheckoutItemDTO) ([]orderservice.LineItem, error) {
	items := make([]orderservice.LineItem, 0, len(reqItems))
	for _, ri := range reqItems {
		ref := domain.ItemRef{Kind: domain.ItemKind(ri.ItemKind), ID: ri.ItemID}

		resolved, err := uc.resolver.Resolve(ctx, ref)
		if err != nil {
			return nil, err
		}
		if resolved.Stock != nil && ri.Quantity > *resolved.Stock {
			return nil, errors.NewOutOfRangeError(
				fmt.Sprintf("quantity %d exceeds available stock %d for %s", ri.Quantity, *resolved.Stock, ref),
			)
		}

		items = append(items, orderservice.LineItem{
			Ref:       ref,
			Title:     resolved.Title,
			Image:     resolved.Image,
			UnitPrice: resolved.UnitPrice,
			Quantity:  ri.Quantity,
		})
	}
	return items, nil
}
