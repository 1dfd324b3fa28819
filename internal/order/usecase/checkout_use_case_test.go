package usecase

import (
	"context"
	"testing"

	"go.uber.org/zap"

	cartservice "fitstore/internal/cart/service"
	"fitstore/internal/catalog"
	"fitstore/internal/domain"
	"fitstore/internal/dto"
	"fitstore/internal/errors"
	orderservice "fitstore/internal/order/service"
	"fitstore/internal/payment"
)

type mockCartReader struct {
	ListActiveFunc func(ctx context.Context, userID string) ([]cartservice.ResolvedEntry, error)
}

func (m *mockCartReader) ListActive(ctx context.Context, userID string) ([]cartservice.ResolvedEntry, error) {
	return m.ListActiveFunc(ctx, userID)
}

type mockOrderCreator struct {
	CreateOrderFunc func(ctx context.Context, input orderservice.BuildInput) (*domain.Order, error)
}

func (m *mockOrderCreator) CreateOrder(ctx context.Context, input orderservice.BuildInput) (*domain.Order, error) {
	return m.CreateOrderFunc(ctx, input)
}

type mockItemResolver struct {
	ResolveFunc func(ctx context.Context, ref domain.ItemRef) (*catalog.ResolvedItem, error)
}

func (m *mockItemResolver) Resolve(ctx context.Context, ref domain.ItemRef) (*catalog.ResolvedItem, error) {
	return m.ResolveFunc(ctx, ref)
}

type mockPaymentInitiator struct {
	InitiatePaymentFunc func(ctx context.Context, order *domain.Order, customer payment.CustomerInfo) (*payment.Session, error)
}

func (m *mockPaymentInitiator) InitiatePayment(ctx context.Context, order *domain.Order, customer payment.CustomerInfo) (*payment.Session, error) {
	return m.InitiatePaymentFunc(ctx, order, customer)
}

func checkoutRequest(method string) dto.CheckoutRequest {
	userID := "user-1"
	return dto.CheckoutRequest{
		UserID:        &userID,
		CustomerEmail: "rahim@example.com",
		ShippingAddress: dto.ShippingAddressDTO{
			Name:        "Rahim Uddin",
			Phone:       "01700000000",
			AddressLine: "12 Gulshan Ave",
			City:        "Dhaka",
			Region:      "Dhaka",
			PostalCode:  "1212",
		},
		PaymentMethod: method,
	}
}

func cartEntries() []cartservice.ResolvedEntry {
	return []cartservice.ResolvedEntry{
		{
			Entry:     domain.CartEntry{ID: 1, Ref: domain.ProductRef(1), Quantity: 2, IsSelected: true},
			Title:     "Dumbbell Set",
			UnitPrice: 500,
		},
		{
			Entry:     domain.CartEntry{ID: 2, Ref: domain.PackageRef(2), Quantity: 1, IsSelected: false},
			Title:     "Starter Pack",
			UnitPrice: 300,
		},
	}
}

func TestCheckout_CashOnDeliverySkipsGateway(t *testing.T) {
	carts := &mockCartReader{
		ListActiveFunc: func(ctx context.Context, userID string) ([]cartservice.ResolvedEntry, error) {
			return cartEntries(), nil
		},
	}
	builder := &mockOrderCreator{
		CreateOrderFunc: func(ctx context.Context, input orderservice.BuildInput) (*domain.Order, error) {
			if len(input.Items) != 1 {
				t.Errorf("expected only selected entries to enter the order, got %d items", len(input.Items))
			}
			return &domain.Order{
				ID:            9,
				OrderNumber:   "ORD-250101-ABC123",
				Total:         1115,
				PaymentMethod: domain.PaymentMethodCashOnDelivery,
			}, nil
		},
	}
	gateway := &mockPaymentInitiator{
		InitiatePaymentFunc: func(ctx context.Context, order *domain.Order, customer payment.CustomerInfo) (*payment.Session, error) {
			t.Error("gateway must not be called for cash on delivery")
			return nil, nil
		},
	}

	uc := NewCheckoutUseCase(carts, &mockItemResolver{}, builder, gateway, zap.NewNop())

	resp, err := uc.Checkout(context.Background(), checkoutRequest(domain.PaymentMethodCashOnDelivery))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.OrderID != 9 {
		t.Errorf("expected orderId 9, got %d", resp.OrderID)
	}
	if resp.PaymentURL != "" {
		t.Errorf("expected empty paymentUrl for cod, got %q", resp.PaymentURL)
	}
}

func TestCheckout_CardReturnsPaymentURL(t *testing.T) {
	carts := &mockCartReader{
		ListActiveFunc: func(ctx context.Context, userID string) ([]cartservice.ResolvedEntry, error) {
			return cartEntries(), nil
		},
	}
	builder := &mockOrderCreator{
		CreateOrderFunc: func(ctx context.Context, input orderservice.BuildInput) (*domain.Order, error) {
			return &domain.Order{
				ID:            9,
				OrderNumber:   "ORD-250101-ABC123",
				Total:         1115,
				PaymentMethod: domain.PaymentMethodCard,
			}, nil
		},
	}
	gateway := &mockPaymentInitiator{
		InitiatePaymentFunc: func(ctx context.Context, order *domain.Order, customer payment.CustomerInfo) (*payment.Session, error) {
			if customer.Email != "rahim@example.com" {
				t.Errorf("expected customer email to be forwarded, got %q", customer.Email)
			}
			return &payment.Session{PaymentURL: "https://sandbox.sslcommerz.com/pay/abc", SessionKey: "sess-1"}, nil
		},
	}

	uc := NewCheckoutUseCase(carts, &mockItemResolver{}, builder, gateway, zap.NewNop())

	resp, err := uc.Checkout(context.Background(), checkoutRequest(domain.PaymentMethodCard))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.PaymentURL != "https://sandbox.sslcommerz.com/pay/abc" {
		t.Errorf("unexpected paymentUrl %q", resp.PaymentURL)
	}
}

func TestCheckout_NoSelectedEntries(t *testing.T) {
	entries := cartEntries()
	entries[0].Entry.IsSelected = false

	carts := &mockCartReader{
		ListActiveFunc: func(ctx context.Context, userID string) ([]cartservice.ResolvedEntry, error) {
			return entries, nil
		},
	}
	builder := &mockOrderCreator{
		CreateOrderFunc: func(ctx context.Context, input orderservice.BuildInput) (*domain.Order, error) {
			t.Error("no order must be created without selected entries")
			return nil, nil
		},
	}

	uc := NewCheckoutUseCase(carts, &mockItemResolver{}, builder, &mockPaymentInitiator{}, zap.NewNop())

	_, err := uc.Checkout(context.Background(), checkoutRequest(domain.PaymentMethodCard))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if _, ok := errors.IsValidationError(err); !ok {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestCheckout_MissingUserID(t *testing.T) {
	uc := NewCheckoutUseCase(&mockCartReader{}, &mockItemResolver{}, &mockOrderCreator{}, &mockPaymentInitiator{}, zap.NewNop())

	req := checkoutRequest(domain.PaymentMethodCard)
	req.UserID = nil

	_, err := uc.Checkout(context.Background(), req)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if _, ok := errors.IsValidationError(err); !ok {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestCheckout_GatewayRejectionLeavesOrderPending(t *testing.T) {
	carts := &mockCartReader{
		ListActiveFunc: func(ctx context.Context, userID string) ([]cartservice.ResolvedEntry, error) {
			return cartEntries(), nil
		},
	}
	created := &domain.Order{
		ID:            9,
		OrderNumber:   "ORD-250101-ABC123",
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
		PaymentMethod: domain.PaymentMethodCard,
	}
	builder := &mockOrderCreator{
		CreateOrderFunc: func(ctx context.Context, input orderservice.BuildInput) (*domain.Order, error) {
			return created, nil
		},
	}
	gateway := &mockPaymentInitiator{
		InitiatePaymentFunc: func(ctx context.Context, order *domain.Order, customer payment.CustomerInfo) (*payment.Session, error) {
			return nil, errors.NewGatewayError("insufficient funds")
		},
	}

	uc := NewCheckoutUseCase(carts, &mockItemResolver{}, builder, gateway, zap.NewNop())

	_, err := uc.Checkout(context.Background(), checkoutRequest(domain.PaymentMethodCard))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	gwErr, ok := errors.IsGatewayError(err)
	if !ok {
		t.Fatalf("expected GatewayError, got %T", err)
	}
	if gwErr.Reason != "insufficient funds" {
		t.Errorf("expected reason propagated verbatim, got %q", gwErr.Reason)
	}
	if created.Status != domain.OrderStatusPending || created.PaymentStatus != domain.PaymentStatusPending {
		t.Error("order must stay pending after gateway rejection")
	}
}

func TestCheckout_GuestDirectOrderWithTraining(t *testing.T) {
	carts := &mockCartReader{
		ListActiveFunc: func(ctx context.Context, userID string) ([]cartservice.ResolvedEntry, error) {
			t.Error("direct checkout must not read a cart")
			return nil, nil
		},
	}
	resolver := &mockItemResolver{
		ResolveFunc: func(ctx context.Context, ref domain.ItemRef) (*catalog.ResolvedItem, error) {
			if ref.Kind != domain.ItemKindTraining || ref.ID != 3 {
				t.Errorf("unexpected ref %s", ref)
			}
			return &catalog.ResolvedItem{Ref: ref, Title: "8-Week Strength", UnitPrice: 4000}, nil
		},
	}
	builder := &mockOrderCreator{
		CreateOrderFunc: func(ctx context.Context, input orderservice.BuildInput) (*domain.Order, error) {
			if input.UserID != nil {
				t.Error("guest order must carry no userId")
			}
			if len(input.Items) != 1 || input.Items[0].Ref.Kind != domain.ItemKindTraining {
				t.Errorf("expected a single training line, got %+v", input.Items)
			}
			if input.Items[0].UnitPrice != 4000 {
				t.Errorf("expected catalog price snapshot, got %v", input.Items[0].UnitPrice)
			}
			return &domain.Order{
				ID:            10,
				OrderNumber:   "ORD-250101-GGGGGG",
				Total:         4200,
				PaymentMethod: domain.PaymentMethodCashOnDelivery,
			}, nil
		},
	}

	uc := NewCheckoutUseCase(carts, resolver, builder, &mockPaymentInitiator{}, zap.NewNop())

	req := checkoutRequest(domain.PaymentMethodCashOnDelivery)
	req.UserID = nil
	req.Items = []dto.CheckoutItemDTO{{ItemKind: "training", ItemID: 3, Quantity: 1}}

	resp, err := uc.Checkout(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.OrderID != 10 {
		t.Errorf("expected orderId 10, got %d", resp.OrderID)
	}
}

func TestCheckout_DirectOrderRespectsStock(t *testing.T) {
	stock := 2
	resolver := &mockItemResolver{
		ResolveFunc: func(ctx context.Context, ref domain.ItemRef) (*catalog.ResolvedItem, error) {
			return &catalog.ResolvedItem{Ref: ref, Title: "Dumbbell Set", UnitPrice: 500, Stock: &stock}, nil
		},
	}
	builder := &mockOrderCreator{
		CreateOrderFunc: func(ctx context.Context, input orderservice.BuildInput) (*domain.Order, error) {
			t.Error("no order must be created beyond available stock")
			return nil, nil
		},
	}

	uc := NewCheckoutUseCase(&mockCartReader{}, resolver, builder, &mockPaymentInitiator{}, zap.NewNop())

	req := checkoutRequest(domain.PaymentMethodCard)
	req.Items = []dto.CheckoutItemDTO{{ItemKind: "product", ItemID: 1, Quantity: 3}}

	_, err := uc.Checkout(context.Background(), req)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if _, ok := errors.IsOutOfRangeError(err); !ok {
		t.Errorf("expected OutOfRangeError, got %T", err)
	}
}

func TestCheckout_DirectOrderUnknownItem(t *testing.T) {
	resolver := &mockItemResolver{
		ResolveFunc: func(ctx context.Context, ref domain.ItemRef) (*catalog.ResolvedItem, error) {
			return nil, errors.NewNotFoundError("product with id 404 not found")
		},
	}

	uc := NewCheckoutUseCase(&mockCartReader{}, resolver, &mockOrderCreator{}, &mockPaymentInitiator{}, zap.NewNop())

	req := checkoutRequest(domain.PaymentMethodCard)
	req.Items = []dto.CheckoutItemDTO{{ItemKind: "product", ItemID: 404, Quantity: 1}}

	_, err := uc.Checkout(context.Background(), req)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if _, ok := errors.IsNotFoundError(err); !ok {
		t.Errorf("expected NotFoundError, got %T", err)
	}
}
