package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"fitstore/internal/domain"
	"fitstore/internal/errors"
)

type mockOrderStore struct {
	FindByIDFunc            func(ctx context.Context, id int64) (*domain.Order, error)
	FindByNumberFunc        func(ctx context.Context, orderNumber string) (*domain.Order, error)
	UpdatePaymentStatusFunc func(ctx context.Context, id int64, status domain.PaymentStatus) error
	UpdateStatusFunc        func(ctx context.Context, id int64, status domain.OrderStatus, deliveredAt, cancelledAt *time.Time) error
}

func (m *mockOrderStore) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockOrderStore) FindByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return m.FindByNumberFunc(ctx, orderNumber)
}

func (m *mockOrderStore) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	return m.UpdatePaymentStatusFunc(ctx, id, status)
}

func (m *mockOrderStore) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, deliveredAt, cancelledAt *time.Time) error {
	return m.UpdateStatusFunc(ctx, id, status, deliveredAt, cancelledAt)
}

type mockCartCleaner struct {
	ClearByRefsFunc func(ctx context.Context, userID string, refs []domain.ItemRef) (int64, error)
}

func (m *mockCartCleaner) ClearByRefs(ctx context.Context, userID string, refs []domain.ItemRef) (int64, error) {
	return m.ClearByRefsFunc(ctx, userID, refs)
}

func pendingOrder() *domain.Order {
	userID := "user-1"
	return &domain.Order{
		ID:            7,
		OrderNumber:   "ORD-250101-ABC123",
		UserID:        &userID,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
		Items: []domain.OrderItem{
			{Ref: domain.ProductRef(1), Quantity: 2},
			{Ref: domain.PackageRef(2), Quantity: 1},
		},
	}
}

func TestMarkPaidByTranID_ConfirmsPendingOrder(t *testing.T) {
	order := pendingOrder()
	var paymentUpdated domain.PaymentStatus
	var statusUpdated domain.OrderStatus
	cleaned := make(chan []domain.ItemRef, 1)

	store := &mockOrderStore{
		FindByNumberFunc: func(ctx context.Context, number string) (*domain.Order, error) {
			if number != order.OrderNumber {
				t.Errorf("expected lookup by %s, got %s", order.OrderNumber, number)
			}
			return order, nil
		},
		UpdatePaymentStatusFunc: func(ctx context.Context, id int64, status domain.PaymentStatus) error {
			paymentUpdated = status
			return nil
		},
		UpdateStatusFunc: func(ctx context.Context, id int64, status domain.OrderStatus, deliveredAt, cancelledAt *time.Time) error {
			statusUpdated = status
			return nil
		},
	}
	carts := &mockCartCleaner{
		ClearByRefsFunc: func(ctx context.Context, userID string, refs []domain.ItemRef) (int64, error) {
			cleaned <- refs
			return int64(len(refs)), nil
		},
	}

	r := NewReconciler(store, carts, zap.NewNop())

	got, err := r.MarkPaidByTranID(context.Background(), order.OrderNumber)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PaymentStatus != domain.PaymentStatusPaid {
		t.Errorf("expected paymentStatus paid, got %v", got.PaymentStatus)
	}
	if got.Status != domain.OrderStatusConfirmed {
		t.Errorf("expected status confirmed, got %v", got.Status)
	}
	if paymentUpdated != domain.PaymentStatusPaid {
		t.Errorf("expected paid persisted, got %v", paymentUpdated)
	}
	if statusUpdated != domain.OrderStatusConfirmed {
		t.Errorf("expected confirmed persisted, got %v", statusUpdated)
	}

	select {
	case refs := <-cleaned:
		if len(refs) != 2 {
			t.Errorf("expected 2 refs cleaned up, got %d", len(refs))
		}
	case <-time.After(2 * time.Second):
		t.Error("cart cleanup never ran")
	}
}

func TestMarkPaidByTranID_AlreadyPaidIsNoop(t *testing.T) {
	order := pendingOrder()
	order.PaymentStatus = domain.PaymentStatusPaid
	order.Status = domain.OrderStatusConfirmed

	store := &mockOrderStore{
		FindByNumberFunc: func(ctx context.Context, number string) (*domain.Order, error) {
			return order, nil
		},
		UpdatePaymentStatusFunc: func(ctx context.Context, id int64, status domain.PaymentStatus) error {
			t.Error("payment status must not be rewritten for an already-paid order")
			return nil
		},
		UpdateStatusFunc: func(ctx context.Context, id int64, status domain.OrderStatus, deliveredAt, cancelledAt *time.Time) error {
			t.Error("order status must not be rewritten for an already-paid order")
			return nil
		},
	}
	carts := &mockCartCleaner{
		ClearByRefsFunc: func(ctx context.Context, userID string, refs []domain.ItemRef) (int64, error) {
			t.Error("cart cleanup must not rerun for an already-paid order")
			return 0, nil
		},
	}

	r := NewReconciler(store, carts, zap.NewNop())

	got, err := r.MarkPaidByTranID(context.Background(), order.OrderNumber)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PaymentStatus != domain.PaymentStatusPaid {
		t.Errorf("expected paymentStatus paid, got %v", got.PaymentStatus)
	}
}

func TestMarkPaidByTranID_RefundedConflicts(t *testing.T) {
	order := pendingOrder()
	order.PaymentStatus = domain.PaymentStatusRefunded

	store := &mockOrderStore{
		FindByNumberFunc: func(ctx context.Context, number string) (*domain.Order, error) {
			return order, nil
		},
	}

	r := NewReconciler(store, &mockCartCleaner{}, zap.NewNop())

	_, err := r.MarkPaidByTranID(context.Background(), order.OrderNumber)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if _, ok := errors.IsConflictError(err); !ok {
		t.Errorf("expected ConflictError, got %T", err)
	}
}

func TestMarkPaidByTranID_GuestOrderSkipsCleanup(t *testing.T) {
	order := pendingOrder()
	order.UserID = nil

	updated := false
	store := &mockOrderStore{
		FindByNumberFunc: func(ctx context.Context, number string) (*domain.Order, error) {
			return order, nil
		},
		UpdatePaymentStatusFunc: func(ctx context.Context, id int64, status domain.PaymentStatus) error {
			updated = true
			return nil
		},
		UpdateStatusFunc: func(ctx context.Context, id int64, status domain.OrderStatus, deliveredAt, cancelledAt *time.Time) error {
			return nil
		},
	}
	carts := &mockCartCleaner{
		ClearByRefsFunc: func(ctx context.Context, userID string, refs []domain.ItemRef) (int64, error) {
			t.Error("cleanup must not run for a guest order")
			return 0, nil
		},
	}

	r := NewReconciler(store, carts, zap.NewNop())

	if _, err := r.MarkPaidByTranID(context.Background(), order.OrderNumber); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated {
		t.Error("expected payment status update")
	}
	time.Sleep(50 * time.Millisecond)
}

func TestMarkFailedByTranID(t *testing.T) {
	order := pendingOrder()
	var paymentUpdated domain.PaymentStatus

	store := &mockOrderStore{
		FindByNumberFunc: func(ctx context.Context, number string) (*domain.Order, error) {
			return order, nil
		},
		UpdatePaymentStatusFunc: func(ctx context.Context, id int64, status domain.PaymentStatus) error {
			paymentUpdated = status
			return nil
		},
		UpdateStatusFunc: func(ctx context.Context, id int64, status domain.OrderStatus, deliveredAt, cancelledAt *time.Time) error {
			t.Error("order status must not change on a failed payment")
			return nil
		},
	}

	r := NewReconciler(store, &mockCartCleaner{}, zap.NewNop())

	got, err := r.MarkFailedByTranID(context.Background(), order.OrderNumber)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PaymentStatus != domain.PaymentStatusFailed {
		t.Errorf("expected paymentStatus failed, got %v", got.PaymentStatus)
	}
	if got.Status != domain.OrderStatusPending {
		t.Errorf("order must stay pending after a failed payment, got %v", got.Status)
	}
	if paymentUpdated != domain.PaymentStatusFailed {
		t.Errorf("expected failed persisted, got %v", paymentUpdated)
	}
}

func TestMarkFailedByTranID_AlreadyFailedIsNoop(t *testing.T) {
	order := pendingOrder()
	order.PaymentStatus = domain.PaymentStatusFailed

	store := &mockOrderStore{
		FindByNumberFunc: func(ctx context.Context, number string) (*domain.Order, error) {
			return order, nil
		},
		UpdatePaymentStatusFunc: func(ctx context.Context, id int64, status domain.PaymentStatus) error {
			t.Error("payment status must not be rewritten for an already-failed order")
			return nil
		},
	}

	r := NewReconciler(store, &mockCartCleaner{}, zap.NewNop())

	if _, err := r.MarkFailedByTranID(context.Background(), order.OrderNumber); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateStatus_Forward(t *testing.T) {
	order := pendingOrder()
	order.Status = domain.OrderStatusConfirmed

	store := &mockOrderStore{
		FindByIDFunc: func(ctx context.Context, id int64) (*domain.Order, error) {
			return order, nil
		},
		UpdateStatusFunc: func(ctx context.Context, id int64, status domain.OrderStatus, deliveredAt, cancelledAt *time.Time) error {
			if deliveredAt != nil || cancelledAt != nil {
				t.Error("no timestamps expected for processing")
			}
			return nil
		},
	}

	r := NewReconciler(store, &mockCartCleaner{}, zap.NewNop())

	got, err := r.UpdateStatus(context.Background(), order.ID, domain.OrderStatusProcessing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.OrderStatusProcessing {
		t.Errorf("expected processing, got %v", got.Status)
	}
}

func TestUpdateStatus_DeliveredStampsTimestamp(t *testing.T) {
	order := pendingOrder()
	order.Status = domain.OrderStatusShipped

	store := &mockOrderStore{
		FindByIDFunc: func(ctx context.Context, id int64) (*domain.Order, error) {
			return order, nil
		},
		UpdateStatusFunc: func(ctx context.Context, id int64, status domain.OrderStatus, deliveredAt, cancelledAt *time.Time) error {
			if deliveredAt == nil {
				t.Error("expected deliveredAt to be stamped")
			}
			if cancelledAt != nil {
				t.Error("cancelledAt must not be stamped on delivery")
			}
			return nil
		},
	}

	r := NewReconciler(store, &mockCartCleaner{}, zap.NewNop())

	got, err := r.UpdateStatus(context.Background(), order.ID, domain.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DeliveredAt == nil {
		t.Error("expected deliveredAt on returned order")
	}
}

func TestUpdateStatus_CancelledStampsTimestamp(t *testing.T) {
	order := pendingOrder()
	order.Status = domain.OrderStatusProcessing

	store := &mockOrderStore{
		FindByIDFunc: func(ctx context.Context, id int64) (*domain.Order, error) {
			return order, nil
		},
		UpdateStatusFunc: func(ctx context.Context, id int64, status domain.OrderStatus, deliveredAt, cancelledAt *time.Time) error {
			if cancelledAt == nil {
				t.Error("expected cancelledAt to be stamped")
			}
			return nil
		},
	}

	r := NewReconciler(store, &mockCartCleaner{}, zap.NewNop())

	got, err := r.UpdateStatus(context.Background(), order.ID, domain.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CancelledAt == nil {
		t.Error("expected cancelledAt on returned order")
	}
}

func TestUpdateStatus_BackwardRejected(t *testing.T) {
	order := pendingOrder()
	order.Status = domain.OrderStatusShipped

	store := &mockOrderStore{
		FindByIDFunc: func(ctx context.Context, id int64) (*domain.Order, error) {
			return order, nil
		},
		UpdateStatusFunc: func(ctx context.Context, id int64, status domain.OrderStatus, deliveredAt, cancelledAt *time.Time) error {
			t.Error("backward transition must not be persisted")
			return nil
		},
	}

	r := NewReconciler(store, &mockCartCleaner{}, zap.NewNop())

	_, err := r.UpdateStatus(context.Background(), order.ID, domain.OrderStatusConfirmed)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if _, ok := errors.IsInvalidStatusTransitionError(err); !ok {
		t.Errorf("expected InvalidStatusTransitionError, got %T", err)
	}
}

func TestUpdateStatus_UnknownStatusRejected(t *testing.T) {
	r := NewReconciler(&mockOrderStore{}, &mockCartCleaner{}, zap.NewNop())

	_, err := r.UpdateStatus(context.Background(), 1, domain.OrderStatus("misplaced"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if _, ok := errors.IsValidationError(err); !ok {
		t.Errorf("expected ValidationError, got %T", err)
	}
}
