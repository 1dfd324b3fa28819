package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fitstore/internal/domain"
	"fitstore/internal/errors"
)

type OrderStore interface {
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	FindByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, deliveredAt, cancelledAt *time.Time) error
}

type CartCleaner interface {
	ClearByRefs(ctx context.Context, userID string, refs []domain.ItemRef) (int64, error)
}

const cleanupTimeout = 10 * time.Second

// Reconciler updates local order and payment state to match the gateway's
// authoritative outcome, and clears the originating cart on confirmed
// success.
type Reconciler struct {
	orders OrderStore
	carts  CartCleaner
	logger *zap.Logger
}

func NewReconciler(orders OrderStore, carts CartCleaner, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		orders: orders,
		carts:  carts,
		logger: logger,
	}
}

// MarkPaidByTranID confirms payment for the order whose number is the
// gateway transaction id. Repeated success callbacks for an already-paid
// order are a no-op. Cart cleanup runs detached: the order is already paid
// and the caller's response must not wait on it.
func (r *Reconciler) MarkPaidByTranID(ctx context.Context, tranID string) (*domain.Order, error) {
	order, err := r.orders.FindByNumber(ctx, tranID)
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus == domain.PaymentStatusPaid {
		return order, nil
	}
	if order.PaymentStatus != domain.PaymentStatusPending {
		return nil, errors.NewConflictError(
			fmt.Sprintf("order %s has payment status %s and cannot be marked paid", tranID, order.PaymentStatus),
		)
	}

	if err := r.orders.UpdatePaymentStatus(ctx, order.ID, domain.PaymentStatusPaid); err != nil {
		return nil, err
	}
	order.PaymentStatus = domain.PaymentStatusPaid

	if domain.CanTransition(order.Status, domain.OrderStatusConfirmed) {
		if err := r.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusConfirmed, nil, nil); err != nil {
			return nil, err
		}
		order.Status = domain.OrderStatusConfirmed
	}

	r.logger.Info("payment confirmed",
		zap.Int64("orderId", order.ID),
		zap.String("orderNumber", order.OrderNumber),
	)

	if order.UserID != nil {
		go r.cleanupCart(*order.UserID, order)
	}

	return order, nil
}

// MarkFailedByTranID records a failed payment attempt. The order itself
// stays pending for a later retry.
func (r *Reconciler) MarkFailedByTranID(ctx context.Context, tranID string) (*domain.Order, error) {
	order, err := r.orders.FindByNumber(ctx, tranID)
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus == domain.PaymentStatusFailed {
		return order, nil
	}
	if order.PaymentStatus != domain.PaymentStatusPending {
		return nil, errors.NewConflictError(
			fmt.Sprintf("order %s has payment status %s and cannot be marked failed", tranID, order.PaymentStatus),
		)
	}

	if err := r.orders.UpdatePaymentStatus(ctx, order.ID, domain.PaymentStatusFailed); err != nil {
		return nil, err
	}
	order.PaymentStatus = domain.PaymentStatusFailed

	r.logger.Info("payment failed",
		zap.Int64("orderId", order.ID),
		zap.String("orderNumber", order.OrderNumber),
	)

	return order, nil
}

// FindByTranID resolves an order for callback redirects without mutating it.
func (r *Reconciler) FindByTranID(ctx context.Context, tranID string) (*domain.Order, error) {
	return r.orders.FindByNumber(ctx, tranID)
}

// UpdateStatus applies a status change under the forward-only state machine.
// delivered stamps deliveredAt; cancelled stamps cancelledAt.
func (r *Reconciler) UpdateStatus(ctx context.Context, orderID int64, newStatus domain.OrderStatus) (*domain.Order, error) {
	if !domain.IsValidOrderStatus(newStatus) {
		return nil, errors.NewValidationError(fmt.Sprintf("unknown order status %q", newStatus))
	}

	order, err := r.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(order.Status, newStatus) {
		return nil, errors.NewInvalidStatusTransitionError(
			fmt.Sprintf("cannot move order from %s to %s", order.Status, newStatus),
		)
	}

	var deliveredAt, cancelledAt *time.Time
	now := time.Now()
	switch newStatus {
	case domain.OrderStatusDelivered:
		deliveredAt = &now
	case domain.OrderStatusCancelled:
		cancelledAt = &now
	}

	if err := r.orders.UpdateStatus(ctx, orderID, newStatus, deliveredAt, cancelledAt); err != nil {
		return nil, err
	}

	order.Status = newStatus
	order.DeliveredAt = deliveredAt
	order.CancelledAt = cancelledAt

	r.logger.Info("order status updated",
		zap.Int64("orderId", orderID),
		zap.String("status", string(newStatus)),
	)

	return order, nil
}

// cleanupCart hard-deletes the cart entries that produced the order. Failure
// here is logged and never rolled back into the order: the payment already
// succeeded.
func (r *Reconciler) cleanupCart(userID string, order *domain.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	refs := make([]domain.ItemRef, 0, len(order.Items))
	for _, item := range order.Items {
		refs = append(refs, item.Ref)
	}

	deleted, err := r.carts.ClearByRefs(ctx, userID, refs)
	if err != nil {
		r.logger.Error("cart cleanup after payment failed",
			zap.Int64("orderId", order.ID),
			zap.String("userId", userID),
			zap.Error(err),
		)
		return
	}

	r.logger.Info("cart cleaned up after payment",
		zap.Int64("orderId", order.ID),
		zap.String("userId", userID),
		zap.Int64("entriesDeleted", deleted),
	)
}
