package payment

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"fitstore/internal/domain"
	apperrors "fitstore/internal/errors"
)

type Reconciler interface {
	MarkPaidByTranID(ctx context.Context, tranID string) (*domain.Order, error)
	MarkFailedByTranID(ctx context.Context, tranID string) (*domain.Order, error)
	FindByTranID(ctx context.Context, tranID string) (*domain.Order, error)
}

// CallbackController receives the gateway's asynchronous success/fail/cancel
// callbacks and the server-to-server IPN. Browser callbacks redirect the
// customer to the order-status pages; the IPN answers with a plain status.
type CallbackController struct {
	reconciler Reconciler
	logger     *zap.Logger
}

func NewCallbackController(reconciler Reconciler, logger *zap.Logger) *CallbackController {
	return &CallbackController{
		reconciler: reconciler,
		logger:     logger,
	}
}

// Success is the trigger for reconciliation: the order is marked paid and its
// cart entries are scheduled for cleanup.
func (c *CallbackController) Success(w http.ResponseWriter, r *http.Request) {
	tranID := transactionID(r)
	if tranID == "" {
		http.Redirect(w, r, "/order/failed", http.StatusSeeOther)
		return
	}

	order, err := c.reconciler.MarkPaidByTranID(r.Context(), tranID)
	if err != nil {
		c.logger.Error("reconciling success callback", zap.String("tranId", tranID), zap.Error(err))
		http.Redirect(w, r, "/order/failed", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/order/success?orderId=%d", order.ID), http.StatusSeeOther)
}

// Fail marks the payment attempt failed; the order stays open for retry.
func (c *CallbackController) Fail(w http.ResponseWriter, r *http.Request) {
	tranID := transactionID(r)
	if tranID == "" {
		http.Redirect(w, r, "/order/failed", http.StatusSeeOther)
		return
	}

	order, err := c.reconciler.MarkFailedByTranID(r.Context(), tranID)
	if err != nil {
		c.logger.Error("reconciling fail callback", zap.String("tranId", tranID), zap.Error(err))
		http.Redirect(w, r, "/order/failed", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/order/failed?orderId=%d", order.ID), http.StatusSeeOther)
}

// Cancel leaves the order pending entirely; the customer just backed out.
func (c *CallbackController) Cancel(w http.ResponseWriter, r *http.Request) {
	tranID := transactionID(r)
	if tranID == "" {
		http.Redirect(w, r, "/order/failed", http.StatusSeeOther)
		return
	}

	order, err := c.reconciler.FindByTranID(r.Context(), tranID)
	if err != nil {
		c.logger.Warn("cancel callback for unknown transaction", zap.String("tranId", tranID), zap.Error(err))
		http.Redirect(w, r, "/order/failed", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/order/failed?orderId=%d", order.ID), http.StatusSeeOther)
}

// IPN is the gateway's server-to-server notification. Reconciliation is the
// same as the success callback; the response is a bare acknowledgement.
func (c *CallbackController) IPN(w http.ResponseWriter, r *http.Request) {
	tranID := transactionID(r)
	if tranID == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	status := r.FormValue("status")
	if status != "VALID" && status != "VALIDATED" {
		c.logger.Warn("ignoring IPN with non-valid status",
			zap.String("tranId", tranID),
			zap.String("status", status),
		)
		w.WriteHeader(http.StatusOK)
		return
	}

	if _, err := c.reconciler.MarkPaidByTranID(r.Context(), tranID); err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		c.logger.Error("reconciling IPN", zap.String("tranId", tranID), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// transactionID reads tran_id from the POST form or the query string; the
// gateway uses both depending on the callback.
func transactionID(r *http.Request) string {
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err == nil {
			if v := r.PostFormValue("tran_id"); v != "" {
				return v
			}
		}
	}
	return r.URL.Query().Get("tran_id")
}
