package order

import (
	"database/sql"

	"go.uber.org/zap"

	"fitstore/internal/config"
	"fitstore/internal/order/controller"
	"fitstore/internal/order/repository"
	"fitstore/internal/order/service"
	"fitstore/internal/order/usecase"
)

// NewModule wires the order core: builder, reconciler, checkout use case and
// the HTTP surface. The reconciler is returned separately because the
// payment callbacks drive it.
func NewModule(
	db *sql.DB,
	carts usecase.CartReader,
	resolver usecase.ItemResolver,
	cleaner service.CartCleaner,
	gateway usecase.PaymentInitiator,
	cfg *config.Config,
	logger *zap.Logger,
) (*controller.OrderController, *service.Reconciler) {
	repo := repository.NewMySQLOrderRepository(db)

	builder := service.NewOrderBuilder(repo, cfg.Pricing, cfg.Order.NumberMaxAttempts, logger)
	reconciler := service.NewReconciler(repo, cleaner, logger)
	checkout := usecase.NewCheckoutUseCase(carts, resolver, builder, gateway, logger)

	ctrl := controller.NewOrderController(checkout, repo, reconciler, logger)
	return ctrl, reconciler
}
