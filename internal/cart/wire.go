package cart

import (
	"database/sql"

	"go.uber.org/zap"

	"fitstore/internal/cart/controller"
	"fitstore/internal/cart/repository"
	"fitstore/internal/cart/service"
)

func NewModule(db *sql.DB, resolver service.CatalogResolver, logger *zap.Logger) (*controller.CartController, *service.CartService) {
	repo := repository.NewMySQLCartRepository(db)
	svc := service.NewCartService(repo, resolver, logger)
	ctrl := controller.NewCartController(svc, logger)
	return ctrl, svc
}
