package catalog

import (
	"database/sql"

	"go.uber.org/zap"
)

// NewModule wires the catalog read surface. The returned service doubles as
// the resolver the cart and order modules depend on.
func NewModule(db *sql.DB, logger *zap.Logger) (*Controller, *CatalogService) {
	repo := NewMySQLCatalogRepository(db)
	svc := NewCatalogService(repo)
	ctrl := NewController(repo, logger)
	return ctrl, svc
}
