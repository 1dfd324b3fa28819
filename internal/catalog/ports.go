package catalog

import (
	"context"

	"fitstore/internal/domain"
)

// ResolvedItem is what the rest of the system sees of a catalog entity:
// enough to render a cart line or snapshot an order item. Stock is nil for
// packages and training programs, which carry no ceiling.
type ResolvedItem struct {
	Ref       domain.ItemRef
	Title     string
	Image     string
	UnitPrice float64
	Stock     *int
}

type Resolver interface {
	Resolve(ctx context.Context, ref domain.ItemRef) (*ResolvedItem, error)
	ResolveAll(ctx context.Context, refs []domain.ItemRef) ([]ResolvedItem, error)
}

type Repository interface {
	FindProductByID(ctx context.Context, id int) (*domain.Product, error)
	FindPackageByID(ctx context.Context, id int) (*domain.Package, error)
	FindTrainingByID(ctx context.Context, id int) (*domain.TrainingProgram, error)
	ListProducts(ctx context.Context, page, perPage int) ([]domain.Product, int, error)
	ListPackages(ctx context.Context) ([]domain.Package, error)
	ListTrainings(ctx context.Context) ([]domain.TrainingProgram, error)
}
