package catalog

import (
	"context"
	"fmt"

	"fitstore/internal/domain"
	"fitstore/internal/errors"
)

type CatalogService struct {
	repo Repository
}

func NewCatalogService(repo Repository) *CatalogService {
	return &CatalogService{repo: repo}
}

// Resolve maps an item reference to its current catalog state. Live reads:
// the cart renders from here on every request, while orders snapshot the
// result once at checkout.
func (s *CatalogService) Resolve(ctx context.Context, ref domain.ItemRef) (*ResolvedItem, error) {
	if err := ref.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	switch ref.Kind {
	case domain.ItemKindProduct:
		p, err := s.repo.FindProductByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		if !p.IsActive {
			return nil, errors.NewNotFoundError(fmt.Sprintf("product %d is no longer available", ref.ID))
		}
		stock := p.AvailableStock()
		return &ResolvedItem{
			Ref:       ref,
			Title:     p.Name,
			Image:     p.Image,
			UnitPrice: p.Price,
			Stock:     &stock,
		}, nil

	case domain.ItemKindPackage:
		p, err := s.repo.FindPackageByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		if !p.IsActive {
			return nil, errors.NewNotFoundError(fmt.Sprintf("package %d is no longer available", ref.ID))
		}
		return &ResolvedItem{
			Ref:       ref,
			Title:     p.Name,
			Image:     p.Image,
			UnitPrice: p.Price,
		}, nil

	case domain.ItemKindTraining:
		t, err := s.repo.FindTrainingByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		if !t.IsActive {
			return nil, errors.NewNotFoundError(fmt.Sprintf("training program %d is no longer available", ref.ID))
		}
		return &ResolvedItem{
			Ref:       ref,
			Title:     t.Title,
			Image:     t.Image,
			UnitPrice: t.Price,
		}, nil
	}

	return nil, errors.NewValidationError(fmt.Sprintf("unknown item kind %q", ref.Kind))
}

func (s *CatalogService) ResolveAll(ctx context.Context, refs []domain.ItemRef) ([]ResolvedItem, error) {
	resolved := make([]ResolvedItem, 0, len(refs))
	for _, ref := range refs {
		item, err := s.Resolve(ctx, ref)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, *item)
	}
	return resolved, nil
}
