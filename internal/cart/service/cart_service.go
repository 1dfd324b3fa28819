package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fitstore/internal/catalog"
	"fitstore/internal/domain"
	"fitstore/internal/errors"
)

type CartRepository interface {
	Insert(ctx context.Context, entry domain.CartEntry) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.CartEntry, error)
	FindActiveByRef(ctx context.Context, userID string, ref domain.ItemRef) (*domain.CartEntry, error)
	UpdateQuantity(ctx context.Context, id int64, quantity int) error
	UpdateSelection(ctx context.Context, id int64, selected bool) error
	SoftDelete(ctx context.Context, id int64) error
	DeleteByRefs(ctx context.Context, userID string, refs []domain.ItemRef) (int64, error)
	CountActive(ctx context.Context, userID string) (int, error)
	ListActive(ctx context.Context, userID string) ([]domain.CartEntry, error)
}

type CatalogResolver interface {
	Resolve(ctx context.Context, ref domain.ItemRef) (*catalog.ResolvedItem, error)
}

// ResolvedEntry pairs a cart entry with the live catalog state it renders
// from. Unit prices here are always current; only placed orders freeze them.
type ResolvedEntry struct {
	Entry     domain.CartEntry
	Title     string
	Image     string
	UnitPrice float64
}

type CartService struct {
	repo     CartRepository
	resolver CatalogResolver
	logger   *zap.Logger
}

func NewCartService(repo CartRepository, resolver CatalogResolver, logger *zap.Logger) *CartService {
	return &CartService{
		repo:     repo,
		resolver: resolver,
		logger:   logger,
	}
}

// AddItem creates a new active entry with quantity 1. A second add of the
// same item is an error, not a quantity bump.
func (s *CartService) AddItem(ctx context.Context, userID string, ref domain.ItemRef) (*domain.CartEntry, error) {
	if userID == "" {
		return nil, errors.NewValidationError("userId is required")
	}
	if err := ref.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if ref.Kind == domain.ItemKindTraining {
		return nil, errors.NewValidationError("training programs are purchased directly and cannot be carted")
	}

	if _, err := s.resolver.Resolve(ctx, ref); err != nil {
		return nil, err
	}

	if existing, err := s.repo.FindActiveByRef(ctx, userID, ref); err == nil && existing != nil {
		return nil, errors.NewDuplicateItemError(fmt.Sprintf("item %s is already in the cart", ref))
	}

	entry := domain.CartEntry{
		UserID:     userID,
		Ref:        ref,
		Quantity:   1,
		IsSelected: true,
	}

	id, err := s.repo.Insert(ctx, entry)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("cart item added",
		zap.String("userId", userID),
		zap.String("ref", ref.String()),
		zap.Int64("entryId", id),
	)

	return created, nil
}

// ChangeQuantity persists a new quantity. Products are capped at available
// stock; packages have no ceiling. Price is never touched here.
func (s *CartService) ChangeQuantity(ctx context.Context, entryID int64, quantity int) error {
	entry, err := s.repo.FindByID(ctx, entryID)
	if err != nil {
		return err
	}
	if !entry.IsActive {
		return errors.NewNotFoundError(fmt.Sprintf("cart entry with id %d is no longer active", entryID))
	}

	if quantity < 1 {
		return errors.NewOutOfRangeError("quantity must be at least 1")
	}

	if entry.Ref.Kind == domain.ItemKindProduct {
		item, err := s.resolver.Resolve(ctx, entry.Ref)
		if err != nil {
			return err
		}
		if item.Stock != nil && quantity > *item.Stock {
			return errors.NewOutOfRangeError(
				fmt.Sprintf("quantity %d exceeds available stock %d", quantity, *item.Stock),
			)
		}
	}

	return s.repo.UpdateQuantity(ctx, entryID, quantity)
}

func (s *CartService) ToggleSelection(ctx context.Context, entryID int64) (*domain.CartEntry, error) {
	entry, err := s.repo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !entry.IsActive {
		return nil, errors.NewNotFoundError(fmt.Sprintf("cart entry with id %d is no longer active", entryID))
	}

	if err := s.repo.UpdateSelection(ctx, entryID, !entry.IsSelected); err != nil {
		return nil, err
	}

	entry.IsSelected = !entry.IsSelected
	return entry, nil
}

// RemoveItem soft-deletes. Idempotent: removing an already-removed entry
// succeeds quietly.
func (s *CartService) RemoveItem(ctx context.Context, entryID int64) error {
	entry, err := s.repo.FindByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.IsRemoved {
		return nil
	}

	return s.repo.SoftDelete(ctx, entryID)
}

// ClearByRefs hard-deletes the entries that produced an order. Best-effort:
// rows already gone are not an error.
func (s *CartService) ClearByRefs(ctx context.Context, userID string, refs []domain.ItemRef) (int64, error) {
	return s.repo.DeleteByRefs(ctx, userID, refs)
}

func (s *CartService) Count(ctx context.Context, userID string) (int, error) {
	return s.repo.CountActive(ctx, userID)
}

// ListActive resolves the user's active entries against the catalog. Entries
// whose catalog item has since disappeared are skipped, not failed.
func (s *CartService) ListActive(ctx context.Context, userID string) ([]ResolvedEntry, error) {
	entries, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	resolved := make([]ResolvedEntry, 0, len(entries))
	for _, entry := range entries {
		item, err := s.resolver.Resolve(ctx, entry.Ref)
		if err != nil {
			if _, ok := errors.IsNotFoundError(err); ok {
				s.logger.Warn("cart entry references missing catalog item",
					zap.Int64("entryId", entry.ID),
					zap.String("ref", entry.Ref.String()),
				)
				continue
			}
			return nil, err
		}
		resolved = append(resolved, ResolvedEntry{
			Entry:     entry,
			Title:     item.Title,
			Image:     item.Image,
			UnitPrice: item.UnitPrice,
		})
	}

	return resolved, nil
}
