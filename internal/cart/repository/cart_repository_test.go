package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitstore/internal/domain"
	"fitstore/internal/errors"
	"fitstore/internal/testutil"
)

func TestMySQLCartRepository_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLCartRepository(db)
	ctx := context.Background()

	t.Run("insert and find by id", func(t *testing.T) {
		id, err := repo.Insert(ctx, domain.CartEntry{
			UserID:     "user-1",
			Ref:        domain.ProductRef(1),
			Quantity:   1,
			IsSelected: true,
		})
		require.NoError(t, err)
		require.Greater(t, id, int64(0))

		entry, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "user-1", entry.UserID)
		assert.Equal(t, domain.ItemKindProduct, entry.Ref.Kind)
		assert.Equal(t, 1, entry.Ref.ID)
		assert.Equal(t, 1, entry.Quantity)
		assert.True(t, entry.IsSelected)
		assert.True(t, entry.IsActive)
	})

	t.Run("duplicate active entry rejected by unique index", func(t *testing.T) {
		_, err := repo.Insert(ctx, domain.CartEntry{
			UserID:   "user-1",
			Ref:      domain.ProductRef(1),
			Quantity: 1,
		})
		require.Error(t, err)
		_, ok := errors.IsDuplicateItemError(err)
		assert.True(t, ok, "expected DuplicateItemError, got %T", err)
	})

	t.Run("same item for another user is allowed", func(t *testing.T) {
		_, err := repo.Insert(ctx, domain.CartEntry{
			UserID:   "user-2",
			Ref:      domain.ProductRef(1),
			Quantity: 1,
		})
		assert.NoError(t, err)
	})

	t.Run("soft delete frees the slot for a re-add", func(t *testing.T) {
		entry, err := repo.FindActiveByRef(ctx, "user-1", domain.ProductRef(1))
		require.NoError(t, err)

		require.NoError(t, repo.SoftDelete(ctx, entry.ID))

		removed, err := repo.FindByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.False(t, removed.IsActive)
		assert.True(t, removed.IsRemoved)

		_, err = repo.FindActiveByRef(ctx, "user-1", domain.ProductRef(1))
		require.Error(t, err)
		_, ok := errors.IsNotFoundError(err)
		assert.True(t, ok)

		_, err = repo.Insert(ctx, domain.CartEntry{
			UserID:   "user-1",
			Ref:      domain.ProductRef(1),
			Quantity: 1,
		})
		assert.NoError(t, err, "re-adding after removal must not hit the unique index")
	})

	t.Run("update quantity on active entry", func(t *testing.T) {
		entry, err := repo.FindActiveByRef(ctx, "user-1", domain.ProductRef(1))
		require.NoError(t, err)

		require.NoError(t, repo.UpdateQuantity(ctx, entry.ID, 4))

		updated, err := repo.FindByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, updated.Quantity)
	})

	t.Run("update quantity to the same value succeeds", func(t *testing.T) {
		entry, err := repo.FindActiveByRef(ctx, "user-1", domain.ProductRef(1))
		require.NoError(t, err)

		require.NoError(t, repo.UpdateQuantity(ctx, entry.ID, entry.Quantity))

		unchanged, err := repo.FindByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, entry.Quantity, unchanged.Quantity)
	})

	t.Run("update quantity on missing entry returns not found", func(t *testing.T) {
		err := repo.UpdateQuantity(ctx, 99999, 2)
		require.Error(t, err)
		_, ok := errors.IsNotFoundError(err)
		assert.True(t, ok)
	})

	t.Run("count and list active", func(t *testing.T) {
		_, err := repo.Insert(ctx, domain.CartEntry{
			UserID:     "user-1",
			Ref:        domain.PackageRef(2),
			Quantity:   1,
			IsSelected: true,
		})
		require.NoError(t, err)

		count, err := repo.CountActive(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		entries, err := repo.ListActive(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("delete by refs removes only the named items", func(t *testing.T) {
		deleted, err := repo.DeleteByRefs(ctx, "user-1", []domain.ItemRef{
			domain.ProductRef(1),
			domain.PackageRef(2),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		count, err := repo.CountActive(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		otherCount, err := repo.CountActive(ctx, "user-2")
		require.NoError(t, err)
		assert.Equal(t, 1, otherCount, "other users' carts must be untouched")
	})

	t.Run("delete by refs with no refs is a no-op", func(t *testing.T) {
		deleted, err := repo.DeleteByRefs(ctx, "user-2", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(0), deleted)
	})
}
