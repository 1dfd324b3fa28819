package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"fitstore/internal/domain"
	"fitstore/internal/errors"
)

type MySQLCartRepository struct {
	db *sql.DB
}

func NewMySQLCartRepository(db *sql.DB) *MySQLCartRepository {
	return &MySQLCartRepository{db: db}
}

// Insert creates an active entry. The unique index over
// (userId, refKind, refId, activeKey) is the race guard for concurrent adds
// of the same item: the loser surfaces as DuplicateItem.
func (r *MySQLCartRepository) Insert(ctx context.Context, entry domain.CartEntry) (int64, error) {
	query := `
		INSERT INTO CartEntries (userId, refKind, refId, quantity, isSelected, isActive, isRemoved, activeKey)
		VALUES (?, ?, ?, ?, ?, 1, 0, 1)
	`

	result, err := r.db.ExecContext(ctx, query,
		entry.UserID, string(entry.Ref.Kind), entry.Ref.ID, entry.Quantity, entry.IsSelected,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return 0, errors.NewDuplicateItemError(fmt.Sprintf("item %s is already in the cart", entry.Ref))
		}
		return 0, fmt.Errorf("inserting cart entry: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return lastInsertID, nil
}

// FindByID returns the entry regardless of its active flag, so removal can
// stay idempotent and quantity changes on removed entries can be rejected.
func (r *MySQLCartRepository) FindByID(ctx context.Context, id int64) (*domain.CartEntry, error) {
	query := `
		SELECT id, userId, refKind, refId, quantity, isSelected, isActive, isRemoved,
		       createdAt, updatedAt
		FROM CartEntries
		WHERE id = ?
	`

	var entry domain.CartEntry
	var kind string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&entry.ID, &entry.UserID, &kind, &entry.Ref.ID, &entry.Quantity,
		&entry.IsSelected, &entry.IsActive, &entry.IsRemoved,
		&entry.CreatedAt, &entry.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("cart entry with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying cart entry by id: %w", err)
	}

	entry.Ref.Kind = domain.ItemKind(kind)
	return &entry, nil
}

func (r *MySQLCartRepository) FindActiveByRef(ctx context.Context, userID string, ref domain.ItemRef) (*domain.CartEntry, error) {
	query := `
		SELECT id, userId, refKind, refId, quantity, isSelected, isActive, isRemoved,
		       createdAt, updatedAt
		FROM CartEntries
		WHERE userId = ? AND refKind = ? AND refId = ? AND isActive = 1
	`

	var entry domain.CartEntry
	var kind string
	err := r.db.QueryRowContext(ctx, query, userID, string(ref.Kind), ref.ID).Scan(
		&entry.ID, &entry.UserID, &kind, &entry.Ref.ID, &entry.Quantity,
		&entry.IsSelected, &entry.IsActive, &entry.IsRemoved,
		&entry.CreatedAt, &entry.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("no active cart entry for %s", ref))
	}
	if err != nil {
		return nil, fmt.Errorf("querying cart entry by ref: %w", err)
	}

	entry.Ref.Kind = domain.ItemKind(kind)
	return &entry, nil
}

func (r *MySQLCartRepository) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	query := `UPDATE CartEntries SET quantity = ? WHERE id = ? AND isActive = 1`

	result, err := r.db.ExecContext(ctx, query, quantity, id)
	if err != nil {
		return fmt.Errorf("updating cart entry quantity: %w", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("active cart entry with id %d not found", id))
	}

	return nil
}

func (r *MySQLCartRepository) UpdateSelection(ctx context.Context, id int64, selected bool) error {
	query := `UPDATE CartEntries SET isSelected = ? WHERE id = ? AND isActive = 1`

	_, err := r.db.ExecContext(ctx, query, selected, id)
	if err != nil {
		return fmt.Errorf("updating cart entry selection: %w", err)
	}

	return nil
}

// SoftDelete flips the entry inactive. activeKey goes NULL so the unique
// index no longer blocks re-adding the same item.
func (r *MySQLCartRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE CartEntries SET isActive = 0, isRemoved = 1, activeKey = NULL WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft-deleting cart entry: %w", err)
	}

	return nil
}

// DeleteByRefs hard-deletes the user's entries for the given refs. Used only
// as post-payment cleanup; best-effort, returns the number of rows removed.
func (r *MySQLCartRepository) DeleteByRefs(ctx context.Context, userID string, refs []domain.ItemRef) (int64, error) {
	if len(refs) == 0 {
		return 0, nil
	}

	conditions := make([]string, 0, len(refs))
	args := []interface{}{userID}
	for _, ref := range refs {
		conditions = append(conditions, "(refKind = ? AND refId = ?)")
		args = append(args, string(ref.Kind), ref.ID)
	}

	query := fmt.Sprintf(
		`DELETE FROM CartEntries WHERE userId = ? AND (%s)`,
		strings.Join(conditions, " OR "),
	)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting cart entries: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}

	return rows, nil
}

func (r *MySQLCartRepository) CountActive(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM CartEntries WHERE userId = ? AND isActive = 1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting cart entries: %w", err)
	}

	return count, nil
}

func (r *MySQLCartRepository) ListActive(ctx context.Context, userID string) ([]domain.CartEntry, error) {
	query := `
		SELECT id, userId, refKind, refId, quantity, isSelected, isActive, isRemoved,
		       createdAt, updatedAt
		FROM CartEntries
		WHERE userId = ? AND isActive = 1
		ORDER BY createdAt ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing cart entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.CartEntry
	for rows.Next() {
		var entry domain.CartEntry
		var kind string
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &kind, &entry.Ref.ID, &entry.Quantity,
			&entry.IsSelected, &entry.IsActive, &entry.IsRemoved,
			&entry.CreatedAt, &entry.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning cart entry row: %w", err)
		}
		entry.Ref.Kind = domain.ItemKind(kind)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cart entry rows: %w", err)
	}

	return entries, nil
}

func isDuplicateKeyError(err error) bool {
	if mysqlErr, ok := err.(*mysql.MySQLError); ok {
		return mysqlErr.Number == 1062
	}
	return false
}
