package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"fitstore/internal/domain"
	"fitstore/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderColumns = `
	id, orderNumber, userId,
	shipName, shipPhone, shipAddressLine, shipCity, shipRegion, shipPostalCode,
	subtotal, shippingFee, tax, total,
	status, paymentStatus, paymentMethod, notes,
	deliveredAt, cancelledAt, createdAt, updatedAt
`

// Insert persists the order and its item snapshots in one transaction. A
// duplicate orderNumber surfaces as OrderNumberCollision so the builder can
// regenerate and retry.
func (r *MySQLOrderRepository) Insert(ctx context.Context, order domain.Order) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning order transaction: %w", err)
	}
	// MySQL ignores the rollback if the transaction already committed.
	defer tx.Rollback()

	insertOrder := `
		INSERT INTO Orders (
			orderNumber, userId,
			shipName, shipPhone, shipAddressLine, shipCity, shipRegion, shipPostalCode,
			subtotal, shippingFee, tax, total,
			status, paymentStatus, paymentMethod, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, insertOrder,
		order.OrderNumber, order.UserID,
		order.ShippingAddress.Name, order.ShippingAddress.Phone, order.ShippingAddress.AddressLine,
		order.ShippingAddress.City, order.ShippingAddress.Region, order.ShippingAddress.PostalCode,
		order.Subtotal, order.ShippingFee, order.Tax, order.Total,
		string(order.Status), string(order.PaymentStatus), order.PaymentMethod, order.Notes,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return 0, errors.NewOrderNumberCollisionError(
				fmt.Sprintf("order number %s already exists", order.OrderNumber),
			)
		}
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	orderID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	insertItem := `
		INSERT INTO OrderItems (orderId, refKind, refId, title, image, unitPrice, quantity)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, insertItem,
			orderID, string(item.Ref.Kind), item.Ref.ID,
			item.Title, item.Image, item.UnitPrice, item.Quantity,
		); err != nil {
			return 0, fmt.Errorf("inserting order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing order transaction: %w", err)
	}

	return orderID, nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE id = ?`

	order, err := r.scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	items, err := r.findItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (r *MySQLOrderRepository) FindByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE orderNumber = ?`

	order, err := r.scanOrder(r.db.QueryRowContext(ctx, query, orderNumber))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order %s not found", orderNumber))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by number: %w", err)
	}

	items, err := r.findItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// FindByUser returns lean rows, newest first. Items are not loaded on this
// path.
func (r *MySQLOrderRepository) FindByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE userId = ? ORDER BY createdAt DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying orders by user: %w", err)
	}
	defer rows.Close()

	return r.collectOrders(rows)
}

func (r *MySQLOrderRepository) List(ctx context.Context, page, perPage int) ([]domain.Order, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Orders`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	query := `SELECT ` + orderColumns + ` FROM Orders ORDER BY createdAt DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	orders, err := r.collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *MySQLOrderRepository) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	query := `UPDATE Orders SET paymentStatus = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("updating payment status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}

	return nil
}

func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, deliveredAt, cancelledAt *time.Time) error {
	query := `UPDATE Orders SET status = ?, deliveredAt = COALESCE(?, deliveredAt), cancelledAt = COALESCE(?, cancelledAt) WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, string(status), deliveredAt, cancelledAt, id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}

	return nil
}

func (r *MySQLOrderRepository) findItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	query := `
		SELECT id, orderId, refKind, refId, title, image, unitPrice, quantity
		FROM OrderItems
		WHERE orderId = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		var kind string
		if err := rows.Scan(
			&item.ID, &item.OrderID, &kind, &item.Ref.ID,
			&item.Title, &item.Image, &item.UnitPrice, &item.Quantity,
		); err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		item.Ref.Kind = domain.ItemKind(kind)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	return items, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *MySQLOrderRepository) scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var status, paymentStatus string

	err := row.Scan(
		&order.ID, &order.OrderNumber, &order.UserID,
		&order.ShippingAddress.Name, &order.ShippingAddress.Phone, &order.ShippingAddress.AddressLine,
		&order.ShippingAddress.City, &order.ShippingAddress.Region, &order.ShippingAddress.PostalCode,
		&order.Subtotal, &order.ShippingFee, &order.Tax, &order.Total,
		&status, &paymentStatus, &order.PaymentMethod, &order.Notes,
		&order.DeliveredAt, &order.CancelledAt, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Status = domain.OrderStatus(status)
	order.PaymentStatus = domain.PaymentStatus(paymentStatus)
	return &order, nil
}

func (r *MySQLOrderRepository) collectOrders(rows *sql.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}
	return orders, nil
}

func isDuplicateKeyError(err error) bool {
	if mysqlErr, ok := err.(*mysql.MySQLError); ok {
		return mysqlErr.Number == 1062
	}
	return false
}
