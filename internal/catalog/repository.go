package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"fitstore/internal/domain"
	"fitstore/internal/errors"
)

type MySQLCatalogRepository struct {
	db *sql.DB
}

func NewMySQLCatalogRepository(db *sql.DB) *MySQLCatalogRepository {
	return &MySQLCatalogRepository{db: db}
}

func (r *MySQLCatalogRepository) FindProductByID(ctx context.Context, id int) (*domain.Product, error) {
	query := `
		SELECT id, name, description, price, stock, image, category,
		       isActive, isDeleted, createdAt, updatedAt
		FROM Products
		WHERE id = ? AND isDeleted = 0
	`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Image,
		&p.Category, &p.IsActive, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}

	return &p, nil
}

func (r *MySQLCatalogRepository) FindPackageByID(ctx context.Context, id int) (*domain.Package, error) {
	query := `
		SELECT id, name, description, price, image, isActive, createdAt, updatedAt
		FROM Packages
		WHERE id = ?
	`

	var p domain.Package
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Image,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("package with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying package by id: %w", err)
	}

	return &p, nil
}

func (r *MySQLCatalogRepository) FindTrainingByID(ctx context.Context, id int) (*domain.TrainingProgram, error) {
	query := `
		SELECT id, title, price, image, durationWeeks, isActive, createdAt, updatedAt
		FROM TrainingPrograms
		WHERE id = ?
	`

	var t domain.TrainingProgram
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.Price, &t.Image, &t.DurationWeeks,
		&t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("training program with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying training program by id: %w", err)
	}

	return &t, nil
}

func (r *MySQLCatalogRepository) ListProducts(ctx context.Context, page, perPage int) ([]domain.Product, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM Products WHERE isActive = 1 AND isDeleted = 0`
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	query := `
		SELECT id, name, description, price, stock, image, category,
		       isActive, isDeleted, createdAt, updatedAt
		FROM Products
		WHERE isActive = 1 AND isDeleted = 0
		ORDER BY createdAt DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Image,
			&p.Category, &p.IsActive, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, total, nil
}

func (r *MySQLCatalogRepository) ListPackages(ctx context.Context) ([]domain.Package, error) {
	query := `
		SELECT id, name, description, price, image, isActive, createdAt, updatedAt
		FROM Packages
		WHERE isActive = 1
		ORDER BY createdAt DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing packages: %w", err)
	}
	defer rows.Close()

	var packages []domain.Package
	for rows.Next() {
		var p domain.Package
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Image,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning package row: %w", err)
		}
		packages = append(packages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating package rows: %w", err)
	}

	return packages, nil
}

func (r *MySQLCatalogRepository) ListTrainings(ctx context.Context) ([]domain.TrainingProgram, error) {
	query := `
		SELECT id, title, price, image, durationWeeks, isActive, createdAt, updatedAt
		FROM TrainingPrograms
		WHERE isActive = 1
		ORDER BY createdAt DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing training programs: %w", err)
	}
	defer rows.Close()

	var trainings []domain.TrainingProgram
	for rows.Next() {
		var t domain.TrainingProgram
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Price, &t.Image, &t.DurationWeeks,
			&t.IsActive, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning training program row: %w", err)
		}
		trainings = append(trainings, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating training program rows: %w", err)
	}

	return trainings, nil
}
