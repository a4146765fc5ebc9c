package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jayjaytrn/storefront/models"
)

const productColumns = `p.id, p.name, p.description, p.unit_price, p.unit_weight, p.category_id, c.name`

func (m *Manager) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := m.Db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN categories c ON c.id = p.category_id
		ORDER BY p.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err = rows.Scan(&p.ID, &p.Name, &p.Description, &p.UnitPrice, &p.UnitWeight,
			&p.CategoryID, &p.CategoryName); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}

	return products, nil
}

func (m *Manager) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := m.Db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.UnitPrice, &p.UnitWeight, &p.CategoryID, &p.CategoryName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &p, nil
}

func (m *Manager) CreateProduct(ctx context.Context, req models.ProductCreateRequest) (*models.Product, error) {
	var id int64
	err := m.Db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, unit_price, unit_weight, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, req.Name, req.Description, req.UnitPrice, req.UnitWeight, req.CategoryID).Scan(&id)
	if err != nil {
		if pgErrorCode(err) == foreignKeyViolation {
			return nil, fmt.Errorf("%w: category %d does not exist", models.ErrInvalidReference, req.CategoryID)
		}
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	return m.GetProduct(ctx, id)
}

// UpdateProduct changes only the fields set in req.
func (m *Manager) UpdateProduct(ctx context.Context, id int64, req models.ProductUpdateRequest) (*models.Product, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.Description != nil {
		set("description", *req.Description)
	}
	if req.UnitPrice != nil {
		set("unit_price", *req.UnitPrice)
	}
	if req.UnitWeight != nil {
		set("unit_weight", *req.UnitWeight)
	}
	if req.CategoryID != nil {
		set("category_id", *req.CategoryID)
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", models.ErrValidation)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d RETURNING id`, strings.Join(sets, ", "), len(args))

	err := m.Db.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		if pgErrorCode(err) == foreignKeyViolation {
			return nil, fmt.Errorf("%w: category %d does not exist", models.ErrInvalidReference, *req.CategoryID)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return m.GetProduct(ctx, id)
}

func (m *Manager) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := m.Db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err = rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}

	return categories, nil
}

func (m *Manager) ListStatuses(ctx context.Context) ([]models.StatusName, error) {
	rows, err := m.Db.QueryContext(ctx, `SELECT id, name FROM order_statuses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query statuses: %w", err)
	}
	defer rows.Close()

	statuses := []models.StatusName{}
	for rows.Next() {
		var s models.StatusName
		if err = rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan status: %w", err)
		}
		statuses = append(statuses, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read statuses: %w", err)
	}

	return statuses, nil
}
