package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/adventio/giveaway-api/internal/models"
)

const productColumns = "id, calendar_id, name, description, image_url, value, created_at, updated_at"

// ProductRepository handles persistence for prize products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository instantiates a product repository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListByCalendar returns a calendar's products.
func (r *ProductRepository) ListByCalendar(ctx context.Context, calendarID string) ([]models.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE calendar_id = $1 ORDER BY created_at", productColumns)
	var products []models.Product
	if err := r.db.SelectContext(ctx, &products, query, calendarID); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ListByIDs loads products for a set of identifiers.
func (r *ProductRepository) ListByIDs(ctx context.Context, ids []string) (map[string]models.Product, error) {
	if len(ids) == 0 {
		return map[string]models.Product{}, nil
	}
	query, args, err := sqlx.In(fmt.Sprintf("SELECT %s FROM products WHERE id IN (?)", productColumns), ids)
	if err != nil {
		return nil, fmt.Errorf("build products query: %w", err)
	}
	query = r.db.Rebind(query)
	var products []models.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("list products by id: %w", err)
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

// FindByID loads a product by identifier.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns)
	var product models.Product
	if err := r.db.GetContext(ctx, &product, query, id); err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product record.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	const query = `INSERT INTO products (id, calendar_id, name, description, image_url, value, created_at, updated_at) VALUES (:id, :calendar_id, :name, :description, :image_url, :value, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, product); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// Update modifies an existing product.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now().UTC()
	const query = `UPDATE products SET name = :name, description = :description, image_url = :image_url, value = :value, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, product); err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Delete removes a product; doors referencing it fall back to no product.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
