package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"band-market/internal/data/entity"
	"band-market/pkg/database"
	"band-market/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ProductFilter struct {
	BandID   *uuid.UUID
	Category *string
}

type ProductRepository interface {
	Create(ctx context.Context, q database.Querier, product *entity.Product) error
	Update(ctx context.Context, q database.Querier, product *entity.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// FindWithManager returns the live product and the manager of its band.
	FindWithManager(ctx context.Context, id uuid.UUID) (*entity.Product, uuid.UUID, error)
	// LockImages reads the live product's images with a row lock held until q commits.
	LockImages(ctx context.Context, q database.Querier, id uuid.UUID) ([]string, error)
	FindLiveByIDs(ctx context.Context, q database.Querier, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error)
	FindAll(ctx context.Context, offset, limit int, filter ProductFilter) ([]*entity.Product, error)
	CountAll(ctx context.Context, filter ProductFilter) (int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type productRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewProductRepository(db database.PgxIface, log *zap.Logger) ProductRepository {
	return &productRepository{
		db:  db,
		log: log.With(zap.String("repository", "product")),
	}
}

const productColumns = `p.id, p.band_id, p.name, p.description, p.price, p.category, p.images, p.is_deleted, p.created_at, p.updated_at`

func scanProduct(row pgx.Row, extra ...any) (*entity.Product, error) {
	var p entity.Product
	dest := []any{
		&p.ID,
		&p.BandID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category,
		&p.Images,
		&p.IsDeleted,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, q database.Querier, product *entity.Product) error {
	query := `
		INSERT INTO products (id, band_id, name, description, price, category, images, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8, $9)
	`

	_, err := q.Exec(ctx, query,
		product.ID,
		product.BandID,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		product.Images,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		switch database.PgErrorCode(err) {
		case database.CodeForeignKeyViolation:
			return utils.ErrNotFound("band not found")
		case database.CodeCheckViolation:
			return utils.ErrValidation("price must be greater than 0")
		}
		r.log.Error("Failed to create product",
			zap.Error(err),
			zap.String("band_id", product.BandID.String()),
			zap.String("name", product.Name),
		)
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r *productRepository) Update(ctx context.Context, q database.Querier, product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, category = $5, images = $6, updated_at = $7
		WHERE id = $1 AND is_deleted = false
	`

	result, err := q.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		product.Images,
		product.UpdatedAt,
	)

	if err != nil {
		if database.PgErrorCode(err) == database.CodeCheckViolation {
			return utils.ErrValidation("price must be greater than 0")
		}
		r.log.Error("Failed to update product",
			zap.Error(err),
			zap.String("product_id", product.ID.String()),
		)
		return fmt.Errorf("update product %s: %w", product.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return utils.ErrNotFound("product not found")
	}

	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1 AND p.is_deleted = false`

	product, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find product by ID",
			zap.Error(err),
			zap.String("product_id", id.String()),
		)
		return nil, fmt.Errorf("find product by ID %s: %w", id.String(), err)
	}

	return product, nil
}

func (r *productRepository) FindWithManager(ctx context.Context, id uuid.UUID) (*entity.Product, uuid.UUID, error) {
	query := `
		SELECT ` + productColumns + `, b.manager_id
		FROM products p
		JOIN bands b ON b.id = p.band_id
		WHERE p.id = $1 AND p.is_deleted = false AND b.is_deleted = false
	`

	var managerID uuid.UUID
	product, err := scanProduct(r.db.QueryRow(ctx, query, id), &managerID)
	if err == pgx.ErrNoRows {
		return nil, uuid.Nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find product with manager",
			zap.Error(err),
			zap.String("product_id", id.String()),
		)
		return nil, uuid.Nil, fmt.Errorf("find product %s with manager: %w", id.String(), err)
	}

	return product, managerID, nil
}

func (r *productRepository) LockImages(ctx context.Context, q database.Querier, id uuid.UUID) ([]string, error) {
	query := `SELECT images FROM products WHERE id = $1 AND is_deleted = false FOR UPDATE`

	var images []string
	err := q.QueryRow(ctx, query, id).Scan(&images)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, utils.ErrNotFound("product not found")
	}
	if err != nil {
		r.log.Error("Failed to lock product images", zap.Error(err), zap.String("product_id", id.String()))
		return nil, fmt.Errorf("lock product %s: %w", id.String(), err)
	}

	return images, nil
}

func (r *productRepository) FindLiveByIDs(ctx context.Context, q database.Querier, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = ANY($1) AND p.is_deleted = false`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to find products by IDs", zap.Error(err), zap.Int("count", len(ids)))
		return nil, fmt.Errorf("find products by IDs: %w", err)
	}
	defer rows.Close()

	products := make(map[uuid.UUID]*entity.Product, len(ids))
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			r.log.Error("Failed to scan product row", zap.Error(err))
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products[product.ID] = product
	}

	return products, rows.Err()
}

func (r *productRepository) FindAll(ctx context.Context, offset, limit int, filter ProductFilter) ([]*entity.Product, error) {
	where, args := filter.where()
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		WHERE %s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d
	`, productColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find products",
			zap.Error(err),
			zap.Int("offset", offset),
			zap.Int("limit", limit),
		)
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			r.log.Error("Failed to scan product row", zap.Error(err))
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

func (r *productRepository) CountAll(ctx context.Context, filter ProductFilter) (int64, error) {
	where, args := filter.where()
	query := `SELECT COUNT(*) FROM products p WHERE ` + where

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count products", zap.Error(err))
		return 0, fmt.Errorf("count products: %w", err)
	}

	return count, nil
}

// SoftDelete hides the product; its inventory rows are left alone.
func (r *productRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE products SET is_deleted = true, updated_at = NOW() WHERE id = $1 AND is_deleted = false`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to soft delete product",
			zap.Error(err),
			zap.String("product_id", id.String()),
		)
		return fmt.Errorf("soft delete product %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return utils.ErrNotFound("product not found")
	}

	r.log.Info("Product soft deleted", zap.String("product_id", id.String()))
	return nil
}

func (f ProductFilter) where() (string, []any) {
	conditions := []string{"p.is_deleted = false"}
	var args []any

	if f.BandID != nil {
		args = append(args, *f.BandID)
		conditions = append(conditions, fmt.Sprintf("p.band_id = $%d", len(args)))
	}
	if f.Category != nil {
		args = append(args, *f.Category)
		conditions = append(conditions, fmt.Sprintf("p.category = $%d", len(args)))
	}

	return strings.Join(conditions, " AND "), args
}
