package repository

import (
	"context"
	"errors"
	"fmt"

	"band-market/internal/data/entity"
	"band-market/pkg/database"
	"band-market/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// InventoryRepository is the stock ledger. Every method runs on the Querier it
// is handed, so callers decide whether it joins their transaction.
type InventoryRepository interface {
	AddStock(ctx context.Context, q database.Querier, productID, branchID uuid.UUID, delta int) (int, error)
	SetStock(ctx context.Context, q database.Querier, productID, branchID uuid.UUID, quantity int) error
	GetStock(ctx context.Context, q database.Querier, productID, branchID uuid.UUID) (int, error)
	DeductStock(ctx context.Context, q database.Querier, productID, branchID uuid.UUID, quantity int) error
	ListByProduct(ctx context.Context, q database.Querier, productID uuid.UUID) ([]*entity.InventoryRecord, error)
}

type inventoryRepository struct {
	log *zap.Logger
}

func NewInventoryRepository(log *zap.Logger) InventoryRepository {
	return &inventoryRepository{
		log: log.With(zap.String("repository", "inventory")),
	}
}

// AddStock increments in one statement so concurrent adds never lose an update.
func (r *inventoryRepository) AddStock(ctx context.Context, q database.Querier, productID, branchID uuid.UUID, delta int) (int, error) {
	query := `
		INSERT INTO inventory (branch_id, product_id, quantity, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (branch_id, product_id)
		DO UPDATE SET quantity = inventory.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING quantity
	`

	var quantity int
	err := q.QueryRow(ctx, query, branchID, productID, delta).Scan(&quantity)
	if err != nil {
		return 0, r.classify(err, "add stock", productID, branchID)
	}

	return quantity, nil
}

func (r *inventoryRepository) SetStock(ctx context.Context, q database.Querier, productID, branchID uuid.UUID, quantity int) error {
	if quantity < 0 {
		return utils.ErrValidation("stock quantity cannot be negative")
	}

	query := `
		INSERT INTO inventory (branch_id, product_id, quantity, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (branch_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, branchID, productID, quantity); err != nil {
		return r.classify(err, "set stock", productID, branchID)
	}

	return nil
}

// GetStock treats a missing record as zero stock
func (r *inventoryRepository) GetStock(ctx context.Context, q database.Querier, productID, branchID uuid.UUID) (int, error) {
	query := `SELECT quantity FROM inventory WHERE branch_id = $1 AND product_id = $2`

	var quantity int
	err := q.QueryRow(ctx, query, branchID, productID).Scan(&quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		r.log.Error("Failed to get stock",
			zap.Error(err),
			zap.String("product_id", productID.String()),
			zap.String("branch_id", branchID.String()),
		)
		return 0, fmt.Errorf("get stock for product %s: %w", productID.String(), err)
	}

	return quantity, nil
}

// DeductStock is the only downward delta; it fails instead of going negative.
func (r *inventoryRepository) DeductStock(ctx context.Context, q database.Querier, productID, branchID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return utils.ErrValidation("quantity to deduct must be positive")
	}

	query := `
		UPDATE inventory
		SET quantity = quantity - $3, updated_at = NOW()
		WHERE branch_id = $1 AND product_id = $2 AND quantity >= $3
	`

	result, err := q.Exec(ctx, query, branchID, productID, quantity)
	if err != nil {
		return r.classify(err, "deduct stock", productID, branchID)
	}

	if result.RowsAffected() == 0 {
		return utils.ErrConflict(fmt.Sprintf("insufficient stock for product %s", productID.String()))
	}

	return nil
}

func (r *inventoryRepository) ListByProduct(ctx context.Context, q database.Querier, productID uuid.UUID) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT branch_id, product_id, quantity, updated_at
		FROM inventory
		WHERE product_id = $1
		ORDER BY branch_id
	`

	rows, err := q.Query(ctx, query, productID)
	if err != nil {
		r.log.Error("Failed to list inventory",
			zap.Error(err),
			zap.String("product_id", productID.String()),
		)
		return nil, fmt.Errorf("list inventory for product %s: %w", productID.String(), err)
	}
	defer rows.Close()

	var records []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(&rec.BranchID, &rec.ProductID, &rec.Quantity, &rec.UpdatedAt); err != nil {
			r.log.Error("Failed to scan inventory row", zap.Error(err))
			return nil, fmt.Errorf("scan inventory row: %w", err)
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

func (r *inventoryRepository) classify(err error, op string, productID, branchID uuid.UUID) error {
	switch database.PgErrorCode(err) {
	case database.CodeForeignKeyViolation:
		return utils.ErrNotFound("product or branch not found")
	case database.CodeCheckViolation:
		return utils.ErrValidation("stock quantity cannot be negative")
	}

	r.log.Error("Failed to "+op,
		zap.Error(err),
		zap.String("product_id", productID.String()),
		zap.String("branch_id", branchID.String()),
	)
	return fmt.Errorf("%s for product %s at branch %s: %w", op, productID.String(), branchID.String(), err)
}
