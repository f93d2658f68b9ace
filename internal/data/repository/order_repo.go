package repository

import (
	"context"
	"fmt"
	"time"

	"band-market/internal/data/entity"
	"band-market/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OrderRepository interface {
	Create(ctx context.Context, q database.Querier, order *entity.Order) error
	CreateLineItems(ctx context.Context, q database.Querier, items []*entity.OrderLineItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	FindLineItems(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderLineItem, error)
}

type orderRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOrderRepository(db database.PgxIface, log *zap.Logger) OrderRepository {
	return &orderRepository{
		db:  db,
		log: log.With(zap.String("repository", "order")),
	}
}

func (r *orderRepository) Create(ctx context.Context, q database.Querier, order *entity.Order) error {
	query := `
		INSERT INTO orders (id, user_id, status, total_price, shipping_reference, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := q.Exec(ctx, query,
		order.ID,
		order.UserID,
		order.Status,
		order.TotalPrice,
		order.ShippingReference,
		order.CreatedAt,
		order.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create order",
			zap.Error(err),
			zap.String("user_id", order.UserID.String()),
		)
		return fmt.Errorf("create order: %w", err)
	}

	return nil
}

// CreateLineItems inserts all items in one batch round trip
func (r *orderRepository) CreateLineItems(ctx context.Context, q database.Querier, items []*entity.OrderLineItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_line_items (id, order_id, product_id, branch_id, quantity, unit_price, created_at)
		SELECT * FROM UNNEST($1::uuid[], $2::uuid[], $3::uuid[], $4::uuid[], $5::int[], $6::numeric[], $7::timestamptz[])
	`

	var (
		ids        = make([]uuid.UUID, len(items))
		orderIDs   = make([]uuid.UUID, len(items))
		productIDs = make([]uuid.UUID, len(items))
		branchIDs  = make([]uuid.UUID, len(items))
		quantities = make([]int, len(items))
		prices     = make([]string, len(items))
		createdAts = make([]time.Time, len(items))
	)
	for i, item := range items {
		ids[i] = item.ID
		orderIDs[i] = item.OrderID
		productIDs[i] = item.ProductID
		branchIDs[i] = item.BranchID
		quantities[i] = item.Quantity
		prices[i] = item.UnitPrice.String()
		createdAts[i] = item.CreatedAt
	}

	_, err := q.Exec(ctx, query, ids, orderIDs, productIDs, branchIDs, quantities, prices, createdAts)
	if err != nil {
		r.log.Error("Failed to create order line items",
			zap.Error(err),
			zap.Int("count", len(items)),
		)
		return fmt.Errorf("create order line items: %w", err)
	}

	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	query := `
		SELECT id, user_id, status, total_price, shipping_reference, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order entity.Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.Status,
		&order.TotalPrice,
		&order.ShippingReference,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find order by ID",
			zap.Error(err),
			zap.String("order_id", id.String()),
		)
		return nil, fmt.Errorf("find order by ID %s: %w", id.String(), err)
	}

	return &order, nil
}

func (r *orderRepository) FindLineItems(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderLineItem, error) {
	query := `
		SELECT id, order_id, product_id, branch_id, quantity, unit_price, created_at
		FROM order_line_items
		WHERE order_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		r.log.Error("Failed to find order line items",
			zap.Error(err),
			zap.String("order_id", orderID.String()),
		)
		return nil, fmt.Errorf("find line items for order %s: %w", orderID.String(), err)
	}
	defer rows.Close()

	var items []*entity.OrderLineItem
	for rows.Next() {
		var item entity.OrderLineItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.BranchID,
			&item.Quantity,
			&item.UnitPrice,
			&item.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan order line item row", zap.Error(err))
			return nil, fmt.Errorf("scan order line item row: %w", err)
		}
		items = append(items, &item)
	}

	return items, rows.Err()
}
