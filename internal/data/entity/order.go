package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	Base
	UserID            uuid.UUID       `db:"user_id"`
	Status            OrderStatus     `db:"status"`
	TotalPrice        decimal.Decimal `db:"total_price"`
	ShippingReference string          `db:"shipping_reference"`
}

// OrderLineItem snapshots the unit price at checkout
type OrderLineItem struct {
	BaseSimple
	OrderID   uuid.UUID       `db:"order_id"`
	ProductID uuid.UUID       `db:"product_id"`
	BranchID  uuid.UUID       `db:"branch_id"`
	Quantity  int             `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
}
