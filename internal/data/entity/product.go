package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product price is always stored in the canonical currency.
type Product struct {
	Base
	BandID      uuid.UUID       `db:"band_id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Category    string          `db:"category"`
	Images      []string        `db:"images"`
	IsDeleted   bool            `db:"is_deleted"`
}

// InventoryRecord is keyed by (branch, product); quantity never drops below zero.
type InventoryRecord struct {
	BranchID  uuid.UUID `db:"branch_id"`
	ProductID uuid.UUID `db:"product_id"`
	Quantity  int       `db:"quantity"`
	UpdatedAt time.Time `db:"updated_at"`
}
