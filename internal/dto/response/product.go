package response

import (
	"time"

	"band-market/internal/currency"
)

type ProductResponse struct {
	ID          string              `json:"id"`
	BandID      string              `json:"band_id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Price       currency.Price      `json:"price"`
	Category    string              `json:"category"`
	Images      []string            `json:"images"`
	Inventory   []InventoryResponse `json:"inventory,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type InventoryResponse struct {
	BranchID string `json:"branch_id"`
	Quantity int    `json:"quantity"`
}
