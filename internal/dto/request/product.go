package request

import "github.com/shopspring/decimal"

// CreateProductRequest is the "data" part of the multipart create form.
// Price is in Currency, or the canonical currency when Currency is empty.
type CreateProductRequest struct {
	BandID      string          `json:"band_id" validate:"required,uuid"`
	BranchID    string          `json:"branch_id" validate:"required,uuid"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Price       decimal.Decimal `json:"price" validate:"gt=0"`
	Currency    string          `json:"currency" validate:"omitempty,len=3"`
	Category    string          `json:"category" validate:"required,max=50"`
	Stock       *int            `json:"stock" validate:"required,gte=0"`
}

type UpdateProductRequest struct {
	BranchID      string          `json:"branch_id" validate:"required,uuid"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Description   string          `json:"description" validate:"max=5000"`
	Price         decimal.Decimal `json:"price" validate:"gt=0"`
	Currency      string          `json:"currency" validate:"omitempty,len=3"`
	Category      string          `json:"category" validate:"required,max=50"`
	Stock         *int            `json:"stock" validate:"required,gte=0"`
	KeptImages    []string        `json:"kept_images" validate:"omitempty,dive,url"`
	RemovedImages []string        `json:"removed_images" validate:"omitempty,dive,url"`
}

// UpdateStockRequest sets an absolute quantity; the ledger rejects negatives.
type UpdateStockRequest struct {
	BranchID string `json:"branch_id" validate:"required,uuid"`
	Quantity *int   `json:"quantity" validate:"required"`
}

type ProductListRequest struct {
	PaginatedRequest
	BandID   string `json:"band_id" validate:"omitempty,uuid"`
	Category string `json:"category" validate:"omitempty,max=50"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
}
