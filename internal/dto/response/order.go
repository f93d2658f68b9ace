package response

import (
	"time"

	"band-market/internal/currency"
)

type OrderResponse struct {
	ID                string              `json:"id"`
	Status            string              `json:"status"`
	Total             currency.Price      `json:"total"`
	ShippingReference string              `json:"shipping_reference"`
	Items             []OrderItemResponse `json:"items"`
	CreatedAt         time.Time           `json:"created_at"`
}

type OrderItemResponse struct {
	ProductID string         `json:"product_id"`
	BranchID  string         `json:"branch_id"`
	Quantity  int            `json:"quantity"`
	UnitPrice currency.Price `json:"unit_price"`
}
