package request

type PlaceOrderRequest struct {
	Items             []OrderItemRequest `json:"items" validate:"required,min=1,max=50,dive"`
	ShippingReference string             `json:"shipping_reference" validate:"required,max=200"`
}

type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	BranchID  string `json:"branch_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0,max=1000"`
}
