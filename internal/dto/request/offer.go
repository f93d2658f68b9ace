package request

import "github.com/shopspring/decimal"

type CreateOfferRequest struct {
	BandID      string          `json:"band_id" validate:"required,uuid"`
	BookingDate string          `json:"booking_date" validate:"required,datetime=2006-01-02"`
	Description string          `json:"description" validate:"required,max=2000"`
	Price       decimal.Decimal `json:"price" validate:"gt=0"`
	Currency    string          `json:"currency" validate:"omitempty,len=3"`
}
