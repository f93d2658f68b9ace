package response

import (
	"time"

	"band-market/internal/currency"
)

type OfferResponse struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	BandID      string         `json:"band_id"`
	BookingDate string         `json:"booking_date"`
	Description string         `json:"description"`
	Price       currency.Price `json:"price"`
	Status      string         `json:"status"`
	DateCreated time.Time      `json:"date_created"`
}
