package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "pending"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusRejected OfferStatus = "rejected"
)

// BookingOffer is removed outright when its offerer retracts it.
type BookingOffer struct {
	ID          uuid.UUID       `db:"id"`
	UserID      uuid.UUID       `db:"user_id"`
	BandID      uuid.UUID       `db:"band_id"`
	BookingDate time.Time       `db:"booking_date"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Status      OfferStatus     `db:"status"`
	DateCreated time.Time       `db:"date_created"`
	UpdatedAt   time.Time       `db:"updated_at"`
}
