package repository

import (
	"context"
	"errors"
	"fmt"

	"band-market/internal/data/entity"
	"band-market/pkg/database"
	"band-market/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// OfferAccess describes how a caller relates to an offer, read after a
// conditional write touched no rows.
type OfferAccess struct {
	Status    entity.OfferStatus
	IsOfferer bool
	IsManager bool
}

type OfferRepository interface {
	Create(ctx context.Context, offer *entity.BookingOffer) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.BookingOffer, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.BookingOffer, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	FindByBandID(ctx context.Context, bandID uuid.UUID, limit, offset int) ([]*entity.BookingOffer, error)
	CountByBandID(ctx context.Context, bandID uuid.UUID) (int64, error)

	// State transitions. Each is a single conditional statement; false means
	// no row matched and the caller should Inspect to learn why.
	ResolvePending(ctx context.Context, offerID, managerID uuid.UUID, anyBand bool, status entity.OfferStatus) (bool, error)
	DeletePending(ctx context.Context, offerID, userID uuid.UUID) (bool, error)
	Inspect(ctx context.Context, offerID, callerID uuid.UUID) (*OfferAccess, error)
}

type offerRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOfferRepository(db database.PgxIface, log *zap.Logger) OfferRepository {
	return &offerRepository{
		db:  db,
		log: log.With(zap.String("repository", "offer")),
	}
}

func (r *offerRepository) Create(ctx context.Context, offer *entity.BookingOffer) error {
	query := `
		INSERT INTO booking_offers (id, user_id, band_id, booking_date, description, price, status, date_created, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		offer.ID,
		offer.UserID,
		offer.BandID,
		offer.BookingDate,
		offer.Description,
		offer.Price,
		offer.Status,
		offer.DateCreated,
		offer.UpdatedAt,
	)

	if err != nil {
		switch database.PgErrorCode(err) {
		case database.CodeForeignKeyViolation:
			return utils.ErrNotFound("band not found")
		case database.CodeCheckViolation:
			return utils.ErrValidation("price must be greater than 0")
		}
		r.log.Error("Failed to create offer",
			zap.Error(err),
			zap.String("user_id", offer.UserID.String()),
			zap.String("band_id", offer.BandID.String()),
		)
		return fmt.Errorf("create offer: %w", err)
	}

	return nil
}

const offerColumns = `id, user_id, band_id, booking_date, description, price, status, date_created, updated_at`

func scanOffer(row pgx.Row) (*entity.BookingOffer, error) {
	var o entity.BookingOffer
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.BandID,
		&o.BookingDate,
		&o.Description,
		&o.Price,
		&o.Status,
		&o.DateCreated,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *offerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.BookingOffer, error) {
	query := `SELECT ` + offerColumns + ` FROM booking_offers WHERE id = $1`

	offer, err := scanOffer(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find offer by ID",
			zap.Error(err),
			zap.String("offer_id", id.String()),
		)
		return nil, fmt.Errorf("find offer by ID %s: %w", id.String(), err)
	}

	return offer, nil
}

func (r *offerRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.BookingOffer, error) {
	query := `
		SELECT ` + offerColumns + `
		FROM booking_offers
		WHERE user_id = $1
		ORDER BY date_created DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, "user_id", userID, limit, offset)
}

func (r *offerRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM booking_offers WHERE user_id = $1`, "user_id", userID)
}

func (r *offerRepository) FindByBandID(ctx context.Context, bandID uuid.UUID, limit, offset int) ([]*entity.BookingOffer, error) {
	query := `
		SELECT ` + offerColumns + `
		FROM booking_offers
		WHERE band_id = $1
		ORDER BY booking_date, date_created
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, "band_id", bandID, limit, offset)
}

func (r *offerRepository) CountByBandID(ctx context.Context, bandID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM booking_offers WHERE band_id = $1`, "band_id", bandID)
}

func (r *offerRepository) list(ctx context.Context, query, key string, id uuid.UUID, limit, offset int) ([]*entity.BookingOffer, error) {
	rows, err := r.db.Query(ctx, query, id, limit, offset)
	if err != nil {
		r.log.Error("Failed to list offers",
			zap.Error(err),
			zap.String(key, id.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("list offers by %s %s: %w", key, id.String(), err)
	}
	defer rows.Close()

	var offers []*entity.BookingOffer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			r.log.Error("Failed to scan offer row", zap.Error(err))
			return nil, fmt.Errorf("scan offer row: %w", err)
		}
		offers = append(offers, offer)
	}

	return offers, rows.Err()
}

func (r *offerRepository) count(ctx context.Context, query, key string, id uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, query, id).Scan(&count); err != nil {
		r.log.Error("Failed to count offers", zap.Error(err), zap.String(key, id.String()))
		return 0, fmt.Errorf("count offers by %s %s: %w", key, id.String(), err)
	}
	return count, nil
}

// ResolvePending moves a pending offer to status. The manager predicate is
// part of the statement, so check and write cannot interleave with another
// resolver. anyBand drops the manager predicate for admins.
func (r *offerRepository) ResolvePending(ctx context.Context, offerID, managerID uuid.UUID, anyBand bool, status entity.OfferStatus) (bool, error) {
	query := `
		UPDATE booking_offers o
		SET status = $2, updated_at = NOW()
		FROM bands b
		WHERE o.id = $1
		  AND o.status = 'pending'
		  AND b.id = o.band_id
		  AND ($4::boolean OR b.manager_id = $3)
	`

	result, err := r.db.Exec(ctx, query, offerID, status, managerID, anyBand)
	if err != nil {
		r.log.Error("Failed to resolve offer",
			zap.Error(err),
			zap.String("offer_id", offerID.String()),
			zap.String("status", string(status)),
		)
		return false, fmt.Errorf("resolve offer %s to %s: %w", offerID.String(), string(status), err)
	}

	return result.RowsAffected() == 1, nil
}

// DeletePending removes the offer only while pending and only for its offerer.
func (r *offerRepository) DeletePending(ctx context.Context, offerID, userID uuid.UUID) (bool, error) {
	query := `DELETE FROM booking_offers WHERE id = $1 AND user_id = $2 AND status = 'pending'`

	result, err := r.db.Exec(ctx, query, offerID, userID)
	if err != nil {
		r.log.Error("Failed to delete offer",
			zap.Error(err),
			zap.String("offer_id", offerID.String()),
		)
		return false, fmt.Errorf("delete offer %s: %w", offerID.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *offerRepository) Inspect(ctx context.Context, offerID, callerID uuid.UUID) (*OfferAccess, error) {
	query := `
		SELECT o.status, o.user_id = $2, b.manager_id = $2
		FROM booking_offers o
		JOIN bands b ON b.id = o.band_id
		WHERE o.id = $1
	`

	var (
		access OfferAccess
		status string
	)
	err := r.db.QueryRow(ctx, query, offerID, callerID).Scan(&status, &access.IsOfferer, &access.IsManager)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to inspect offer",
			zap.Error(err),
			zap.String("offer_id", offerID.String()),
		)
		return nil, fmt.Errorf("inspect offer %s: %w", offerID.String(), err)
	}

	access.Status = entity.OfferStatus(status)
	return &access, nil
}
