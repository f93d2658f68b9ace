package repository

import (
	"context"
	"fmt"

	"band-market/internal/data/entity"
	"band-market/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BandRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Band, error)
}

type bandRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBandRepository(db database.PgxIface, log *zap.Logger) BandRepository {
	return &bandRepository{
		db:  db,
		log: log.With(zap.String("repository", "band")),
	}
}

// FindByID returns nil for missing and soft-deleted bands alike
func (r *bandRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Band, error) {
	query := `
		SELECT id, name, manager_id, is_deleted, created_at, updated_at
		FROM bands
		WHERE id = $1 AND is_deleted = false
	`

	var band entity.Band
	err := r.db.QueryRow(ctx, query, id).Scan(
		&band.ID,
		&band.Name,
		&band.ManagerID,
		&band.IsDeleted,
		&band.CreatedAt,
		&band.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find band by ID",
			zap.Error(err),
			zap.String("band_id", id.String()),
		)
		return nil, fmt.Errorf("find band by ID %s: %w", id.String(), err)
	}

	return &band, nil
}
