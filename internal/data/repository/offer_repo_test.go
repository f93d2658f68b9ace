package repository

import (
	"context"
	"errors"
	"testing"

	"band-market/internal/data/entity"
	"band-market/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newOfferMock(t *testing.T) (pgxmock.PgxPoolIface, OfferRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewOfferRepository(mock, zap.NewNop())
}

func TestOffer_ResolvePendingIsOneConditionalUpdate(t *testing.T) {
	ctx := context.Background()
	offerID, managerID := uuid.New(), uuid.New()
	resolve := `UPDATE booking_offers o SET status = \$2, updated_at = NOW\(\) FROM bands b WHERE o\.id = \$1 AND o\.status = 'pending'`

	t.Run("pending offer of own band", func(t *testing.T) {
		mock, repo := newOfferMock(t)
		mock.ExpectExec(resolve).
			WithArgs(offerID, entity.OfferStatusAccepted, managerID, false).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		ok, err := repo.ResolvePending(ctx, offerID, managerID, false, entity.OfferStatusAccepted)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lost race touches nothing", func(t *testing.T) {
		mock, repo := newOfferMock(t)
		mock.ExpectExec(resolve).
			WithArgs(offerID, entity.OfferStatusRejected, managerID, true).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		ok, err := repo.ResolvePending(ctx, offerID, managerID, true, entity.OfferStatusRejected)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("store failure", func(t *testing.T) {
		mock, repo := newOfferMock(t)
		mock.ExpectExec(resolve).WillReturnError(errors.New("connection reset"))

		_, err := repo.ResolvePending(ctx, offerID, managerID, false, entity.OfferStatusAccepted)
		assert.Error(t, err)
	})
}

func TestOffer_DeletePending(t *testing.T) {
	ctx := context.Background()
	offerID, userID := uuid.New(), uuid.New()

	mock, repo := newOfferMock(t)
	mock.ExpectExec(`DELETE FROM booking_offers WHERE id = \$1 AND user_id = \$2 AND status = 'pending'`).
		WithArgs(offerID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM booking_offers`).
		WithArgs(offerID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	ok, err := repo.DeletePending(ctx, offerID, userID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeletePending(ctx, offerID, userID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOffer_Inspect(t *testing.T) {
	ctx := context.Background()
	offerID, callerID := uuid.New(), uuid.New()

	t.Run("found", func(t *testing.T) {
		mock, repo := newOfferMock(t)
		mock.ExpectQuery(`SELECT o\.status, o\.user_id = \$2, b\.manager_id = \$2`).
			WithArgs(offerID, callerID).
			WillReturnRows(pgxmock.NewRows([]string{"status", "is_offerer", "is_manager"}).
				AddRow("accepted", true, false))

		access, err := repo.Inspect(ctx, offerID, callerID)
		require.NoError(t, err)
		require.NotNil(t, access)
		assert.Equal(t, entity.OfferStatusAccepted, access.Status)
		assert.True(t, access.IsOfferer)
		assert.False(t, access.IsManager)
	})

	t.Run("missing", func(t *testing.T) {
		mock, repo := newOfferMock(t)
		mock.ExpectQuery(`FROM booking_offers o`).
			WithArgs(offerID, callerID).
			WillReturnError(pgx.ErrNoRows)

		access, err := repo.Inspect(ctx, offerID, callerID)
		require.NoError(t, err)
		assert.Nil(t, access)
	})
}

func TestOffer_CreateClassifiesConstraintErrors(t *testing.T) {
	ctx := context.Background()
	offer := &entity.BookingOffer{
		ID:     uuid.New(),
		UserID: uuid.New(),
		BandID: uuid.New(),
		Price:  decimal.RequireFromString("0.00"),
		Status: entity.OfferStatusPending,
	}

	t.Run("price check", func(t *testing.T) {
		mock, repo := newOfferMock(t)
		mock.ExpectExec(`INSERT INTO booking_offers`).WillReturnError(&pgconn.PgError{Code: "23514"})

		err := repo.Create(ctx, offer)
		assert.True(t, utils.IsKind(err, utils.KindValidation), "got %v", err)
	})

	t.Run("unknown band", func(t *testing.T) {
		mock, repo := newOfferMock(t)
		mock.ExpectExec(`INSERT INTO booking_offers`).WillReturnError(&pgconn.PgError{Code: "23503"})

		err := repo.Create(ctx, offer)
		assert.True(t, utils.IsKind(err, utils.KindNotFound), "got %v", err)
	})
}
