package repository

import (
	"context"
	"testing"

	"band-market/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newInventoryMock(t *testing.T) (pgxmock.PgxPoolIface, InventoryRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewInventoryRepository(zap.NewNop())
}

// Concurrent adds of 5 and 3 must end at 8. Postgres serializes the upsert on
// the row, so it holds as long as AddStock stays one statement; this checks the
// statement shape, inventory_integration_test.go runs it against a database.
func TestInventory_AddStockIsSingleIncrementUpsert(t *testing.T) {
	mock, repo := newInventoryMock(t)
	ctx := context.Background()
	productID, branchID := uuid.New(), uuid.New()

	upsert := `ON CONFLICT \(branch_id, product_id\) DO UPDATE SET quantity = inventory\.quantity \+ EXCLUDED\.quantity`
	mock.ExpectQuery(upsert).
		WithArgs(branchID, productID, 5).
		WillReturnRows(pgxmock.NewRows([]string{"quantity"}).AddRow(5))
	mock.ExpectQuery(upsert).
		WithArgs(branchID, productID, 3).
		WillReturnRows(pgxmock.NewRows([]string{"quantity"}).AddRow(8))

	qty, err := repo.AddStock(ctx, mock, productID, branchID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, qty)

	qty, err = repo.AddStock(ctx, mock, productID, branchID, 3)
	require.NoError(t, err)
	assert.Equal(t, 8, qty)

	// no read-modify-write: nothing but the two upserts hit the store
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventory_AddStockUnknownBranch(t *testing.T) {
	mock, repo := newInventoryMock(t)

	mock.ExpectQuery(`INSERT INTO inventory`).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := repo.AddStock(context.Background(), mock, uuid.New(), uuid.New(), 1)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventory_SetStock(t *testing.T) {
	ctx := context.Background()
	productID, branchID := uuid.New(), uuid.New()

	t.Run("absolute overwrite", func(t *testing.T) {
		mock, repo := newInventoryMock(t)

		mock.ExpectExec(`DO UPDATE SET quantity = EXCLUDED\.quantity`).
			WithArgs(branchID, productID, 12).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.SetStock(ctx, mock, productID, branchID, 12))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative is rejected before any statement", func(t *testing.T) {
		mock, repo := newInventoryMock(t)

		err := repo.SetStock(ctx, mock, productID, branchID, -1)
		assert.True(t, utils.IsKind(err, utils.KindValidation))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestInventory_GetStock(t *testing.T) {
	ctx := context.Background()
	productID, branchID := uuid.New(), uuid.New()

	t.Run("existing record", func(t *testing.T) {
		mock, repo := newInventoryMock(t)
		mock.ExpectQuery(`SELECT quantity FROM inventory`).
			WithArgs(branchID, productID).
			WillReturnRows(pgxmock.NewRows([]string{"quantity"}).AddRow(7))

		qty, err := repo.GetStock(ctx, mock, productID, branchID)
		require.NoError(t, err)
		assert.Equal(t, 7, qty)
	})

	t.Run("missing record is zero", func(t *testing.T) {
		mock, repo := newInventoryMock(t)
		mock.ExpectQuery(`SELECT quantity FROM inventory`).
			WithArgs(branchID, productID).
			WillReturnError(pgx.ErrNoRows)

		qty, err := repo.GetStock(ctx, mock, productID, branchID)
		require.NoError(t, err)
		assert.Equal(t, 0, qty)
	})
}

func TestInventory_DeductStock(t *testing.T) {
	ctx := context.Background()
	productID, branchID := uuid.New(), uuid.New()

	t.Run("enough stock", func(t *testing.T) {
		mock, repo := newInventoryMock(t)
		mock.ExpectExec(`SET quantity = quantity - \$3`).
			WithArgs(branchID, productID, 2).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.DeductStock(ctx, mock, productID, branchID, 2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insufficient stock is a conflict", func(t *testing.T) {
		mock, repo := newInventoryMock(t)
		mock.ExpectExec(`AND quantity >= \$3`).
			WithArgs(branchID, productID, 50).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.DeductStock(ctx, mock, productID, branchID, 50)
		assert.True(t, utils.IsKind(err, utils.KindConflict))
	})

	t.Run("non positive quantity", func(t *testing.T) {
		mock, repo := newInventoryMock(t)

		err := repo.DeductStock(ctx, mock, productID, branchID, 0)
		assert.True(t, utils.IsKind(err, utils.KindValidation))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
