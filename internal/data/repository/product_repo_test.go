package repository

import (
	"context"
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

func newProductMock(t *testing.T) (pgxmock.PgxPoolIface, ProductRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewProductRepository(mock, zap.NewNop())
}

func TestProduct_LockImages(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	lock := `SELECT images FROM products WHERE id = \$1 AND is_deleted = false FOR UPDATE`

	t.Run("live product", func(t *testing.T) {
		mock, repo := newProductMock(t)
		mock.ExpectQuery(lock).WithArgs(id).
			WillReturnRows(pgxmock.NewRows([]string{"images"}).AddRow([]string{"https://cdn.test/a.png"}))

		images, err := repo.LockImages(ctx, mock, id)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://cdn.test/a.png"}, images)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deleted meanwhile", func(t *testing.T) {
		mock, repo := newProductMock(t)
		mock.ExpectQuery(lock).WithArgs(id).WillReturnError(pgx.ErrNoRows)

		_, err := repo.LockImages(ctx, mock, id)
		assert.True(t, utils.IsKind(err, utils.KindNotFound))
	})
}

func TestProduct_UpdatePriceCheckIsValidation(t *testing.T) {
	mock, repo := newProductMock(t)
	mock.ExpectExec(`UPDATE products`).WillReturnError(&pgconn.PgError{Code: "23514"})

	product := &entity.Product{
		Base:  entity.Base{ID: uuid.New()},
		Name:  "Tour Shirt",
		Price: decimal.Zero,
	}

	err := repo.Update(context.Background(), mock, product)
	assert.True(t, utils.IsKind(err, utils.KindValidation), "got %v", err)
}
