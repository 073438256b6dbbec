package stockrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/logger"
	"gostore/internal/repository/stockrepo"
)

const (
	variantID  = "7f1c1b38-8f57-4e0c-9d6a-111111111111"
	locationID = "7f1c1b38-8f57-4e0c-9d6a-222222222222"
	stockID    = "7f1c1b38-8f57-4e0c-9d6a-333333333333"
)

var stockCols = []string{"id", "variation_id", "location_id", "quantity", "version", "created_at", "updated_at"}

func newRepo(t *testing.T) (*stockrepo.StockRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return stockrepo.NewStockRepository(db, 5*time.Second, logger.NewNop()), mock
}

func TestUpdateStockLevel_DecrementsWithVersionCheck(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM stock_levels WHERE variation_id = \\$1 AND location_id = \\$2 FOR UPDATE").
		WithArgs(variantID, locationID).
		WillReturnRows(sqlmock.NewRows(stockCols).AddRow(stockID, variantID, locationID, 5, 3, now, now))
	mock.ExpectExec("UPDATE stock_levels").
		WithArgs(4, sqlmock.AnyArg(), stockID, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO stock_movements").
		WithArgs(sqlmock.AnyArg(), variantID, locationID, -1, 4, "Exchange #ex-1 - Outgoing", "ex-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	level, err := repo.UpdateStockLevel(context.Background(), domain.StockAdjustmentRequest{
		VariantID: variantID, LocationID: locationID, Delta: -1,
		Reason: "Exchange #ex-1 - Outgoing", ReferenceID: "ex-1",
	})

	require.NoError(t, err)
	assert.Equal(t, 4, level.Quantity)
	assert.Equal(t, 4, level.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStockLevel_RejectsNegativeResult(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM stock_levels").
		WillReturnRows(sqlmock.NewRows(stockCols).AddRow(stockID, variantID, locationID, 0, 1, now, now))
	mock.ExpectRollback()

	_, err := repo.UpdateStockLevel(context.Background(), domain.StockAdjustmentRequest{
		VariantID: variantID, LocationID: locationID, Delta: -1, Reason: "teste",
	})

	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStockLevel_CreatesRowOnFirstIncrement(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM stock_levels").WillReturnRows(sqlmock.NewRows(stockCols))
	mock.ExpectQuery("INSERT INTO stock_levels").
		WithArgs(sqlmock.AnyArg(), variantID, locationID, 1, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(stockCols).AddRow(stockID, variantID, locationID, 1, 1, now, now))
	mock.ExpectExec("INSERT INTO stock_movements").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	level, err := repo.UpdateStockLevel(context.Background(), domain.StockAdjustmentRequest{
		VariantID: variantID, LocationID: locationID, Delta: 1, Reason: "Exchange #ex-1 - Returned",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, level.Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStockLevel_VersionConflict(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM stock_levels").
		WillReturnRows(sqlmock.NewRows(stockCols).AddRow(stockID, variantID, locationID, 5, 3, now, now))
	mock.ExpectExec("UPDATE stock_levels").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.UpdateStockLevel(context.Background(), domain.StockAdjustmentRequest{
		VariantID: variantID, LocationID: locationID, Delta: 2, Reason: "recontagem",
	})

	var conflict *apperror.ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStockLevel_ZeroDeltaTouchesNothing(t *testing.T) {
	repo, mock := newRepo(t)

	_, err := repo.UpdateStockLevel(context.Background(), domain.StockAdjustmentRequest{
		VariantID: variantID, LocationID: locationID, Delta: 0,
	})

	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStockLevel_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM stock_levels").
		WithArgs(variantID, locationID).
		WillReturnRows(sqlmock.NewRows(stockCols))

	_, err := repo.GetStockLevel(context.Background(), variantID, locationID)
	assert.True(t, apperror.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMovements_ByReference(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery("FROM stock_movements WHERE reference_id = \\$1").
		WithArgs("ex-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "variation_id", "location_id", "delta", "quantity_after", "reason", "reference_id", "created_at"}).
			AddRow("m-1", variantID, locationID, -1, 4, "Exchange #ex-1 - Outgoing", "ex-1", now).
			AddRow("m-2", variantID, locationID, 1, 5, "Exchange #ex-1 - Returned", "ex-1", now))

	movements, err := repo.ListMovements(context.Background(), "ex-1")
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, -1, movements[0].Delta)
	assert.Equal(t, "Exchange #ex-1 - Returned", movements[1].Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}
