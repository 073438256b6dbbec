package warrantyrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/logger"
	"gostore/internal/repository/warrantyrepo"
)

const typeID = "1e2d3c4b-5a69-4788-9a0b-dddddddddddd"

func TestTypeFindByID_DecodesCoverage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := warrantyrepo.NewTypeRepository(db, time.Second, logger.NewNop())
	now := time.Now()

	mock.ExpectQuery("FROM warranty_types WHERE id = \\$1").WithArgs(typeID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "duration_months", "coverage", "created_at", "updated_at"}).
			AddRow(typeID, "Vitalícia", "", 0, []byte(`{"parts":true,"labor":false,"accidental":false,"exclusions":["água"]}`), now, now))

	wt, err := repo.FindByID(context.Background(), typeID)

	require.NoError(t, err)
	assert.True(t, wt.IsLifetime())
	assert.True(t, wt.Coverage.Parts)
	assert.Equal(t, []string{"água"}, wt.Coverage.Exclusions)
}

func TestTypeDelete_InUseIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := warrantyrepo.NewTypeRepository(db, time.Second, logger.NewNop())

	mock.ExpectExec("DELETE FROM warranty_types").WithArgs(typeID).WillReturnError(&pq.Error{Code: "23503"})

	err = repo.Delete(context.Background(), typeID)

	assert.IsType(t, &apperror.ConflictError{}, err)
}

func TestWarrantySave_LifetimeWritesNullEndDate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := warrantyrepo.NewRepository(db, time.Second, logger.NewNop())
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO warranties").
		WithArgs("w-1", typeID, "c-1", "i-1", now, nil, now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "warranty_type_id", "customer_id", "item_id", "start_date", "end_date", "created_at", "updated_at"}).
			AddRow("w-1", typeID, "c-1", "i-1", now, nil, now, now))

	w, err := repo.Save(context.Background(), domain.Warranty{
		ID: "w-1", WarrantyTypeID: typeID, CustomerID: "c-1", ItemID: "i-1", StartDate: now, CreatedAt: now,
	})

	require.NoError(t, err)
	assert.Nil(t, w.EndDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}
