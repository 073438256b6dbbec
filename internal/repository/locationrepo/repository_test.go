package locationrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/cache"
	"gostore/internal/pkg/logger"
	"gostore/internal/repository/locationrepo"
)

const locID = "0d3c2f8e-6a7b-4c1d-9e2f-aaaaaaaaaaaa"

var columns = []string{"id", "name", "address", "phone", "hours", "social_links", "square_location_id", "created_at", "updated_at"}

func setup(t *testing.T) (*locationrepo.LocationRepository, sqlmock.Sqlmock, *cache.MemoryClient) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mem := cache.NewMemoryClient()
	return locationrepo.NewLocationRepository(db, mem, 5*time.Second, time.Minute, logger.NewNop()), mock, mem
}

func TestFindByID_DecodesJSONB(t *testing.T) {
	repo, mock, _ := setup(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM store_locations WHERE id = \\$1").
		WithArgs(locID).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			locID, "Loja Centro", "Rua Direita, 100", "1199999",
			[]byte(`[{"day":"monday","open":"09:00","close":"18:00","closed":false}]`),
			[]byte(`{"instagram":"@centro"}`),
			nil, now, now,
		))

	loc, err := repo.FindByID(context.Background(), locID)
	require.NoError(t, err)

	want := domain.StoreLocation{
		ID: locID, Name: "Loja Centro", Address: "Rua Direita, 100", Phone: "1199999",
		Hours:       []domain.DayHours{{Day: "monday", Open: "09:00", Close: "18:00"}},
		SocialLinks: domain.SocialLinks{Instagram: "@centro"},
		CreatedAt:   now, UpdatedAt: now,
	}
	if diff := cmp.Diff(want, loc); diff != "" {
		t.Errorf("loja divergente (-want +got):\n%s", diff)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_InvalidUUIDIsNotFound(t *testing.T) {
	repo, mock, _ := setup(t)

	_, err := repo.FindByID(context.Background(), "bad-id")

	assert.True(t, apperror.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_InvalidatesCache(t *testing.T) {
	repo, mock, mem := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, mem.Set(ctx, "location:"+locID, `{"id":"`+locID+`","name":"Velha"}`, time.Minute))

	mock.ExpectQuery("UPDATE store_locations").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(locID, "Nova", "", "", []byte(`[]`), []byte(`{}`), "L8SQ", now, now))

	updated, err := repo.Update(ctx, domain.StoreLocation{ID: locID, Name: "Nova", UpdatedAt: now})
	require.NoError(t, err)
	assert.Equal(t, "L8SQ", updated.SquareLocationID)

	_, err = mem.Get(ctx, "location:"+locID)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, _ := setup(t)

	mock.ExpectExec("DELETE FROM store_locations").WithArgs(locID).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), locID)

	assert.True(t, apperror.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
