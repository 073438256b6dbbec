package database_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gostore/internal/pkg/database"
)

func TestRunInTx_CommitsOnSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE exchanges").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = database.RunInTx(context.Background(), db, func(q database.DBTX) error {
		_, execErr := q.ExecContext(context.Background(), "UPDATE exchanges SET status = $1", "Approved")
		return execErr
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = database.RunInTx(context.Background(), db, func(q database.DBTX) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_ReusesOuterTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	calls := 0
	err = database.RunInTx(context.Background(), tx, func(q database.DBTX) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	unique := &pq.Error{Code: "23505"}
	fk := &pq.Error{Code: "23503"}

	assert.True(t, database.IsUniqueViolation(fmt.Errorf("insert: %w", unique)))
	assert.False(t, database.IsUniqueViolation(fk))
	assert.False(t, database.IsUniqueViolation(errors.New("plain")))
	assert.True(t, database.IsForeignKeyViolation(fk))
}
