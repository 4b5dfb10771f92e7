package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

const bumpSQL = `UPDATE users SET followers_count = followers_count + 1 WHERE id = $1`

func TestTransactor_CommitsOnSuccess(t *testing.T) {
	db, mock := setupMockDB(t)
	tr := NewTransactor(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(bumpSQL)).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := tr.WithinTx(context.Background(), func(ctx context.Context) error {
		assert.True(t, InTx(ctx))
		return Conn(ctx, db).Exec("UPDATE users SET followers_count = followers_count + 1 WHERE id = ?", 1).Error
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db, mock := setupMockDB(t)
	tr := NewTransactor(db)
	failure := errors.New("fanout failed")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(bumpSQL)).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := tr.WithinTx(context.Background(), func(ctx context.Context) error {
		if err := Conn(ctx, db).Exec("UPDATE users SET followers_count = followers_count + 1 WHERE id = ?", 1).Error; err != nil {
			return err
		}
		return failure
	})
	assert.ErrorIs(t, err, failure)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_NestedJoinsOuter(t *testing.T) {
	db, mock := setupMockDB(t)
	tr := NewTransactor(db)

	mock.ExpectBegin()
	mock.ExpectCommit()

	calls := 0
	err := tr.WithinTx(context.Background(), func(ctx context.Context) error {
		return tr.WithinTx(ctx, func(context.Context) error {
			calls++
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConn_WithoutTx(t *testing.T) {
	db, _ := setupMockDB(t)
	assert.False(t, InTx(context.Background()))
	assert.NotNil(t, Conn(context.Background(), db))
}
