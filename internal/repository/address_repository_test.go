package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbite/quickbite-api/internal/models"
)

func newAddressMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAddressRepositoryCreateDefaultDemotesPrevious(t *testing.T) {
	db, mock, cleanup := newAddressMock(t)
	defer cleanup()
	repo := NewAddressRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE user_addresses SET is_default = FALSE, updated_at = $2 WHERE user_id = $1 AND is_default = TRUE")).
		WithArgs("user-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_addresses").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	address := &models.UserAddress{UserID: "user-1", Address: "12 Nguyen Hue", IsDefault: true}
	err := repo.Create(context.Background(), address)
	require.NoError(t, err)
	assert.NotEmpty(t, address.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepositoryCreateNonDefaultSkipsDemotion(t *testing.T) {
	db, mock, cleanup := newAddressMock(t)
	defer cleanup()
	repo := NewAddressRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO user_addresses").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), &models.UserAddress{UserID: "user-1", Address: "Backup place"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepositoryListByUserOrdersDefaultFirst(t *testing.T) {
	db, mock, cleanup := newAddressMock(t)
	defer cleanup()
	repo := NewAddressRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "address", "latitude", "longitude", "is_default", "created_at", "updated_at"}).
		AddRow("addr-1", "user-1", "Main", 10.77, 106.7, true, time.Now(), time.Now()).
		AddRow("addr-2", "user-1", "Other", 10.78, 106.71, false, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, address, latitude, longitude, is_default, created_at, updated_at FROM user_addresses WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC")).
		WithArgs("user-1").
		WillReturnRows(rows)

	addresses, err := repo.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.True(t, addresses[0].IsDefault)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepositoryDeleteScopedToUser(t *testing.T) {
	db, mock, cleanup := newAddressMock(t)
	defer cleanup()
	repo := NewAddressRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_addresses WHERE id = $1 AND user_id = $2")).
		WithArgs("addr-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), "addr-1", "user-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
