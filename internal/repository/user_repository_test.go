package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbite/quickbite-api/internal/models"
)

func newUserMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "role", "refresh_token", "created_at", "updated_at"})
}

func TestUserRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newUserMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash, name, role, refresh_token, created_at, updated_at FROM users WHERE email = $1 LIMIT 1")).
		WithArgs("alice@example.com").
		WillReturnRows(userRows().AddRow("user-1", "alice@example.com", "hash", "Alice", "CUSTOMER", nil, time.Now(), time.Now()))

	user, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.Nil(t, user.RefreshToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByEmailMissing(t *testing.T) {
	db, mock, cleanup := newUserMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT .* FROM users WHERE email").
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserRepositoryFindByIDAndRefreshToken(t *testing.T) {
	db, mock, cleanup := newUserMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	stored := "the-current-token"
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash, name, role, refresh_token, created_at, updated_at FROM users WHERE id = $1 AND refresh_token = $2 LIMIT 1")).
		WithArgs("user-1", stored).
		WillReturnRows(userRows().AddRow("user-1", "alice@example.com", "hash", "Alice", "CUSTOMER", stored, time.Now(), time.Now()))

	user, err := repo.FindByIDAndRefreshToken(context.Background(), "user-1", stored)
	require.NoError(t, err)
	require.NotNil(t, user.RefreshToken)
	assert.Equal(t, stored, *user.RefreshToken)

	// A superseded token yields no row.
	mock.ExpectQuery("SELECT .* FROM users WHERE id").
		WithArgs("user-1", "old-token").
		WillReturnError(sql.ErrNoRows)
	_, err = repo.FindByIDAndRefreshToken(context.Background(), "user-1", "old-token")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newUserMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.User{Email: "alice@example.com", PasswordHash: "hash", Name: "Alice", Role: models.RoleCustomer}
	err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryUpdateRefreshToken(t *testing.T) {
	db, mock, cleanup := newUserMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET refresh_token = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("user-1", "new-token", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateRefreshToken(context.Background(), "user-1", "new-token")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryClearRefreshTokenMatchesStoredValue(t *testing.T) {
	db, mock, cleanup := newUserMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET refresh_token = NULL, updated_at = $3 WHERE id = $1 AND refresh_token = $2")).
		WithArgs("user-1", "presented-token", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ClearRefreshToken(context.Background(), "user-1", "presented-token")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryList(t *testing.T) {
	db, mock, cleanup := newUserMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	role := models.RoleDriver
	mock.ExpectQuery("SELECT id, email, password_hash, name, role, refresh_token, created_at, updated_at FROM users WHERE 1=1 AND role = .* ORDER BY created_at DESC LIMIT 20 OFFSET 0").
		WithArgs(role).
		WillReturnRows(userRows().AddRow("user-9", "driver@example.com", "hash", "Driver", "DRIVER", nil, time.Now(), time.Now()))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(role).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	users, total, err := repo.List(context.Background(), models.UserFilter{Role: &role})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
