package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-medpoint-api/internal/types"
)

var userRowColumns = []string{"id", "username", "name", "email", "password_hash", "role", "created_at", "updated_at"}

func newRepo(t *testing.T) (*PostgresUserRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresUserRepo(mock, discardLogger()), mock
}

func TestPostgresUserRepo_CreateUser(t *testing.T) {
	repo, mock := newRepo(t)
	u := types.UserAccount{ID: uuid.New(), Username: "carol", Email: "c@example.com", PasswordHash: "hash", Role: types.RoleReader}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID, u.Username, u.Name, u.Email, u.PasswordHash, "Reader", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.CreateUser(context.Background(), u))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepo_CreateUser_DuplicateUsername(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	err := repo.CreateUser(context.Background(), types.UserAccount{ID: uuid.New(), Username: "carol"})
	assert.ErrorIs(t, err, types.ErrConflict)
}

func TestPostgresUserRepo_GetUserByUsername(t *testing.T) {
	repo, mock := newRepo(t)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("carol").
		WillReturnRows(pgxmock.NewRows(userRowColumns).AddRow(id, "carol", "Carol", "c@example.com", "hash", "Admin", now, now))

	u, err := repo.GetUserByUsername(context.Background(), "carol")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, types.RoleAdmin, u.Role)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepo_GetUserByID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs(id).WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetUserByID(context.Background(), id)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestPostgresUserRepo_UpdateRole(t *testing.T) {
	repo, mock := newRepo(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE users SET role").
		WithArgs("Contributor", pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE users SET role").
		WithArgs("Admin", pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.UpdateRole(context.Background(), id, types.RoleContributor)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateRole(context.Background(), id, types.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepo_ListAndCount(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM users ORDER BY created_at, id LIMIT \$1 OFFSET \$2`).
		WithArgs(2, 0).
		WillReturnRows(pgxmock.NewRows(userRowColumns).
			AddRow(uuid.New(), "a", "", "", "h", "Reader", now, now).
			AddRow(uuid.New(), "b", "", "", "h", "Contributor", now, now))
	mock.ExpectQuery(`SELECT count\(\*\) FROM users`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(7)))

	users, err := repo.ListUsers(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, types.RoleContributor, users[1].Role)

	total, err := repo.CountUsers(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepo_ListUsers_QueryFails(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`FROM users`).WillReturnError(errors.New("boom"))

	_, err := repo.ListUsers(context.Background(), 10, 0)
	assert.Error(t, err)
}
