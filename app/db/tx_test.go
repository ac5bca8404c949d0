package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-medpoint-api/internal/types"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestRunInTx_Commit(t *testing.T) {
	mock := newMockPool(t)
	tm := NewTxManager(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO drugs").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		_, err := QuerierFromCtx(ctx, mock).Exec(ctx, "INSERT INTO drugs (id) VALUES ($1)")
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	mock := newMockPool(t)
	tm := NewTxManager(mock)
	sentinel := errors.New("audit write failed")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_BeginFails(t *testing.T) {
	mock := newMockPool(t)
	tm := NewTxManager(mock)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	called := false
	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.False(t, called)
	assert.Contains(t, err.Error(), "begin transaction")
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	mock := newMockPool(t)
	tm := NewTxManager(mock)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuerierFromCtx_WithoutTx(t *testing.T) {
	mock := newMockPool(t)
	assert.Equal(t, Querier(mock), QuerierFromCtx(context.Background(), mock))
}

func TestMapError(t *testing.T) {
	assert.NoError(t, MapError(nil, "op"))
	assert.ErrorIs(t, MapError(pgx.ErrNoRows, "get drug"), types.ErrNotFound)
	assert.ErrorIs(t, MapError(&pgconn.PgError{Code: "23505"}, "insert drug"), types.ErrConflict)

	other := fmt.Errorf("network down")
	mapped := MapError(other, "list drugs")
	assert.ErrorIs(t, mapped, other)
	assert.Contains(t, mapped.Error(), "list drugs")
}
