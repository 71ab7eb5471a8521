package txmanager

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

func newManager(t *testing.T) (*TransactionManager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewTransactionManager(dbmetrics.Wrap(db)), mock
}

func TestDoSerializable_Commits(t *testing.T) {
	tm, mock := newManager(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var sawTx bool
	err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
		sawTx = dbmetrics.IsInTransaction(ctx)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, sawTx)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoSerializable_RollsBackOnError(t *testing.T) {
	tm, mock := newManager(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoSerializable_NestedReusesOuterTransaction(t *testing.T) {
	tm, mock := newManager(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var inner bool
	err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
		return tm.DoSerializable(ctx, func(ctx context.Context) error {
			inner = dbmetrics.IsInTransaction(ctx)
			return nil
		})
	})

	require.NoError(t, err)
	assert.True(t, inner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoSerializable_BeginFails(t *testing.T) {
	tm, mock := newManager(t)
	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
		t.Fatal("fn must not be called")
		return nil
	})

	require.ErrorIs(t, err, ErrTransaction)
}
