package db

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return &DB{DB: sqlDB}, mock
}

func TestWithTxCommits(t *testing.T) {
	d, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE current_session_integer").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := d.WithTx(context.Background(), func(tx *sql.Tx) error {
		_, err := tx.Exec("UPDATE current_session_integer SET id = id + 1")
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnError(t *testing.T) {
	d, mock := newMock(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := d.WithTx(context.Background(), func(tx *sql.Tx) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	d, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	require.Panics(t, func() {
		_ = d.WithTx(context.Background(), func(tx *sql.Tx) error {
			panic("bad")
		})
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigration(t *testing.T) {
	d, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS current_session_integer")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, d.RunMigration(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationSeedsSingleCounterRow(t *testing.T) {
	d, mock := newMock(t)

	mock.ExpectExec(`lock boolean PRIMARY KEY DEFAULT true CHECK \(lock\)(.|\n)*ON CONFLICT \(lock\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, d.RunMigration(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
	require.NotContains(t, schemaMigration, "WHERE NOT EXISTS")
}
