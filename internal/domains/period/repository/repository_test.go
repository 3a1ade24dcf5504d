package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	otelMocks "tourdesk/infras/otel/mocks"
	"tourdesk/infras/postgres"
	"tourdesk/internal/domains/period/model"
	"tourdesk/internal/domains/period/repository"
	gModel "tourdesk/shared/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	mock   sqlmock.Sqlmock
	period repository.Period
	offer  repository.Offer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "postgres")
	t.Cleanup(func() { sqlxDB.Close() })

	conn := &postgres.Connection{Read: sqlxDB, Write: sqlxDB}

	return &fixture{
		mock:   mock,
		period: repository.New(conn, otelMocks.NewOtel()),
		offer:  repository.NewOffer(conn, otelMocks.NewOtel()),
	}
}

func TestPeriodRepository_LockByIDsTx(t *testing.T) {
	ctx := context.Background()

	t.Run("locks in id order and returns existing ids", func(t *testing.T) {
		f := newFixture(t)

		f.mock.ExpectBegin()
		f.mock.ExpectQuery(`^SELECT id FROM periods WHERE id IN \(\$1,\$2,\$3\) ORDER BY id FOR UPDATE$`).
			WithArgs("p-3", "p-1", "p-9").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("p-1").AddRow("p-3"))
		f.mock.ExpectCommit()

		var found []string

		err := f.period.Transaction(ctx, func(tx *sqlx.Tx) error {
			var err error
			found, err = f.period.LockByIDsTx(ctx, tx, []string{"p-3", "p-1", "p-9"})

			return err
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"p-1", "p-3"}, found)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("query error rolls back", func(t *testing.T) {
		f := newFixture(t)

		f.mock.ExpectBegin()
		f.mock.ExpectQuery(`FOR UPDATE$`).WillReturnError(errors.New("deadlock detected"))
		f.mock.ExpectRollback()

		err := f.period.Transaction(ctx, func(tx *sqlx.Tx) error {
			_, err := f.period.LockByIDsTx(ctx, tx, []string{"p-1"})

			return err
		})

		require.ErrorContains(t, err, "failed to lock periods")
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})
}

func TestPeriodRepository_BulkUpdateTx(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("visibility touches only its column and the audit stamp", func(t *testing.T) {
		f := newFixture(t)

		update := model.BulkUpdate{PeriodIDs: []string{"p-1", "p-2"}, Kind: model.BulkKindVisibility, Visibility: new(bool)}

		f.mock.ExpectBegin()
		f.mock.ExpectExec(`^UPDATE periods SET is_visible = \$1, modified_at = \$2, modified_by = \$3 WHERE id IN \(\$4,\$5\)$`).
			WithArgs(false, now, "op-1", "p-1", "p-2").
			WillReturnResult(sqlmock.NewResult(0, 2))
		f.mock.ExpectCommit()

		var affected int64

		err := f.period.Transaction(ctx, func(tx *sqlx.Tx) error {
			var err error
			affected, err = f.period.BulkUpdateTx(ctx, tx, update.PeriodIDs, gModel.Touch(update.Fields(), "op-1", now))

			return err
		})

		require.NoError(t, err)
		assert.Equal(t, int64(2), affected)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("sale status leaves seats and dates alone", func(t *testing.T) {
		f := newFixture(t)

		status := model.SaleStatusClosed
		update := model.BulkUpdate{PeriodIDs: []string{"p-1"}, Kind: model.BulkKindSaleStatus, SaleStatus: &status}

		f.mock.ExpectBegin()
		f.mock.ExpectExec(`^UPDATE periods SET modified_at = \$1, modified_by = \$2, sale_status = \$3 WHERE id IN \(\$4\)$`).
			WithArgs(now, "op-1", model.SaleStatusClosed, "p-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		f.mock.ExpectCommit()

		err := f.period.Transaction(ctx, func(tx *sqlx.Tx) error {
			_, err := f.period.BulkUpdateTx(ctx, tx, update.PeriodIDs, gModel.Touch(update.Fields(), "op-1", now))

			return err
		})

		require.NoError(t, err)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})
}

func TestPeriodRepository_AdjustBookedTx(t *testing.T) {
	ctx := context.Background()

	t.Run("reserving is guarded by capacity", func(t *testing.T) {
		f := newFixture(t)

		f.mock.ExpectBegin()
		f.mock.ExpectExec(`^UPDATE periods SET booked = booked \+ \$1, modified_at = NOW\(\) WHERE id = \$2 AND booked \+ \$3 >= 0 AND booked \+ \$4 <= capacity$`).
			WithArgs(2, "p-1", 2, 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		f.mock.ExpectCommit()

		err := f.period.Transaction(ctx, func(tx *sqlx.Tx) error {
			return f.period.AdjustBookedTx(ctx, tx, "p-1", 2, "")
		})

		require.NoError(t, err)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("releasing sets the sale status without a capacity guard", func(t *testing.T) {
		f := newFixture(t)

		f.mock.ExpectBegin()
		f.mock.ExpectExec(`^UPDATE periods SET booked = booked \+ \$1, modified_at = NOW\(\), sale_status = \$2 WHERE id = \$3 AND booked \+ \$4 >= 0$`).
			WithArgs(-1, model.SaleStatusAvailable, "p-1", -1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		f.mock.ExpectCommit()

		err := f.period.Transaction(ctx, func(tx *sqlx.Tx) error {
			return f.period.AdjustBookedTx(ctx, tx, "p-1", -1, model.SaleStatusAvailable)
		})

		require.NoError(t, err)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("no matching row means the seats are gone", func(t *testing.T) {
		f := newFixture(t)

		f.mock.ExpectBegin()
		f.mock.ExpectExec(`^UPDATE periods SET booked = booked \+ \$1`).
			WithArgs(3, "p-1", 3, 3).
			WillReturnResult(sqlmock.NewResult(0, 0))
		f.mock.ExpectRollback()

		err := f.period.Transaction(ctx, func(tx *sqlx.Tx) error {
			return f.period.AdjustBookedTx(ctx, tx, "p-1", 3, "")
		})

		require.ErrorIs(t, err, model.ErrInsufficientSeats)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})
}
