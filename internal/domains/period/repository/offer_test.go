package repository_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"tourdesk/internal/domains/period/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const promoUpsert = `^INSERT INTO period_offers ` +
	`\(period_id,promo_name,promo_start_date,promo_end_date,promo_quota,promo_used,created_at,created_by,modified_at,modified_by\) ` +
	`VALUES \(\$1,\$2,\$3,\$4,\$5,\$6,\$7,\$8,\$9,\$10\),\(\$11,\$12,\$13,\$14,\$15,\$16,\$17,\$18,\$19,\$20\) ` +
	`ON CONFLICT \(period_id\) DO UPDATE SET\s+` +
	`promo_name = EXCLUDED\.promo_name,\s+` +
	`promo_start_date = EXCLUDED\.promo_start_date,\s+` +
	`promo_end_date = EXCLUDED\.promo_end_date,\s+` +
	`promo_quota = EXCLUDED\.promo_quota,\s+` +
	`promo_used = 0,\s+` +
	`modified_at = EXCLUDED\.modified_at,\s+` +
	`modified_by = EXCLUDED\.modified_by$`

func TestOfferRepository_UpsertPromoTx(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	promo := model.Promo{
		Name:      "Early Bird",
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Quota:     20,
	}

	row := func(id string) []driver.Value {
		return []driver.Value{id, promo.Name, promo.StartDate, promo.EndDate, promo.Quota, 0, now, "op-1", now, "op-1"}
	}

	args := func(ids ...string) []driver.Value {
		out := []driver.Value{}
		for _, id := range ids {
			out = append(out, row(id)...)
		}

		return out
	}

	t.Run("overwrites the promo and restarts its consumption", func(t *testing.T) {
		f := newFixture(t)

		f.mock.ExpectBegin()
		f.mock.ExpectExec(promoUpsert).
			WithArgs(args("p-1", "p-2")...).
			WillReturnResult(sqlmock.NewResult(0, 2))
		f.mock.ExpectCommit()

		var affected int64

		err := f.period.Transaction(ctx, func(tx *sqlx.Tx) error {
			var err error
			affected, err = f.offer.UpsertPromoTx(ctx, tx, []string{"p-1", "p-2"}, promo, "op-1", now)

			return err
		})

		require.NoError(t, err)
		assert.Equal(t, int64(2), affected)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("exec error rolls back", func(t *testing.T) {
		f := newFixture(t)

		f.mock.ExpectBegin()
		f.mock.ExpectExec(`^INSERT INTO period_offers`).WillReturnError(errors.New("connection reset"))
		f.mock.ExpectRollback()

		err := f.period.Transaction(ctx, func(tx *sqlx.Tx) error {
			_, err := f.offer.UpsertPromoTx(ctx, tx, []string{"p-1"}, promo, "op-1", now)

			return err
		})

		require.ErrorContains(t, err, "failed to upsert promo on period offers")
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})
}
