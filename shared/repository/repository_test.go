package repository_test

import (
	"context"
	"errors"
	"testing"

	otelMocks "tourdesk/infras/otel/mocks"
	"tourdesk/infras/postgres"
	"tourdesk/shared/dto"
	"tourdesk/shared/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type departure struct {
	ID       string `db:"id"`
	Code     string `db:"code"`
	TourName string `column:"name" db:"tour_name" table:"tours"`
}

func (departure) GetJoinQuery() string {
	return "JOIN tours ON tours.id = departures.tour_id"
}

type fixture struct {
	db   *sqlx.DB
	mock sqlmock.Sqlmock
	repo repository.Repository[departure]
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "postgres")
	t.Cleanup(func() { sqlxDB.Close() })

	conn := &postgres.Connection{Read: sqlxDB, Write: sqlxDB}

	return &fixture{
		db:   sqlxDB,
		mock: mock,
		repo: repository.NewRepository[departure]("departure", "departures", "id", conn, otelMocks.NewOtel()),
	}
}

func byID(id string) dto.FilterGroup {
	return dto.And(dto.Filter{Field: "id", Table: "departures", Value: id, Operator: dto.FilterOperatorEq})
}

func TestNewRepository_InsertColumns(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, []string{"id", "code"}, f.repo.InsertColumns)
}

func TestRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("joins and aliases foreign columns", func(t *testing.T) {
		f := newFixture(t)

		f.mock.ExpectPrepare(`SELECT departures\.id, departures\.code, tours\.name AS tour_name FROM departures\s+JOIN tours ON tours\.id = departures\.tour_id\s+WHERE \(departures\.id = \$1\)`).
			ExpectQuery().
			WithArgs("d-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "code", "tour_name"}).AddRow("d-1", "BRM-0301", "Bromo Sunrise"))

		got, err := f.repo.Get(ctx, byID("d-1"))

		require.NoError(t, err)
		assert.Equal(t, departure{ID: "d-1", Code: "BRM-0301", TourName: "Bromo Sunrise"}, got)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("no rows is the zero value", func(t *testing.T) {
		f := newFixture(t)

		f.mock.ExpectPrepare(`SELECT .+ FROM departures`).
			ExpectQuery().
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id", "code", "tour_name"}))

		got, err := f.repo.Get(ctx, byID("missing"))

		require.NoError(t, err)
		assert.Equal(t, departure{}, got)
	})

	t.Run("only requested columns", func(t *testing.T) {
		f := newFixture(t)

		f.mock.ExpectPrepare(`SELECT departures\.code FROM departures`).
			ExpectQuery().
			WithArgs("d-1").
			WillReturnRows(sqlmock.NewRows([]string{"code"}).AddRow("BRM-0301"))

		got, err := f.repo.Get(ctx, byID("d-1"), "code")

		require.NoError(t, err)
		assert.Equal(t, "BRM-0301", got.Code)
	})

	t.Run("query error is wrapped", func(t *testing.T) {
		f := newFixture(t)

		f.mock.ExpectPrepare(`SELECT .+ FROM departures`).
			ExpectQuery().
			WillReturnError(errors.New("connection reset"))

		_, err := f.repo.Get(ctx, byID("d-1"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get data (departure)")
	})
}

func TestRepository_GetForUpdateTx(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.mock.ExpectBegin()
	f.mock.ExpectPrepare(`WHERE \(departures\.id = \$1\)\s+FOR UPDATE OF departures`).
		ExpectQuery().
		WithArgs("d-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "tour_name"}).AddRow("d-1", "BRM-0301", "Bromo Sunrise"))
	f.mock.ExpectCommit()

	tx, err := f.db.Beginx()
	require.NoError(t, err)

	got, err := f.repo.GetForUpdateTx(ctx, tx, byID("d-1"))
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, "d-1", got.ID)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRepository_GetAllAndCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.mock.ExpectPrepare(`ORDER BY code ASC LIMIT \$1 OFFSET \$2`).
		ExpectQuery().
		WithArgs(10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "tour_name"}).
			AddRow("d-11", "BRM-0311", "Bromo Sunrise").
			AddRow("d-12", "BRM-0312", "Bromo Sunrise"))

	f.mock.ExpectPrepare(`SELECT COUNT\(departures\.id\) FROM departures`).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	params := dto.QueryParams{Page: 2, Limit: 10, SortBy: "code", SortDir: dto.SortDirAsc}

	rows, err := f.repo.GetAll(ctx, params, dto.FilterGroup{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	total, err := f.repo.Count(ctx, dto.FilterGroup{})
	require.NoError(t, err)
	assert.Equal(t, 12, total)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRepository_Insert(t *testing.T) {
	ctx := context.Background()

	t.Run("skips joined columns", func(t *testing.T) {
		f := newFixture(t)

		f.mock.ExpectExec(`INSERT INTO departures \(id, code\) VALUES \(\$1, \$2\)`).
			WithArgs("d-1", "BRM-0301").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, f.repo.Insert(ctx, departure{ID: "d-1", Code: "BRM-0301", TourName: "ignored"}))
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("error is wrapped", func(t *testing.T) {
		f := newFixture(t)

		f.mock.ExpectExec(`INSERT INTO departures`).WillReturnError(errors.New("duplicate key"))

		err := f.repo.Insert(ctx, departure{ID: "d-1"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to insert data (departure)")
	})
}

func TestRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("columns in sorted order", func(t *testing.T) {
		f := newFixture(t)

		f.mock.ExpectExec(`UPDATE departures SET code = \$1, modified_by = \$2\s+WHERE \(departures\.id = \$3\)`).
			WithArgs("BRM-0302", "op-1", "d-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := f.repo.Update(ctx, map[string]any{"modified_by": "op-1", "code": "BRM-0302"}, byID("d-1"))

		require.NoError(t, err)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("nothing to update", func(t *testing.T) {
		f := newFixture(t)

		assert.Error(t, f.repo.Update(ctx, map[string]any{}, byID("d-1")))
	})

	t.Run("filter is required", func(t *testing.T) {
		f := newFixture(t)

		err := f.repo.Update(ctx, map[string]any{"code": "x"}, dto.FilterGroup{})

		assert.ErrorIs(t, err, repository.ErrRequiredFilter)
	})
}

func TestRepository_RequiredFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	blank := dto.And(dto.Filter{Field: "code", Value: " ", Operator: dto.FilterOperatorEq, Optional: true})

	_, err := f.repo.Exist(ctx, blank)
	require.ErrorIs(t, err, repository.ErrRequiredFilter)

	err = f.repo.Delete(ctx, blank)
	require.ErrorIs(t, err, repository.ErrRequiredFilter)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRepository_ExistAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.mock.ExpectPrepare(`SELECT EXISTS\(SELECT 1 FROM departures\s+WHERE \(departures\.id = \$1\)\s*\)`).
		ExpectQuery().
		WithArgs("d-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	f.mock.ExpectExec(`DELETE FROM departures\s+WHERE \(departures\.id = \$1\)`).
		WithArgs("d-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	exist, err := f.repo.Exist(ctx, byID("d-1"))
	require.NoError(t, err)
	assert.True(t, exist)

	require.NoError(t, f.repo.Delete(ctx, byID("d-1")))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
