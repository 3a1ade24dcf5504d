package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"tourdesk/infras/otel"
	"tourdesk/infras/postgres"
	"tourdesk/internal/domains/period/model"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	"tourdesk/shared/logger"
	gRepo "tourdesk/shared/repository"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type Period interface {
	Insert(ctx context.Context, model model.Period) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Period) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Period, error)
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Period, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Period, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	LockByIDsTx(ctx context.Context, tx *sqlx.Tx, ids []string) ([]string, error)
	BulkUpdateTx(ctx context.Context, tx *sqlx.Tx, ids []string, fields map[string]any) (int64, error)
	AdjustBookedTx(ctx context.Context, tx *sqlx.Tx, id string, delta int, saleStatus string) error
	Transaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Period]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Period {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Period](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) Transaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return r.db.Transaction(ctx, fn) //nolint:wrapcheck
}

// LockByIDsTx locks the selected periods in id order and returns the ids that exist.
func (r *repositoryImpl) LockByIDsTx(ctx context.Context, tx *sqlx.Tx, ids []string) ([]string, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".period.LockByIDsTx")
	defer scope.End()

	query, args, err := psql.Select(model.FieldID).
		From(model.TableName).
		Where(squirrel.Eq{model.FieldID: ids}).
		OrderBy(model.FieldID).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build lock query (period): %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	found := []string{}

	if err = tx.SelectContext(ctx, &found, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to lock periods: %w", err)
	}

	return found, nil
}

func (r *repositoryImpl) BulkUpdateTx(ctx context.Context, tx *sqlx.Tx, ids []string, fields map[string]any) (int64, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".period.BulkUpdateTx")
	defer scope.End()

	query, args, err := psql.Update(model.TableName).
		SetMap(fields).
		Where(squirrel.Eq{model.FieldID: ids}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build bulk update query (period): %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to bulk update periods: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected periods: %w", err)
	}

	return affected, nil
}

// AdjustBookedTx moves the seat counter relative to its stored value. The
// guard keeps booked within [0, capacity] even if the caller raced.
func (r *repositoryImpl) AdjustBookedTx(ctx context.Context, tx *sqlx.Tx, id string, delta int, saleStatus string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".period.AdjustBookedTx")
	defer scope.End()

	builder := psql.Update(model.TableName).
		Set(model.FieldBooked, squirrel.Expr("booked + ?", delta)).
		Set(constant.FieldModifiedAt, squirrel.Expr("NOW()")).
		Where(squirrel.Eq{model.FieldID: id}).
		Where(squirrel.Expr("booked + ? >= 0", delta))

	if delta > 0 {
		builder = builder.Where(squirrel.Expr("booked + ? <= capacity", delta))
	}

	if saleStatus != constant.Empty {
		builder = builder.Set(model.FieldSaleStatus, saleStatus)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build seat query (period): %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to adjust booked seats: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected periods: %w", err)
	}

	if affected == 0 {
		return model.ErrInsufficientSeats
	}

	return nil
}
