package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"tourdesk/infras/otel"
	"tourdesk/infras/postgres"
	"tourdesk/internal/domains/booking/model"
	gDto "tourdesk/shared/dto"
	gRepo "tourdesk/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) error
	Transaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) Transaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return r.db.Transaction(ctx, fn) //nolint:wrapcheck
}
