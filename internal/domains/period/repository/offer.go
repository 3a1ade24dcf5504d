package repository

//go:generate go run go.uber.org/mock/mockgen -source=./offer.go -destination=../mocks/offer_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"tourdesk/infras/otel"
	"tourdesk/infras/postgres"
	"tourdesk/internal/domains/period/model"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	"tourdesk/shared/logger"
	gRepo "tourdesk/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Offer interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Offer, error)
	Upsert(ctx context.Context, offer model.Offer) error
	UpsertTx(ctx context.Context, tx *sqlx.Tx, offer model.Offer) error
	UpsertPromoTx(ctx context.Context, tx *sqlx.Tx, ids []string, promo model.Promo, actor string, now time.Time) (int64, error)
}

type offerRepositoryImpl struct {
	gRepo.Repository[model.Offer]
	db   *postgres.Connection
	otel otel.Otel
}

func NewOffer(db *postgres.Connection, otel otel.Otel) Offer {
	return &offerRepositoryImpl{
		Repository: gRepo.NewRepository[model.Offer](model.OfferEntityName, model.OfferTableName, model.FieldPeriodID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type namedExecer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

// upsertQuery replaces every column of the offer except its creation stamp.
func (r *offerRepositoryImpl) upsertQuery() string {
	columns := r.InsertColumns
	placeholders := make([]string, len(columns))
	updates := []string{}

	for i, col := range columns {
		placeholders[i] = ":" + col

		switch col {
		case model.FieldPeriodID, constant.FieldCreatedAt, constant.FieldCreatedBy:
			continue
		}

		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		model.OfferTableName,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		model.FieldPeriodID,
		strings.Join(updates, ", "),
	)
}

func (r *offerRepositoryImpl) upsert(ctx context.Context, exec namedExecer, offer model.Offer) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".period_offer.upsert")
	defer scope.End()

	query := r.upsertQuery()
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := exec.NamedExecContext(ctx, query, offer); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to upsert period offer: %w", err)
	}

	return nil
}

func (r *offerRepositoryImpl) Upsert(ctx context.Context, offer model.Offer) error {
	return r.upsert(ctx, r.db.Write, offer)
}

func (r *offerRepositoryImpl) UpsertTx(ctx context.Context, tx *sqlx.Tx, offer model.Offer) error {
	return r.upsert(ctx, tx, offer)
}

// UpsertPromoTx writes the same promo on every selected offer and starts its
// consumption over. Periods without an offer get one holding only the promo.
func (r *offerRepositoryImpl) UpsertPromoTx(ctx context.Context, tx *sqlx.Tx, ids []string, promo model.Promo, actor string, now time.Time) (int64, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".period_offer.UpsertPromoTx")
	defer scope.End()

	builder := psql.Insert(model.OfferTableName).
		Columns(
			model.FieldPeriodID,
			model.FieldPromoName,
			model.FieldPromoStartDate,
			model.FieldPromoEndDate,
			model.FieldPromoQuota,
			model.FieldPromoUsed,
			constant.FieldCreatedAt,
			constant.FieldCreatedBy,
			constant.FieldModifiedAt,
			constant.FieldModifiedBy,
		)

	for _, id := range ids {
		builder = builder.Values(id, promo.Name, promo.StartDate, promo.EndDate, promo.Quota, 0, now, actor, now, actor)
	}

	query, args, err := builder.
		Suffix(`ON CONFLICT (period_id) DO UPDATE SET
			promo_name = EXCLUDED.promo_name,
			promo_start_date = EXCLUDED.promo_start_date,
			promo_end_date = EXCLUDED.promo_end_date,
			promo_quota = EXCLUDED.promo_quota,
			promo_used = 0,
			modified_at = EXCLUDED.modified_at,
			modified_by = EXCLUDED.modified_by`).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build promo upsert query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to upsert promo on period offers: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected period offers: %w", err)
	}

	return affected, nil
}
