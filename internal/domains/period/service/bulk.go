package service

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"tourdesk/infras/kafka"
	"tourdesk/internal/domains/period/model"
	"tourdesk/internal/domains/period/model/dto"
	"tourdesk/shared"
	"tourdesk/shared/constant"
	"tourdesk/shared/failure"
	gModel "tourdesk/shared/model"
	"tourdesk/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// ApplyBulk writes one change to every selected period inside a single
// transaction. An unknown id fails the whole update and nothing is written.
func (s *serviceImpl) ApplyBulk(ctx context.Context, update model.BulkUpdate) (res dto.BulkUpdateResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ApplyBulk")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	update = update.Normalize()
	if err = update.Validate(); err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	actor := shared.Actor(ctx)
	now := timezone.Now()

	var affected int64

	err = s.repo.Transaction(ctx, func(tx *sqlx.Tx) error {
		found, err := s.repo.LockByIDsTx(ctx, tx, update.PeriodIDs)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if missing := missingIDs(update.PeriodIDs, found); len(missing) > 0 {
			return failure.NotFound("periods not found: " + strings.Join(missing, ", ")) // nolint:wrapcheck
		}

		if update.Kind == model.BulkKindPromo {
			affected, err = s.offerRepo.UpsertPromoTx(ctx, tx, update.PeriodIDs, *update.Promo, actor, now)

			return err //nolint:wrapcheck
		}

		fields := gModel.Touch(update.Fields(), actor, now)

		affected, err = s.repo.BulkUpdateTx(ctx, tx, update.PeriodIDs, fields)

		return err //nolint:wrapcheck
	})
	if err != nil {
		if failure.GetCode(err) == http.StatusNotFound {
			return res, err
		}

		log.Error().Err(err).Str("kind", string(update.Kind)).Msg("failed to apply bulk period update")

		return res, fmt.Errorf("failed to apply bulk period update: %w", err)
	}

	s.metrics.IncBulkUpdate(string(update.Kind), len(update.PeriodIDs))
	s.invalidate(ctx, update.PeriodIDs...)
	s.publish(ctx, kafka.NewMessage(model.EventBulkUpdated, string(update.Kind), update.Event(actor)))

	res.Kind = string(update.Kind)
	res.Updated = int(affected)

	return res, nil
}

func missingIDs(wanted, found []string) []string {
	missing := []string{}

	for _, id := range wanted {
		if !slices.Contains(found, id) {
			missing = append(missing, id)
		}
	}

	return missing
}
