package service

import (
	"context"
	"errors"
	"fmt"

	"tourdesk/internal/domains/booking/model"
	periodModel "tourdesk/internal/domains/period/model"
	"tourdesk/shared"
	"tourdesk/shared/constant"
	"tourdesk/shared/failure"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

func (s *serviceImpl) lockPeriod(ctx context.Context, tx *sqlx.Tx, id string) (periodModel.Period, error) {
	period, err := s.periodRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(id, periodModel.FieldID, periodModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to lock period")

		return period, fmt.Errorf("failed to lock period: %w", err)
	}

	if period.ID == constant.Empty {
		return period, failure.BadRequestFromString("period does not exist") // nolint:wrapcheck
	}

	return period, nil
}

// adjustSeats moves the period's booked counter by delta. Releasing more
// seats than are booked clamps at zero since the counter drifted.
func (s *serviceImpl) adjustSeats(ctx context.Context, tx *sqlx.Tx, period periodModel.Period, delta int) error {
	if delta == 0 {
		return nil
	}

	change, err := period.ApplySeats(delta, s.cfg.App.PeriodAutoSoldOut)
	if errors.Is(err, periodModel.ErrNegativeBooked) {
		log.Warn().Str("period_id", period.ID).Int("booked", period.Booked).Int("delta", delta).Msg("booked seats drifted, clamping to zero")

		delta = -period.Booked
		if delta == 0 {
			return nil
		}

		change, err = period.ApplySeats(delta, s.cfg.App.PeriodAutoSoldOut)
	}

	if errors.Is(err, periodModel.ErrInsufficientSeats) {
		return failure.Conflict(fmt.Sprintf("only %d seats left on period", period.Available())) // nolint:wrapcheck
	}

	if err != nil {
		return fmt.Errorf("failed to apply seats: %w", err)
	}

	saleStatus := constant.Empty
	if change.SaleStatus != period.SaleStatus {
		saleStatus = change.SaleStatus
	}

	if err = s.periodRepo.AdjustBookedTx(ctx, tx, period.ID, delta, saleStatus); err != nil {
		if errors.Is(err, periodModel.ErrInsufficientSeats) {
			return failure.Conflict(fmt.Sprintf("only %d seats left on period", period.Available())) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to adjust booked seats")

		return fmt.Errorf("failed to adjust booked seats: %w", err)
	}

	return nil
}

// moveSeats applies the seat difference between the stored booking and its
// edit. When the period changes both periods are locked in id order so two
// opposite moves cannot deadlock.
func (s *serviceImpl) moveSeats(ctx context.Context, tx *sqlx.Tx, current, updated model.Booking) error {
	if current.PeriodID == updated.PeriodID {
		period, err := s.lockPeriod(ctx, tx, updated.PeriodID)
		if err != nil {
			return err
		}

		if period.TourID != updated.TourID {
			return failure.BadRequestFromString("period does not belong to tour") // nolint:wrapcheck
		}

		return s.adjustSeats(ctx, tx, period, updated.Seats()-current.Seats())
	}

	first, second := current.PeriodID, updated.PeriodID
	if second < first {
		first, second = second, first
	}

	locked := make(map[string]periodModel.Period, 2) //nolint:mnd

	for _, id := range []string{first, second} {
		period, err := s.lockPeriod(ctx, tx, id)
		if err != nil {
			return err
		}

		locked[id] = period
	}

	if locked[updated.PeriodID].TourID != updated.TourID {
		return failure.BadRequestFromString("period does not belong to tour") // nolint:wrapcheck
	}

	if err := s.adjustSeats(ctx, tx, locked[current.PeriodID], -current.Seats()); err != nil {
		return err
	}

	return s.adjustSeats(ctx, tx, locked[updated.PeriodID], updated.Seats())
}
