package service

import (
	"context"
	"fmt"
	"strings"

	"tourdesk/infras/kafka"
	"tourdesk/internal/domains/period/model"
	"tourdesk/internal/domains/period/model/dto"
	tourModel "tourdesk/internal/domains/tour/model"
	"tourdesk/shared"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	"tourdesk/shared/failure"
	gModel "tourdesk/shared/model"
	"tourdesk/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Sync upserts a period pushed by the wholesaler, matched on external_id.
// Capacity never drops below seats already booked here; the booked counter
// itself stays owned by this service.
func (s *serviceImpl) Sync(ctx context.Context, req dto.SyncPeriodRequest) (id string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Sync")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tour, err := s.getTour(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    tourModel.FieldCode,
				Operator: gDto.FilterOperatorEq,
				Value:    strings.ToUpper(strings.TrimSpace(req.TourCode)),
				Table:    tourModel.TableName,
			},
		},
	})
	if err != nil {
		return "", err
	}

	actor := shared.Actor(ctx)

	createReq := req.CreateRequest(tour.ID)
	created, err := createReq.ToModel(actor, tour.DurationDays)
	if err != nil {
		return "", failure.BadRequest(err) // nolint:wrapcheck
	}

	if created.EndDate.Before(created.StartDate) {
		return "", failure.BadRequestFromString("end_date cannot be before start_date") // nolint:wrapcheck
	}

	externalID := strings.TrimSpace(req.ExternalID)
	created.ExternalID = &externalID

	var offer *model.Offer

	if req.Offer != nil {
		parsed, err := req.Offer.ToModel(constant.Empty, actor)
		if err != nil {
			return "", failure.BadRequest(err) // nolint:wrapcheck
		}

		offer = &parsed
	}

	err = s.repo.Transaction(ctx, func(tx *sqlx.Tx) error {
		current, err := s.repo.GetForUpdateTx(ctx, tx, gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldExternalID,
					Operator: gDto.FilterOperatorEq,
					Value:    externalID,
					Table:    model.TableName,
				},
			},
		})
		if err != nil {
			return err //nolint:wrapcheck
		}

		if current.ID == constant.Empty {
			id = created.ID

			if err = s.repo.InsertTx(ctx, tx, created); err != nil {
				return err //nolint:wrapcheck
			}
		} else {
			id = current.ID

			capacity := created.Capacity
			if capacity < current.Booked {
				log.Warn().Str("period", id).Int("capacity", capacity).Int("booked", current.Booked).
					Msg("wholesaler capacity below booked seats, keeping booked count")

				capacity = current.Booked
			}

			fields := gModel.Touch(map[string]any{
				model.FieldTourID:     tour.ID,
				model.FieldStartDate:  created.StartDate,
				model.FieldEndDate:    created.EndDate,
				model.FieldCapacity:   capacity,
				model.FieldSaleStatus: created.SaleStatus,
				model.FieldIsVisible:  created.IsVisible,
			}, actor, timezone.Now())

			if err = s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
				return err //nolint:wrapcheck
			}
		}

		if offer == nil {
			return nil
		}

		offer.PeriodID = id

		return s.offerRepo.UpsertTx(ctx, tx, *offer) //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Str("external_id", externalID).Msg("failed to sync wholesaler period")

		return "", fmt.Errorf("failed to sync wholesaler period: %w", err)
	}

	s.invalidate(ctx, id)
	s.publish(ctx, kafka.NewMessage(model.EventSynced, id, model.PeriodEvent{PeriodID: id, ExternalID: &externalID, Actor: actor}))

	return id, nil
}
