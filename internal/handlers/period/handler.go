package period

import (
	"net/http"

	"tourdesk/infras/otel"
	"tourdesk/internal/domains/period/model/dto"
	"tourdesk/internal/domains/period/service"
	"tourdesk/shared"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	"tourdesk/shared/failure"
	"tourdesk/shared/validator"
	"tourdesk/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Period
	otel    otel.Otel
}

func New(service service.Period, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/periods", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreatePeriod)
		routerGroup.Get("/", handler.GetPeriods)
		routerGroup.Post("/bulk-update", handler.BulkUpdate)
		routerGroup.Post("/bulk-promo", handler.BulkPromo)
		routerGroup.Get("/{id}", handler.GetPeriodByID)
		routerGroup.Patch("/{id}", handler.UpdatePeriod)
		routerGroup.Delete("/{id}", handler.DeletePeriod)
		routerGroup.Get("/{id}/offer", handler.GetOffer)
		routerGroup.Put("/{id}/offer", handler.UpsertOffer)
		routerGroup.Post("/{id}/quote", handler.Quote)
	})
}

// CreatePeriod handles the creation of a departure period.
// @Summary Create a period
// @Description Create a departure of a tour. end_date defaults to start_date plus the tour duration.
// @Tags Period
// @Accept json
// @Produce json
// @Param request body dto.CreatePeriodRequest true "Create Period Request"
// @Success 201 {object} response.Data[response.ID] "Period created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/periods [post]
// @Security BearerAuth
func (handler *Handler) CreatePeriod(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreatePeriod")
	defer scope.End()

	req := dto.CreatePeriodRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	id, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create period")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Period created successfully")

	response.WithJSON(w, http.StatusCreated, response.ID{ID: id})
}

// GetPeriods retrieves periods based on query parameters.
// @Summary Get all periods
// @Tags Period
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param tour_id query string false "Filter by tour"
// @Param sale_status query string false "Filter by sale status"
// @Param is_visible query boolean false "Filter by visibility"
// @Param from query string false "Departures starting on or after (YYYY-MM-DD)"
// @Param to query string false "Departures starting on or before (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetPeriodsResponse] "List of periods"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/periods [get]
// @Security BearerAuth
func (handler *Handler) GetPeriods(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPeriods")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	filter := dto.PeriodFilter{
		TourID:     query.Get("tour_id"),
		SaleStatus: query.Get("sale_status"),
		IsVisible:  shared.ConvertStringToBool(query.Get("is_visible")),
		From:       query.Get("from"),
		To:         query.Get("to"),
	}

	for _, date := range []string{filter.From, filter.To} {
		if err := validator.ValidateVar(date, "date"); err != nil {
			response.WithError(w, err)

			return
		}
	}

	periods, err := handler.service.GetAll(ctx, queryParams, filter.ToFilterGroup())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get periods")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, periods)
}

// GetPeriodByID retrieves a period and its offer.
// @Summary Get a period by ID
// @Tags Period
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} response.Data[dto.PeriodResponse] "Period details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/periods/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetPeriodByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPeriodByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	period, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get period by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, period)
}

// UpdatePeriod updates a period by its ID.
// @Summary Update a period
// @Tags Period
// @Accept json
// @Produce json
// @Param id path string true "Period ID"
// @Param request body dto.UpdatePeriodRequest true "Update Period Request"
// @Success 200 {object} response.Message "Period updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/periods/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdatePeriod(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdatePeriod")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdatePeriodRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update period")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Period updated successfully")

	response.WithMessage(w, http.StatusOK, "Period updated successfully")
}

// DeletePeriod deletes a period and its offer.
// @Summary Delete a period
// @Tags Period
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} response.Message "Period deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/periods/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeletePeriod(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeletePeriod")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete period")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Period deleted successfully")

	response.WithMessage(w, http.StatusOK, "Period deleted successfully")
}

// GetOffer returns the commercial offer of a period.
// @Summary Get a period offer
// @Tags Offer
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} response.Data[dto.OfferResponse] "Offer details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/periods/{id}/offer [get]
// @Security BearerAuth
func (handler *Handler) GetOffer(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOffer")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	offer, err := handler.service.GetOffer(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get period offer")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, offer)
}

// UpsertOffer replaces the offer of a period.
// @Summary Replace a period offer
// @Description Numeric fields are sent as strings; empty strings clear the field.
// @Tags Offer
// @Accept json
// @Produce json
// @Param id path string true "Period ID"
// @Param request body dto.UpsertOfferRequest true "Offer"
// @Success 200 {object} response.Message "Offer saved successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/periods/{id}/offer [put]
// @Security BearerAuth
func (handler *Handler) UpsertOffer(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpsertOffer")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpsertOfferRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpsertOffer(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to save period offer")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Offer saved successfully")

	response.WithMessage(w, http.StatusOK, "Offer saved successfully")
}

// Quote prices a booking draft without saving anything.
// @Summary Quote a booking draft
// @Description Resolves unit prices, computes totals and reports room over-allocation.
// @Tags Offer
// @Accept json
// @Produce json
// @Param id path string true "Period ID"
// @Param request body dto.QuoteRequest true "Quantities and optional draft offer"
// @Success 200 {object} response.Data[dto.QuoteResponse] "Quote"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/periods/{id}/quote [post]
// @Security BearerAuth
func (handler *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Quote")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.QuoteRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	quote, err := handler.service.Quote(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to quote booking draft")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, quote)
}

// BulkUpdate sets visibility or sale status on many periods at once.
// @Summary Bulk update periods
// @Description Exactly one of updates.is_visible and updates.sale_status must be set. All periods change or none do.
// @Tags Period
// @Accept json
// @Produce json
// @Param request body dto.BulkUpdateRequest true "Selection and update"
// @Success 200 {object} response.Data[dto.BulkUpdateResponse] "Periods updated"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/periods/bulk-update [post]
// @Security BearerAuth
func (handler *Handler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".BulkUpdate")
	defer scope.End()

	req := dto.BulkUpdateRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.ApplyBulk(ctx, req.ToModel())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to bulk update periods")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Periods bulk updated successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// BulkPromo sets the same promotion on many periods at once.
// @Summary Bulk set a promotion
// @Description Writes the promo fields of each selected period offer and resets its usage counter.
// @Tags Period
// @Accept json
// @Produce json
// @Param request body dto.BulkPromoRequest true "Selection and promotion"
// @Success 200 {object} response.Data[dto.BulkUpdateResponse] "Promotion applied"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/periods/bulk-promo [post]
// @Security BearerAuth
func (handler *Handler) BulkPromo(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".BulkPromo")
	defer scope.End()

	req := dto.BulkPromoRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	update, err := req.ToModel()
	if err != nil {
		response.WithError(w, failure.BadRequest(err))

		return
	}

	res, err := handler.service.ApplyBulk(ctx, update)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to bulk apply promotion")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Promotion applied successfully")

	response.WithJSON(w, http.StatusOK, res)
}
