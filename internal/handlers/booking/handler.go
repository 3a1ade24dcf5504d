package booking

import (
	"net/http"

	"tourdesk/infras/otel"
	"tourdesk/internal/domains/booking/model/dto"
	"tourdesk/internal/domains/booking/service"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	"tourdesk/shared/validator"
	"tourdesk/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Put("/{id}", handler.UpdateBooking)
		routerGroup.Delete("/{id}", handler.DeleteBooking)
	})
}

// CreateBooking handles the creation of a new booking.
// @Summary Create a booking
// @Description Prices the booking from the period offer, rejects room over-allocation and reserves seats.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.BookingRequest true "Booking"
// @Success 201 {object} response.Data[response.ID] "Booking created successfully"
// @Failure 400 {object} response.Error "Validation failed or rooms exceed travelers"
// @Failure 409 {object} response.Error "Not enough seats left"
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.BookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	id, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	operator, _ := ctx.Value(constant.ContextKeyOperatorID).(string)
	scope.AddEvent("Booking created successfully by operator " + operator)

	response.WithJSON(writer, http.StatusCreated, response.ID{ID: id})
}

// GetBookings retrieves bookings based on query parameters.
// @Summary Get all bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param tour_id query string false "Filter by tour"
// @Param period_id query string false "Filter by period"
// @Param status query string false "Filter by status"
// @Param search query string false "Search first name, last name or email"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	filter := dto.BookingFilter{
		TourID:   query.Get("tour_id"),
		PeriodID: query.Get("period_id"),
		Status:   query.Get("status"),
		Search:   query.Get("search"),
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filter.ToFilterGroup())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Bookings retrieved successfully")

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// UpdateBooking replaces a booking, re-pricing it and moving its seats.
// @Summary Update a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.BookingRequest true "Booking"
// @Success 200 {object} response.Message "Booking updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.BookingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update booking")

		response.WithError(w, err)

		return
	}

	operator, _ := ctx.Value(constant.ContextKeyOperatorID).(string)
	scope.AddEvent("Booking updated successfully by operator " + operator)

	response.WithMessage(w, http.StatusOK, "Booking updated successfully")
}

// DeleteBooking deletes a booking and releases its seats.
// @Summary Delete a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message "Booking deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete booking")

		response.WithError(w, err)

		return
	}

	operator, _ := ctx.Value(constant.ContextKeyOperatorID).(string)
	scope.AddEvent("Booking deleted successfully by operator " + operator)

	response.WithMessage(w, http.StatusOK, "Booking deleted successfully")
}
