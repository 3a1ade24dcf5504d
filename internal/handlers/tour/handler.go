package tour

import (
	"net/http"

	"tourdesk/infras/otel"
	"tourdesk/internal/domains/tour/model"
	"tourdesk/internal/domains/tour/model/dto"
	"tourdesk/internal/domains/tour/service"
	"tourdesk/shared"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	"tourdesk/shared/validator"
	"tourdesk/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const formCover = "cover"

type Handler struct {
	service service.Tour
	otel    otel.Otel
}

func New(service service.Tour, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/tours", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTour)
		routerGroup.Get("/", handler.GetTours)
		routerGroup.Get("/{id}", handler.GetTourByID)
		routerGroup.Patch("/{id}", handler.UpdateTour)
		routerGroup.Put("/{id}/cover", handler.UpdateCover)
		routerGroup.Delete("/{id}", handler.DeleteTour)
	})
}

// CreateTour handles the creation of a new tour.
// @Summary Create a new tour
// @Description Create a tour product with an optional cover image.
// @Tags Tour
// @Accept multipart/form-data
// @Produce json
// @Param code formData string true "Tour code"
// @Param name formData string true "Tour name"
// @Param duration_days formData integer true "Length of the trip in days"
// @Param description formData string false "Tour description"
// @Param active formData boolean false "Tour active status"
// @Param cover formData file false "Cover image"
// @Success 201 {object} response.Data[response.ID] "Tour created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tours [post]
// @Security BearerAuth
func (handler *Handler) CreateTour(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTour")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(writer, err)

		return
	}

	req := dto.CreateTourRequest{
		Code:        request.FormValue(model.FieldCode),
		Name:        request.FormValue(model.FieldName),
		Description: request.FormValue(model.FieldDescription),
	}

	if days, err := shared.ConvertStringToInt(request.FormValue(model.FieldDurationDays)); err == nil {
		req.DurationDays = days
	}

	if activeStr := request.FormValue(model.FieldActive); activeStr != "" {
		req.Active = shared.ConvertStringToBool(activeStr)
	}

	file, fileHeader, err := request.FormFile(formCover)
	if err == nil {
		req.Cover = fileHeader
		req.CoverFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	id, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create tour")

		response.WithError(writer, err)

		return
	}

	operator, _ := ctx.Value(constant.ContextKeyOperatorID).(string)
	scope.AddEvent("Tour created successfully by operator " + operator)

	response.WithJSON(writer, http.StatusCreated, response.ID{ID: id})
}

// GetTours retrieves all tours based on query parameters.
// @Summary Get all tours
// @Tags Tour
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param code query string false "Filter by code"
// @Param name query string false "Filter by name"
// @Param active query boolean false "Filter by active status"
// @Success 200 {object} response.Data[dto.GetToursResponse] "List of tours"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tours [get]
// @Security BearerAuth
func (handler *Handler) GetTours(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTours")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.And(
		gDto.Filter{
			Field:    model.FieldCode,
			Operator: gDto.FilterOperatorEq,
			Value:    r.URL.Query().Get(model.FieldCode),
			Table:    model.TableName,
			Optional: true,
		},
		gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    r.URL.Query().Get(model.FieldName),
			Table:    model.TableName,
			Optional: true,
		},
	)

	if active := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	tours, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tours")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tours retrieved successfully")

	response.WithJSON(w, http.StatusOK, tours)
}

// GetTourByID retrieves a tour by its ID.
// @Summary Get a tour by ID
// @Tags Tour
// @Accept json
// @Produce json
// @Param id path string true "Tour ID"
// @Success 200 {object} response.Data[dto.TourResponse] "Tour details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tours/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetTourByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTourByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	tour, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tour by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tour retrieved successfully")

	response.WithJSON(w, http.StatusOK, tour)
}

// UpdateTour updates an existing tour by its ID.
// @Summary Update a tour by ID
// @Description Update tour details. The code is immutable once created.
// @Tags Tour
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Tour ID"
// @Param name formData string false "Tour name"
// @Param duration_days formData integer false "Length of the trip in days"
// @Param description formData string false "Tour description"
// @Param active formData boolean false "Tour active status"
// @Param cover formData file false "Cover image"
// @Success 200 {object} response.Message "Tour updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tours/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateTour(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTour")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, err)

		return
	}

	req := dto.UpdateTourRequest{
		Name: r.FormValue(model.FieldName),
	}

	if daysStr := r.FormValue(model.FieldDurationDays); daysStr != "" {
		if days, err := shared.ConvertStringToInt(daysStr); err == nil {
			req.DurationDays = &days
		}
	}

	if r.MultipartForm != nil {
		if values, ok := r.MultipartForm.Value[model.FieldDescription]; ok && len(values) > 0 {
			req.Description = &values[0]
		}
	}

	if activeStr := r.FormValue(model.FieldActive); activeStr != "" {
		req.Active = shared.ConvertStringToBool(activeStr)
	}

	file, fileHeader, err := r.FormFile(formCover)
	if err == nil {
		req.Cover = fileHeader
		req.CoverFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update tour")

		response.WithError(w, err)

		return
	}

	operator, _ := ctx.Value(constant.ContextKeyOperatorID).(string)
	scope.AddEvent("Tour updated successfully by operator " + operator)

	response.WithMessage(w, http.StatusOK, "Tour updated successfully")
}

// UpdateCover replaces the cover with an image sent as a base64 data URI.
// @Summary Replace a tour cover
// @Tags Tour
// @Accept json
// @Produce json
// @Param id path string true "Tour ID"
// @Param request body dto.UpdateCoverRequest true "Cover as data URI"
// @Success 200 {object} response.Data[dto.UpdateCoverResponse] "Cover updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/tours/{id}/cover [put]
// @Security BearerAuth
func (handler *Handler) UpdateCover(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateCover")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateCoverRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	url, err := handler.service.UpdateCover(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update tour cover")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, dto.UpdateCoverResponse{CoverImage: url})
}

// DeleteTour deletes a tour by its ID.
// @Summary Delete a tour by ID
// @Description Delete a tour. Tours that still have periods or bookings cannot be deleted.
// @Tags Tour
// @Produce json
// @Param id path string true "Tour ID"
// @Success 200 {object} response.Message "Tour deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tours/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteTour(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTour")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete tour")

		response.WithError(w, err)

		return
	}

	operator, _ := ctx.Value(constant.ContextKeyOperatorID).(string)
	scope.AddEvent("Tour deleted successfully by operator " + operator)

	response.WithMessage(w, http.StatusOK, "Tour deleted successfully")
}
