package operator

import (
	"net/http"

	"tourdesk/infras/otel"
	"tourdesk/internal/domains/operator/model"
	"tourdesk/internal/domains/operator/model/dto"
	"tourdesk/internal/domains/operator/service"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	"tourdesk/shared/validator"
	"tourdesk/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Operator
	otel    otel.Otel
}

func New(service service.Operator, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/operators", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateOperator)
		routerGroup.Get("/", handler.GetOperators)
		routerGroup.Get("/{id}", handler.GetOperatorByID)
		routerGroup.Patch("/{id}", handler.UpdateOperator)
		routerGroup.Delete("/{id}", handler.DeleteOperator)
	})
}

// CreateOperator handles the creation of a new operator.
// @Summary Create a new operator
// @Description Create a new operator with the provided details.
// @Tags Operator
// @Accept json
// @Produce json
// @Param request body dto.CreateOperatorRequest true "Create Operator Request"
// @Success 201 {object} response.Data[response.ID] "Operator created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/operators [post]
// @Security BearerAuth
func (handler *Handler) CreateOperator(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateOperator")
	defer scope.End()

	req := dto.CreateOperatorRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	id, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create operator")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Operator created successfully")

	response.WithJSON(writer, http.StatusCreated, response.ID{ID: id})
}

// GetOperators retrieves all operators based on query parameters.
// @Summary Get all operators
// @Description Retrieve all operators with optional filtering and pagination.
// @Tags Operator
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param email query string false "Filter by email"
// @Param role query string false "Filter by role"
// @Success 200 {object} response.Data[dto.GetOperatorsResponse] "List of operators"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/operators [get]
// @Security BearerAuth
func (handler *Handler) GetOperators(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOperators")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	email := r.URL.Query().Get(model.FieldEmail)
	role := r.URL.Query().Get(model.FieldRole)

	filterGroup := gDto.And(
		gDto.Filter{
			Field:    model.FieldEmail,
			Operator: gDto.FilterOperatorEq,
			Value:    email,
			Table:    model.TableName,
			Optional: true,
		},
		gDto.Filter{
			Field:    model.FieldRole,
			Operator: gDto.FilterOperatorEq,
			Value:    role,
			Table:    model.TableName,
			Optional: true,
		},
	)

	operators, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get operators")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Operators retrieved successfully")

	response.WithJSON(w, http.StatusOK, operators)
}

// GetOperatorByID retrieves a operator by its ID.
// @Summary Get an operator by ID
// @Description Retrieve a operator by its unique identifier.
// @Tags Operator
// @Accept json
// @Produce json
// @Param id path string true "Operator ID"
// @Success 200 {object} response.Data[dto.OperatorResponse] "Operator details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/operators/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetOperatorByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOperatorByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	operator, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get operator by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Operator retrieved successfully")

	response.WithJSON(w, http.StatusOK, operator)
}

// UpdateOperator updates an existing operator by its ID.
// @Summary Update an operator by ID
// @Description Update the details of an existing operator.
// @Tags Operator
// @Accept json
// @Produce json
// @Param id path string true "Operator ID"
// @Param request body dto.UpdateOperatorRequest true "Update Operator Request"
// @Success 200 {object} response.Message "Operator updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/operators/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateOperator(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateOperator")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateOperatorRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update operator")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Operator updated successfully")

	response.WithMessage(w, http.StatusOK, "Operator updated successfully")
}

// DeleteOperator deletes a operator by its ID.
// @Summary Delete an operator by ID
// @Description Delete a operator using its unique identifier.
// @Tags Operator
// @Accept json
// @Produce json
// @Param id path string true "Operator ID"
// @Success 200 {object} response.Message "Operator deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/operators/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteOperator(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteOperator")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete operator")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Operator deleted successfully")

	response.WithMessage(w, http.StatusOK, "Operator deleted successfully")
}
