package tenant

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tally/infras/otel"
	"tally/internal/domains/tenant/model"
	"tally/internal/domains/tenant/model/dto"
	"tally/internal/domains/tenant/service"
	"tally/shared/constant"
	gDto "tally/shared/dto"
	"tally/shared/validator"
	"tally/transport/http/response"
)

// Handler exposes the tenant admin surface. All routes here sit behind the
// operator JWT, never behind a tenant API key.
type Handler struct {
	service service.Tenant
	otel    otel.Otel
}

func New(service service.Tenant, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/tenants", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTenant)
		routerGroup.Get("/", handler.GetTenants)
		routerGroup.Get("/{id}", handler.GetTenantByID)
		routerGroup.Patch("/{id}", handler.UpdateTenant)
		routerGroup.Delete("/{id}", handler.DeleteTenant)
	})
}

// CreateTenant registers a tenant and its API key.
// @Summary Create a new tenant
// @Description Register a tenant. The supplied API key is stored as a hash and never returned.
// @Tags Tenant
// @Accept json
// @Produce json
// @Param request body dto.CreateTenantRequest true "Create Tenant Request"
// @Success 201 {object} response.Data[dto.TenantResponse] "Tenant created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tenants [post]
// @Security BearerAuth
func (handler *Handler) CreateTenant(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTenant")
	defer scope.End()

	req := dto.CreateTenantRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	tenant, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create tenant")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Tenant created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, tenant)
}

// GetTenants retrieves all tenants based on query parameters.
// @Summary Get all tenants
// @Description Retrieve all tenants with optional filtering and pagination.
// @Tags Tenant
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param active query string false "Filter by active flag (true/false)"
// @Success 200 {object} response.Data[dto.GetTenantsResponse] "List of tenants"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tenants [get]
// @Security BearerAuth
func (handler *Handler) GetTenants(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTenants")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	active := r.URL.Query().Get(model.FieldActive)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if active != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    active,
			Table:    model.TableName,
		})
	}

	tenants, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tenants")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tenants retrieved successfully")

	response.WithJSON(w, http.StatusOK, tenants)
}

// GetTenantByID retrieves a tenant by its ID.
// @Summary Get a tenant by ID
// @Description Retrieve a tenant, including its notification settings.
// @Tags Tenant
// @Accept json
// @Produce json
// @Param id path string true "Tenant ID"
// @Success 200 {object} response.Data[dto.TenantResponse] "Tenant details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tenants/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetTenantByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTenantByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	tenant, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tenant by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tenant retrieved successfully")

	response.WithJSON(w, http.StatusOK, tenant)
}

// UpdateTenant updates an existing tenant by its ID.
// @Summary Update a tenant by ID
// @Description Update a tenant's name, active flag, or notification settings.
// @Tags Tenant
// @Accept json
// @Produce json
// @Param id path string true "Tenant ID"
// @Param request body dto.UpdateTenantRequest true "Update Tenant Request"
// @Success 200 {object} response.Message "Tenant updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tenants/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTenant")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateTenantRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update tenant")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Tenant updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Tenant updated successfully")
}

// DeleteTenant deletes a tenant by its ID.
// @Summary Delete a tenant by ID
// @Description Remove a tenant using its unique identifier.
// @Tags Tenant
// @Accept json
// @Produce json
// @Param id path string true "Tenant ID"
// @Success 200 {object} response.Message "Tenant deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tenants/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTenant")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete tenant")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Tenant deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Tenant deleted successfully")
}
