package automation

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tally/infras/otel"
	"tally/internal/automation"
	runlogModel "tally/internal/automation/runlog/model"
	"tally/internal/automation/service"
	"tally/shared/constant"
	gDto "tally/shared/dto"
	"tally/transport/http/response"
)

// Handler exposes the automation admin surface: the job catalogue, manual
// triggering, and the persisted run log.
type Handler struct {
	engine service.Engine
	otel   otel.Otel
}

func New(engine service.Engine, otel otel.Otel) Handler {
	return Handler{
		engine: engine,
		otel:   otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/automations", func(routerGroup chi.Router) {
		routerGroup.Get("/jobs", handler.GetJobs)
		routerGroup.Post("/jobs/{name}/trigger", handler.TriggerJob)
		routerGroup.Get("/runs", handler.GetRuns)
	})
}

// GetJobs lists the registered automation jobs.
// @Summary List automation jobs
// @Description Retrieve the names of all registered automation jobs.
// @Tags Automation
// @Produce json
// @Success 200 {object} response.Data[[]string] "Registered job names"
// @Router /v1/automations/jobs [get]
// @Security BearerAuth
func (handler *Handler) GetJobs(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetJobs")
	defer scope.End()

	response.WithJSON(w, http.StatusOK, handler.engine.Jobs())
}

// TriggerJob runs one automation job immediately.
// @Summary Trigger an automation job
// @Description Run a registered job outside its schedule, optionally scoped to a single tenant.
// @Tags Automation
// @Produce json
// @Param name path string true "Job name"
// @Param tenant_id query string false "Restrict the run to this tenant"
// @Success 200 {object} response.Data[automation.Result] "Run report"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/automations/jobs/{name}/trigger [post]
// @Security BearerAuth
func (handler *Handler) TriggerJob(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".TriggerJob")
	defer scope.End()

	jobName := chi.URLParam(r, constant.RequestParamName)
	opts := automation.Options{
		TenantID: r.URL.Query().Get(constant.RequestParamTenantID),
	}

	result, err := handler.engine.Trigger(ctx, jobName, opts)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("job", jobName).Msg("failed to trigger automation job")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Job " + jobName + " triggered by user " + user)

	response.WithJSON(w, http.StatusOK, result)
}

// GetRuns retrieves the persisted automation run log.
// @Summary Get automation runs
// @Description Retrieve past automation runs with optional filtering and pagination.
// @Tags Automation
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param job_name query string false "Filter by job name"
// @Param tenant_id query string false "Filter by tenant ID"
// @Param success query string false "Filter by outcome (true/false)"
// @Success 200 {object} response.Data[runlogDto.GetRunsResponse] "List of runs"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/automations/runs [get]
// @Security BearerAuth
func (handler *Handler) GetRuns(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRuns")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	jobName := r.URL.Query().Get(runlogModel.FieldJobName)
	tenantID := r.URL.Query().Get(runlogModel.FieldTenantID)
	success := r.URL.Query().Get(runlogModel.FieldSuccess)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if jobName != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    runlogModel.FieldJobName,
			Operator: gDto.FilterOperatorEq,
			Value:    jobName,
			Table:    runlogModel.TableName,
		})
	}

	if tenantID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    runlogModel.FieldTenantID,
			Operator: gDto.FilterOperatorEq,
			Value:    tenantID,
			Table:    runlogModel.TableName,
		})
	}

	if success != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    runlogModel.FieldSuccess,
			Operator: gDto.FilterOperatorEq,
			Value:    success,
			Table:    runlogModel.TableName,
		})
	}

	runs, err := handler.engine.GetRuns(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get automation runs")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Automation runs retrieved successfully")

	response.WithJSON(w, http.StatusOK, runs)
}
