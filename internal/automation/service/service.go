package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tally/config"
	"tally/infras/otel"
	"tally/internal/automation"
	runlogModel "tally/internal/automation/runlog/model"
	runlogDto "tally/internal/automation/runlog/model/dto"
	runlogRepo "tally/internal/automation/runlog/repository"
	"tally/shared/constant"
	gDto "tally/shared/dto"
	"tally/shared/failure"
)

// Engine is the entry point the trigger and the admin surface share: it
// resolves a job by name, sweeps it through the batch runner, and records
// the outcome in the run log.
type Engine interface {
	Trigger(ctx context.Context, jobName string, opts automation.Options) (*automation.Result, error)
	Jobs() []string
	GetRuns(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (runlogDto.GetRunsResponse, error)
}

type engineImpl struct {
	runner   automation.Runner
	registry *automation.Registry
	runs     runlogRepo.Run
	archiver automation.Archiver
	cfg      *config.Config
	otel     otel.Otel
}

func NewEngine(runner automation.Runner, registry *automation.Registry, runs runlogRepo.Run, archiver automation.Archiver, cfg *config.Config, otel otel.Otel) Engine {
	return &engineImpl{
		runner:   runner,
		registry: registry,
		runs:     runs,
		archiver: archiver,
		cfg:      cfg,
		otel:     otel,
	}
}

func (e *engineImpl) Jobs() []string {
	return e.registry.Names()
}

func (e *engineImpl) Trigger(ctx context.Context, jobName string, opts automation.Options) (result *automation.Result, err error) {
	ctx, scope := e.otel.NewScope(ctx, constant.OtelAutomationScopeName, constant.OtelAutomationScopeName+".Trigger")
	defer scope.End()
	defer scope.TraceIfError(err)

	descriptor, ok := e.registry.Lookup(jobName)
	if !ok {
		return nil, failure.NotFound(fmt.Sprintf("unknown automation job %q", jobName)) // nolint:wrapcheck
	}

	result = e.runner.Run(ctx, descriptor.Job, opts)

	e.record(ctx, result, opts)

	return result, nil
}

// record persists and optionally archives the run outcome. Both are best
// effort: a run that completed is never failed retroactively because its
// bookkeeping write did not land.
func (e *engineImpl) record(ctx context.Context, result *automation.Result, opts automation.Options) {
	run := runlogModel.Run{
		ID:         uuid.NewString(),
		JobName:    result.JobName,
		TenantID:   opts.TenantID,
		Success:    result.Success,
		Message:    result.Message,
		Processed:  result.Processed,
		Failed:     result.Failed,
		Errors:     result.Errors,
		Changes:    result.Changes,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		CreatedAt:  result.FinishedAt,
	}

	if err := e.runs.Insert(ctx, run); err != nil {
		log.Error().Err(err).Str("job", result.JobName).Msg("failed to persist run log")
	}

	if e.cfg.Automation.ArchiveRuns {
		if err := e.archiver.Archive(ctx, result); err != nil {
			log.Error().Err(err).Str("job", result.JobName).Msg("failed to archive run report")
		}
	}
}

func (e *engineImpl) GetRuns(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res runlogDto.GetRunsResponse, err error) {
	ctx, scope := e.otel.NewScope(ctx, constant.OtelAutomationScopeName, constant.OtelAutomationScopeName+".GetRuns")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := e.runs.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count automation runs")

		return res, fmt.Errorf("failed to count automation runs: %w", err)
	}

	models, err := e.runs.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get automation runs")

		return res, fmt.Errorf("failed to get automation runs: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}
