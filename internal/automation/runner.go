package automation

//go:generate go run go.uber.org/mock/mockgen -source=./runner.go -destination=./mocks/runner_mock.go -package=mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"tally/config"
	"tally/infras/otel"
	tenantModel "tally/internal/domains/tenant/model"
	tenantRepo "tally/internal/domains/tenant/repository"
	"tally/shared"
	"tally/shared/constant"
)

// Job is one unit of reconciliation logic. The runner owns tenant
// enumeration and error isolation; the job only sees one tenant at a time
// and records per-item outcomes on the shared result.
type Job interface {
	Name() string
	RunTenant(ctx context.Context, tenant tenantModel.Tenant, result *Result) error
}

// Options scopes a run. A set TenantID restricts the sweep to one tenant,
// which is how manual re-runs from the admin surface work.
type Options struct {
	TenantID string
}

type Runner interface {
	Run(ctx context.Context, job Job, opts Options) *Result
}

type runnerImpl struct {
	tenants tenantRepo.Tenant
	cfg     *config.Config
	otel    otel.Otel
}

func NewRunner(tenants tenantRepo.Tenant, cfg *config.Config, otel otel.Otel) Runner {
	return &runnerImpl{
		tenants: tenants,
		cfg:     cfg,
		otel:    otel,
	}
}

// Run sweeps the job across all active tenants, or one when scoped.
// Tenants are processed with bounded parallelism; tenant sub-runs share
// nothing but the result aggregator. A failing tenant or booking never
// aborts the batch: only a failure to enumerate tenants does.
func (r *runnerImpl) Run(ctx context.Context, job Job, opts Options) *Result {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelAutomationScopeName, constant.OtelAutomationScopeName+"."+job.Name())
	defer scope.End()

	result := NewResult(job.Name())

	tenants, err := r.enumerate(ctx, opts)
	if err != nil {
		log.Error().Err(err).Str("job", job.Name()).Msg("failed to enumerate tenants")
		scope.TraceIfError(err)

		return result.Abort(fmt.Errorf("failed to enumerate tenants: %w", err))
	}

	workers := r.cfg.Automation.TenantWorkers
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup

	sem := make(chan struct{}, workers)

	for _, tenant := range tenants {
		wg.Add(1)
		sem <- struct{}{}

		go func(tenant tenantModel.Tenant) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if rec := recover(); rec != nil {
					result.TenantError(tenant.Name, fmt.Errorf("panic: %v", rec))
				}
			}()

			if err := job.RunTenant(ctx, tenant, result); err != nil {
				log.Error().Err(err).Str("job", job.Name()).Str("tenant_id", tenant.ID).Msg("tenant sub-run failed")

				result.TenantError(tenant.Name, err)
			}
		}(tenant)
	}

	wg.Wait()

	result.Finish()

	log.Info().
		Str("job", job.Name()).
		Int("processed", result.Processed).
		Int("failed", result.Failed).
		Msg("automation run finished")

	return result
}

func (r *runnerImpl) enumerate(ctx context.Context, opts Options) ([]tenantModel.Tenant, error) {
	if opts.TenantID != constant.Empty {
		tenant, err := r.tenants.Get(ctx, shared.FilterByID(opts.TenantID, tenantModel.FieldID, tenantModel.TableName))
		if err != nil {
			return nil, fmt.Errorf("failed to get tenant: %w", err)
		}

		if tenant.ID == constant.Empty {
			return nil, fmt.Errorf("tenant %s not found", opts.TenantID)
		}

		return []tenantModel.Tenant{tenant}, nil
	}

	tenants, err := r.tenants.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tenants: %w", err)
	}

	return tenants, nil
}
