package automation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"tally/config"
	"tally/infras/otel/mocks"
	"tally/internal/automation"
	automationMocks "tally/internal/automation/mocks"
	tenantMocks "tally/internal/domains/tenant/mocks"
	tenantModel "tally/internal/domains/tenant/model"
)

func newRunner(t *testing.T, workers int) (automation.Runner, *tenantMocks.MockTenant, *automationMocks.MockJob) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockTenants := tenantMocks.NewMockTenant(ctrl)
	mockJob := automationMocks.NewMockJob(ctrl)
	mockJob.EXPECT().Name().Return("test_job").AnyTimes()

	cfg := &config.Config{}
	cfg.Automation.TenantWorkers = workers

	runner := automation.NewRunner(mockTenants, cfg, mocks.NewOtel())

	return runner, mockTenants, mockJob
}

func TestRunner_SweepsAllActiveTenants(t *testing.T) {
	runner, mockTenants, mockJob := newRunner(t, 4)

	tenants := []tenantModel.Tenant{
		{ID: "tenant-1", Name: "Warung Sederhana"},
		{ID: "tenant-2", Name: "Salon Melati"},
		{ID: "tenant-3", Name: "Bengkel Jaya"},
	}

	mockTenants.EXPECT().FindActive(gomock.Any()).Return(tenants, nil)

	mockJob.EXPECT().
		RunTenant(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ tenantModel.Tenant, result *automation.Result) error {
			result.MarkProcessed()

			return nil
		}).
		Times(3)

	result := runner.Run(context.Background(), mockJob, automation.Options{})

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Processed)
	assert.Zero(t, result.Failed)
}

func TestRunner_TenantFailureDoesNotAbortBatch(t *testing.T) {
	runner, mockTenants, mockJob := newRunner(t, 1)

	tenants := []tenantModel.Tenant{
		{ID: "tenant-1", Name: "Warung Sederhana"},
		{ID: "tenant-2", Name: "Salon Melati"},
		{ID: "tenant-3", Name: "Bengkel Jaya"},
	}

	mockTenants.EXPECT().FindActive(gomock.Any()).Return(tenants, nil)

	mockJob.EXPECT().
		RunTenant(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tenant tenantModel.Tenant, result *automation.Result) error {
			if tenant.ID == "tenant-2" {
				return errors.New("settings query failed")
			}

			result.MarkProcessed()

			return nil
		}).
		Times(3)

	result := runner.Run(context.Background(), mockJob, automation.Options{})

	assert.True(t, result.Success, "a failing tenant must not fail the invocation")
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.Errors, "Tenant Salon Melati: settings query failed")
}

func TestRunner_TopLevelErrorAborts(t *testing.T) {
	runner, mockTenants, mockJob := newRunner(t, 4)

	mockTenants.EXPECT().FindActive(gomock.Any()).Return(nil, errors.New("connection refused"))

	result := runner.Run(context.Background(), mockJob, automation.Options{})

	assert.False(t, result.Success)
	assert.Zero(t, result.Processed)
	assert.Contains(t, result.Message, "failed to enumerate tenants")
}

func TestRunner_ScopedToOneTenant(t *testing.T) {
	t.Run("runs exactly the requested tenant", func(t *testing.T) {
		runner, mockTenants, mockJob := newRunner(t, 4)

		mockTenants.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(tenantModel.Tenant{ID: "tenant-2", Name: "Salon Melati"}, nil)

		mockJob.EXPECT().
			RunTenant(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tenant tenantModel.Tenant, result *automation.Result) error {
				require.Equal(t, "tenant-2", tenant.ID)
				result.MarkProcessed()

				return nil
			})

		result := runner.Run(context.Background(), mockJob, automation.Options{TenantID: "tenant-2"})

		assert.True(t, result.Success)
		assert.Equal(t, 1, result.Processed)
	})

	t.Run("unknown tenant aborts", func(t *testing.T) {
		runner, mockTenants, mockJob := newRunner(t, 4)

		mockTenants.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(tenantModel.Tenant{}, nil)

		result := runner.Run(context.Background(), mockJob, automation.Options{TenantID: "missing"})

		assert.False(t, result.Success)
	})
}

func TestRunner_RecoversTenantPanic(t *testing.T) {
	runner, mockTenants, mockJob := newRunner(t, 2)

	tenants := []tenantModel.Tenant{
		{ID: "tenant-1", Name: "Warung Sederhana"},
		{ID: "tenant-2", Name: "Salon Melati"},
	}

	mockTenants.EXPECT().FindActive(gomock.Any()).Return(tenants, nil)

	mockJob.EXPECT().
		RunTenant(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tenant tenantModel.Tenant, result *automation.Result) error {
			if tenant.ID == "tenant-1" {
				panic("corrupted record")
			}

			result.MarkProcessed()

			return nil
		}).
		Times(2)

	result := runner.Run(context.Background(), mockJob, automation.Options{})

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Failed)
}
