package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"tally/config"
	"tally/infras/otel/mocks"
	"tally/internal/automation"
	automationMocks "tally/internal/automation/mocks"
	runlogMocks "tally/internal/automation/runlog/mocks"
	runlogModel "tally/internal/automation/runlog/model"
	"tally/internal/automation/service"
	"tally/shared/failure"
)

type deps struct {
	runner   *automationMocks.MockRunner
	job      *automationMocks.MockJob
	runs     *runlogMocks.MockRun
	archiver *automationMocks.MockArchiver
	cfg      *config.Config
}

func newEngine(t *testing.T) (service.Engine, deps) {
	t.Helper()

	ctrl := gomock.NewController(t)

	d := deps{
		runner:   automationMocks.NewMockRunner(ctrl),
		job:      automationMocks.NewMockJob(ctrl),
		runs:     runlogMocks.NewMockRun(ctrl),
		archiver: automationMocks.NewMockArchiver(ctrl),
		cfg:      &config.Config{},
	}

	d.job.EXPECT().Name().Return("reminder_dispatch").AnyTimes()

	registry := automation.NewRegistry(automation.Descriptor{Job: d.job, Interval: time.Minute})

	engine := service.NewEngine(d.runner, registry, d.runs, d.archiver, d.cfg, mocks.NewOtel())

	return engine, d
}

func TestEngine_TriggerUnknownJob(t *testing.T) {
	engine, _ := newEngine(t)

	_, err := engine.Trigger(context.Background(), "defrag_disk", automation.Options{})

	require.Error(t, err)
	assert.Equal(t, 404, failure.GetCode(err))
}

func TestEngine_TriggerRunsAndPersists(t *testing.T) {
	engine, d := newEngine(t)

	want := automation.NewResult("reminder_dispatch")
	want.MarkProcessed()
	want.Finish()

	d.runner.EXPECT().
		Run(gomock.Any(), d.job, automation.Options{TenantID: "tenant-1"}).
		Return(want)

	var persisted runlogModel.Run

	d.runs.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, run runlogModel.Run) error {
			persisted = run

			return nil
		})

	result, err := engine.Trigger(context.Background(), "reminder_dispatch", automation.Options{TenantID: "tenant-1"})

	require.NoError(t, err)
	assert.Same(t, want, result)
	assert.NotEmpty(t, persisted.ID)
	assert.Equal(t, "reminder_dispatch", persisted.JobName)
	assert.Equal(t, "tenant-1", persisted.TenantID)
	assert.Equal(t, 1, persisted.Processed)
	assert.True(t, persisted.Success)
}

func TestEngine_ArchivesWhenEnabled(t *testing.T) {
	engine, d := newEngine(t)
	d.cfg.Automation.ArchiveRuns = true

	want := automation.NewResult("reminder_dispatch").Finish()

	d.runner.EXPECT().Run(gomock.Any(), d.job, gomock.Any()).Return(want)
	d.runs.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
	d.archiver.EXPECT().Archive(gomock.Any(), want).Return(nil)

	_, err := engine.Trigger(context.Background(), "reminder_dispatch", automation.Options{})

	require.NoError(t, err)
}

func TestEngine_Jobs(t *testing.T) {
	engine, _ := newEngine(t)

	assert.Equal(t, []string{"reminder_dispatch"}, engine.Jobs())
}
