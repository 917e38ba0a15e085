package trigger_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"tally/config"
	"tally/internal/automation"
	automationMocks "tally/internal/automation/mocks"
	"tally/internal/automation/trigger"
)

func newTrigger(t *testing.T, enabled bool) (*trigger.Trigger, *automationMocks.MockEngine) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockEngine := automationMocks.NewMockEngine(ctrl)

	mockJob := automationMocks.NewMockJob(ctrl)
	mockJob.EXPECT().Name().Return("reminder_dispatch").AnyTimes()

	// The interval is far beyond the test lifetime, so any sweep the
	// engine sees must come from the startup run rather than a tick.
	registry := automation.NewRegistry(automation.Descriptor{Job: mockJob, Interval: time.Hour})

	cfg := &config.Config{}
	cfg.Automation.TriggerEnable = enabled

	return trigger.New(mockEngine, registry, cfg), mockEngine
}

func TestTrigger_SweepsOnStart(t *testing.T) {
	trig, mockEngine := newTrigger(t, true)

	swept := make(chan string, 1)

	mockEngine.EXPECT().
		Trigger(gomock.Any(), "reminder_dispatch", automation.Options{}).
		DoAndReturn(func(_ context.Context, jobName string, _ automation.Options) (*automation.Result, error) {
			swept <- jobName

			return automation.NewResult(jobName), nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	trig.Start(ctx)

	select {
	case <-swept:
	case <-time.After(2 * time.Second):
		t.Fatal("no sweep ran at startup")
	}

	cancel()
	trig.Wait()
}

func TestTrigger_Disabled(t *testing.T) {
	trig, _ := newTrigger(t, false)

	trig.Start(context.Background())
	trig.Wait()
}
