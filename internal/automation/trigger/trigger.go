package trigger

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"tally/config"
	"tally/internal/automation"
	"tally/internal/automation/service"
)

// Trigger drives the registered jobs on their recurrence intervals. One
// invocation is one full tenant sweep; a new tick for the same job does not
// start until the previous sweep returned.
type Trigger struct {
	engine   service.Engine
	registry *automation.Registry
	cfg      *config.Config

	wg sync.WaitGroup
}

func New(engine service.Engine, registry *automation.Registry, cfg *config.Config) *Trigger {
	return &Trigger{
		engine:   engine,
		registry: registry,
		cfg:      cfg,
	}
}

// Start launches one ticker loop per registered job and returns. Loops
// stop when the context is cancelled; Wait blocks until in-flight sweeps
// have drained.
func (t *Trigger) Start(ctx context.Context) {
	if !t.cfg.Automation.TriggerEnable {
		log.Info().Msg("automation trigger disabled")

		return
	}

	for _, descriptor := range t.registry.All() {
		t.wg.Add(1)

		go t.loop(ctx, descriptor)
	}

	log.Info().Strs("jobs", t.registry.Names()).Msg("automation trigger started")
}

func (t *Trigger) Wait() {
	t.wg.Wait()
}

func (t *Trigger) loop(ctx context.Context, descriptor automation.Descriptor) {
	defer t.wg.Done()

	ticker := time.NewTicker(descriptor.Interval)
	defer ticker.Stop()

	// Run once at startup so a due sweep is not postponed by a full interval
	// after a restart.
	t.sweep(ctx, descriptor.Job.Name())

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.sweep(ctx, descriptor.Job.Name())
		}
	}
}

func (t *Trigger) sweep(ctx context.Context, jobName string) {
	result, err := t.engine.Trigger(ctx, jobName, automation.Options{})
	if err != nil {
		log.Error().Err(err).Str("job", jobName).Msg("scheduled sweep failed")

		return
	}

	if !result.Success {
		log.Error().Str("job", jobName).Str("message", result.Message).Msg("scheduled sweep aborted")
	}
}
