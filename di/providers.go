package di

import (
	"time"

	"tally/config"
	"tally/internal/automation"
	"tally/internal/automation/jobs"
)

// ProvideRegistry assembles the static job registry. Jobs are registered
// here and nowhere else; intervals come from configuration.
func ProvideRegistry(
	reminder *jobs.Reminder,
	autoConfirm *jobs.AutoConfirm,
	noShow *jobs.NoShow,
	cfg *config.Config,
) *automation.Registry {
	return automation.NewRegistry(
		automation.Descriptor{
			Job:      reminder,
			Interval: time.Duration(cfg.Automation.ReminderTickSeconds) * time.Second,
		},
		automation.Descriptor{
			Job:      autoConfirm,
			Interval: time.Duration(cfg.Automation.AutoConfirmTickSecs) * time.Second,
		},
		automation.Descriptor{
			Job:      noShow,
			Interval: time.Duration(cfg.Automation.NoShowTickSeconds) * time.Second,
		},
	)
}
