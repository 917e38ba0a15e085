package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"tally/config"
	"tally/internal/automation"
	bookingRepo "tally/internal/domains/booking/repository"
	tenantModel "tally/internal/domains/tenant/model"
	"tally/internal/notify"
)

var errMissingStartTime = errors.New("booking has no start time")

// Reminder dispatches upcoming-booking reminders. A booking qualifies when
// its start time falls inside [now+hoursBefore, now+hoursBefore+window),
// it is still active, and no reminder has been sent for it yet. The
// reminder_sent flag is written only after a successful dispatch, so a
// failed send is retried by the next run.
type Reminder struct {
	bookings bookingRepo.Booking
	notifier notify.Notifier
	cfg      *config.Config
}

func NewReminder(bookings bookingRepo.Booking, notifier notify.Notifier, cfg *config.Config) *Reminder {
	return &Reminder{
		bookings: bookings,
		notifier: notifier,
		cfg:      cfg,
	}
}

func (j *Reminder) Name() string {
	return "reminder_dispatch"
}

func (j *Reminder) RunTenant(ctx context.Context, tenant tenantModel.Tenant, result *automation.Result) error {
	// Both channels off means nothing could ever be delivered, so the
	// candidate query is skipped entirely.
	if !tenant.Settings.NotificationsEnabled() {
		log.Debug().Str("tenant_id", tenant.ID).Msg("notifications disabled, skipping reminder sweep")

		return nil
	}

	hoursBefore := tenant.ReminderHours
	if hoursBefore <= 0 {
		hoursBefore = j.cfg.Automation.ReminderHoursBefore
	}

	window := time.Duration(j.cfg.Automation.ReminderWindowMinutes) * time.Minute

	from := time.Now().UTC().Add(time.Duration(hoursBefore) * time.Hour)
	to := from.Add(window)

	candidates, err := j.bookings.FindInWindow(ctx, tenant.ID, from, to, false)
	if err != nil {
		return fmt.Errorf("failed to query reminder candidates: %w", err)
	}

	for _, booking := range candidates {
		if booking.StartTime.IsZero() {
			result.ItemError(booking.ID, errMissingStartTime)

			continue
		}

		if booking.ReminderSent {
			continue
		}

		if err := j.notifier.SendReminder(ctx, tenant, booking); err != nil {
			result.ItemError(booking.ID, err)

			continue
		}

		if err := j.bookings.MarkReminderSent(ctx, booking.ID); err != nil {
			log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to persist reminder flag")

			result.ItemError(booking.ID, err)

			continue
		}

		result.AddChange(automation.FlagSet(booking.ID, "reminder_sent"))
		result.MarkProcessed()
	}

	return nil
}
