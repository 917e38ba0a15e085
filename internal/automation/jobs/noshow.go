package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"tally/config"
	"tally/internal/automation"
	bookingModel "tally/internal/domains/booking/model"
	bookingRepo "tally/internal/domains/booking/repository"
	tenantModel "tally/internal/domains/tenant/model"
	"tally/internal/notify"
)

// NoShow marks overdue active bookings as no-shows. The transition itself
// is the idempotency guard: once a booking is no-show it falls out of the
// candidate query and is never selected again. The follow-up notification
// is best effort and never blocks the transition.
type NoShow struct {
	bookings bookingRepo.Booking
	notifier notify.Notifier
	cfg      *config.Config
}

func NewNoShow(bookings bookingRepo.Booking, notifier notify.Notifier, cfg *config.Config) *NoShow {
	return &NoShow{
		bookings: bookings,
		notifier: notifier,
		cfg:      cfg,
	}
}

func (j *NoShow) Name() string {
	return "no_show_detection"
}

func (j *NoShow) RunTenant(ctx context.Context, tenant tenantModel.Tenant, result *automation.Result) error {
	graceMinutes := tenant.GraceMinutes
	if graceMinutes <= 0 {
		graceMinutes = j.cfg.Automation.NoShowGraceMinutes
	}

	cutoff := time.Now().UTC().Add(-time.Duration(graceMinutes) * time.Minute)

	candidates, err := j.bookings.FindOverdue(ctx, tenant.ID, cutoff)
	if err != nil {
		return fmt.Errorf("failed to query overdue bookings: %w", err)
	}

	for _, booking := range candidates {
		if booking.StartTime.IsZero() {
			result.ItemError(booking.ID, errMissingStartTime)

			continue
		}

		previous := booking.Status

		if err := j.bookings.UpdateStatus(ctx, booking.ID, bookingModel.StatusNoShow, nil); err != nil {
			result.ItemError(booking.ID, err)

			continue
		}

		result.AddChange(automation.StatusChange(booking.ID, previous.String(), bookingModel.StatusNoShow.String()))
		result.MarkProcessed()

		if err := j.notifier.SendFollowUp(ctx, tenant, booking); err != nil {
			log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to send no-show follow-up")

			result.NoteError(fmt.Errorf("Booking %s: %w", booking.ID, err))
		}
	}

	return nil
}
