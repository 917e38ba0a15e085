package jobs

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"tally/config"
	"tally/internal/automation"
	"tally/internal/domains/booking/conflict"
	bookingModel "tally/internal/domains/booking/model"
	bookingRepo "tally/internal/domains/booking/repository"
	tenantModel "tally/internal/domains/tenant/model"
	"tally/internal/notify"
)

// AutoConfirm moves pending bookings to confirmed once the conflict check
// clears. The confirmation notification goes out first; the status and the
// confirmation_sent flag are then written in a single statement, so a crash
// in between causes a repeated confirmation attempt rather than a lost
// transition. A pending booking that would collide with another active
// booking on the same resource is left alone and reported, not failed.
type AutoConfirm struct {
	bookings bookingRepo.Booking
	detector conflict.Detector
	notifier notify.Notifier
	cfg      *config.Config
}

func NewAutoConfirm(bookings bookingRepo.Booking, detector conflict.Detector, notifier notify.Notifier, cfg *config.Config) *AutoConfirm {
	return &AutoConfirm{
		bookings: bookings,
		detector: detector,
		notifier: notifier,
		cfg:      cfg,
	}
}

func (j *AutoConfirm) Name() string {
	return "auto_confirm"
}

func (j *AutoConfirm) RunTenant(ctx context.Context, tenant tenantModel.Tenant, result *automation.Result) error {
	candidates, err := j.bookings.FindUnconfirmed(ctx, tenant.ID)
	if err != nil {
		return fmt.Errorf("failed to query unconfirmed bookings: %w", err)
	}

	for _, booking := range candidates {
		if booking.StartTime.IsZero() {
			result.ItemError(booking.ID, errMissingStartTime)

			continue
		}

		hasConflict, err := j.detector.HasConflict(ctx, tenant.ID, booking.StartTime, booking.EndTime, booking.ResourceID, booking.ID)
		if err != nil {
			result.ItemError(booking.ID, err)

			continue
		}

		if hasConflict {
			log.Warn().Str("booking_id", booking.ID).Str("tenant_id", tenant.ID).Msg("booking left pending, window is contested")

			result.AddChange(automation.OtherChange("not_confirmed", booking.ID))

			continue
		}

		// Dispatch failure is non-fatal: the business event stands, so the
		// transition still goes through.
		if err := j.notifier.SendConfirmation(ctx, tenant, booking); err != nil {
			result.NoteError(fmt.Errorf("Booking %s: %w", booking.ID, err))
		}

		if err := j.bookings.UpdateStatus(ctx, booking.ID, bookingModel.StatusConfirmed, map[string]any{
			bookingModel.FieldConfirmationSent: true,
		}); err != nil {
			result.ItemError(booking.ID, err)

			continue
		}

		result.AddChange(automation.StatusChange(booking.ID, bookingModel.StatusPending.String(), bookingModel.StatusConfirmed.String()))
		result.AddChange(automation.FlagSet(booking.ID, bookingModel.FieldConfirmationSent))
		result.MarkProcessed()
	}

	return nil
}
