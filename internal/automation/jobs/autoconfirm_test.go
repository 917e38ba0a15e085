package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"tally/internal/automation"
	"tally/internal/automation/jobs"
	bookingMocks "tally/internal/domains/booking/mocks"
	bookingModel "tally/internal/domains/booking/model"
	notifyMocks "tally/internal/notify/mocks"
)

func pendingBooking(id string, resourceID string, start time.Time, minutes int) bookingModel.Booking {
	booking := bookingModel.Booking{
		ID:              id,
		TenantID:        "tenant-1",
		CustomerName:    "Dina Marlina",
		CustomerEmail:   "dina@example.com",
		ResourceID:      &resourceID,
		StartTime:       start,
		DurationMinutes: minutes,
		Status:          bookingModel.StatusPending,
	}
	booking.RecomputeEnd()

	return booking
}

func TestAutoConfirm_ConfirmsWhenWindowIsFree(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockBookings := bookingMocks.NewMockBooking(ctrl)
	mockDetector := bookingMocks.NewMockDetector(ctrl)
	mockNotifier := notifyMocks.NewMockNotifier(ctrl)

	job := jobs.NewAutoConfirm(mockBookings, mockDetector, mockNotifier, testConfig())
	tenant := emailTenant()
	booking := pendingBooking("booking-1", "table-7", time.Now().UTC().Add(2*time.Hour), 30)

	mockBookings.EXPECT().
		FindUnconfirmed(gomock.Any(), "tenant-1").
		Return([]bookingModel.Booking{booking}, nil)

	mockDetector.EXPECT().
		HasConflict(gomock.Any(), "tenant-1", booking.StartTime, booking.EndTime, booking.ResourceID, "booking-1").
		Return(false, nil)

	mockNotifier.EXPECT().
		SendConfirmation(gomock.Any(), tenant, booking).
		Return(nil)

	mockBookings.EXPECT().
		UpdateStatus(gomock.Any(), "booking-1", bookingModel.StatusConfirmed, map[string]any{
			bookingModel.FieldConfirmationSent: true,
		}).
		Return(nil)

	result := automation.NewResult(job.Name())
	require.NoError(t, job.RunTenant(context.Background(), tenant, result))

	assert.Equal(t, 1, result.Processed)
	assert.Zero(t, result.Failed)
}

func TestAutoConfirm_ConflictBlocksConfirmation(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockBookings := bookingMocks.NewMockBooking(ctrl)
	mockDetector := bookingMocks.NewMockDetector(ctrl)
	mockNotifier := notifyMocks.NewMockNotifier(ctrl)

	job := jobs.NewAutoConfirm(mockBookings, mockDetector, mockNotifier, testConfig())
	tenant := emailTenant()

	// Two pending bookings contest [10:00,10:30) and [10:15,10:45) on the
	// same resource. Confirming the first removes the second's window.
	base := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	first := pendingBooking("booking-1", "staff-1", base, 30)
	second := pendingBooking("booking-2", "staff-1", base.Add(15*time.Minute), 30)

	mockBookings.EXPECT().
		FindUnconfirmed(gomock.Any(), "tenant-1").
		Return([]bookingModel.Booking{first, second}, nil)

	mockDetector.EXPECT().
		HasConflict(gomock.Any(), "tenant-1", first.StartTime, first.EndTime, first.ResourceID, "booking-1").
		Return(false, nil)

	mockDetector.EXPECT().
		HasConflict(gomock.Any(), "tenant-1", second.StartTime, second.EndTime, second.ResourceID, "booking-2").
		Return(true, nil)

	mockNotifier.EXPECT().
		SendConfirmation(gomock.Any(), tenant, first).
		Return(nil)

	mockBookings.EXPECT().
		UpdateStatus(gomock.Any(), "booking-1", bookingModel.StatusConfirmed, gomock.Any()).
		Return(nil)

	result := automation.NewResult(job.Name())
	require.NoError(t, job.RunTenant(context.Background(), tenant, result))
	result.Finish()

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Processed)
	assert.Zero(t, result.Failed, "a contested booking is not an error")

	var notConfirmed []string

	for _, change := range result.Changes {
		if change.Kind == automation.ChangeKindOther && change.Key == "not_confirmed" {
			notConfirmed = append(notConfirmed, change.Value)
		}
	}

	assert.Equal(t, []string{"booking-2"}, notConfirmed)
}

func TestAutoConfirm_DispatchFailureStillTransitions(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockBookings := bookingMocks.NewMockBooking(ctrl)
	mockDetector := bookingMocks.NewMockDetector(ctrl)
	mockNotifier := notifyMocks.NewMockNotifier(ctrl)

	job := jobs.NewAutoConfirm(mockBookings, mockDetector, mockNotifier, testConfig())
	tenant := emailTenant()
	booking := pendingBooking("booking-1", "table-7", time.Now().UTC().Add(2*time.Hour), 30)

	mockBookings.EXPECT().
		FindUnconfirmed(gomock.Any(), "tenant-1").
		Return([]bookingModel.Booking{booking}, nil)

	mockDetector.EXPECT().
		HasConflict(gomock.Any(), "tenant-1", gomock.Any(), gomock.Any(), gomock.Any(), "booking-1").
		Return(false, nil)

	mockNotifier.EXPECT().
		SendConfirmation(gomock.Any(), tenant, booking).
		Return(errors.New("smtp unavailable"))

	mockBookings.EXPECT().
		UpdateStatus(gomock.Any(), "booking-1", bookingModel.StatusConfirmed, gomock.Any()).
		Return(nil)

	result := automation.NewResult(job.Name())
	require.NoError(t, job.RunTenant(context.Background(), tenant, result))

	assert.Equal(t, 1, result.Processed, "transport failure must not block the transition")
	assert.Zero(t, result.Failed)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "smtp unavailable")
}

func TestAutoConfirm_StatusWriteFailureIsItemError(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockBookings := bookingMocks.NewMockBooking(ctrl)
	mockDetector := bookingMocks.NewMockDetector(ctrl)
	mockNotifier := notifyMocks.NewMockNotifier(ctrl)

	job := jobs.NewAutoConfirm(mockBookings, mockDetector, mockNotifier, testConfig())
	tenant := emailTenant()
	booking := pendingBooking("booking-1", "table-7", time.Now().UTC().Add(2*time.Hour), 30)

	mockBookings.EXPECT().
		FindUnconfirmed(gomock.Any(), "tenant-1").
		Return([]bookingModel.Booking{booking}, nil)

	mockDetector.EXPECT().
		HasConflict(gomock.Any(), "tenant-1", gomock.Any(), gomock.Any(), gomock.Any(), "booking-1").
		Return(false, nil)

	mockNotifier.EXPECT().
		SendConfirmation(gomock.Any(), tenant, booking).
		Return(nil)

	mockBookings.EXPECT().
		UpdateStatus(gomock.Any(), "booking-1", bookingModel.StatusConfirmed, gomock.Any()).
		Return(errors.New("write refused"))

	result := automation.NewResult(job.Name())
	require.NoError(t, job.RunTenant(context.Background(), tenant, result))

	assert.Zero(t, result.Processed)
	assert.Equal(t, 1, result.Failed)
}
