package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tally/internal/domains/booking/model"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    model.Status
		to      model.Status
		allowed bool
	}{
		{name: "pending to confirmed", from: model.StatusPending, to: model.StatusConfirmed, allowed: true},
		{name: "pending to cancelled", from: model.StatusPending, to: model.StatusCancelled, allowed: true},
		{name: "pending to no-show", from: model.StatusPending, to: model.StatusNoShow, allowed: true},
		{name: "pending to completed skips confirmation", from: model.StatusPending, to: model.StatusCompleted, allowed: false},
		{name: "confirmed to completed", from: model.StatusConfirmed, to: model.StatusCompleted, allowed: true},
		{name: "confirmed to cancelled", from: model.StatusConfirmed, to: model.StatusCancelled, allowed: true},
		{name: "confirmed to no-show", from: model.StatusConfirmed, to: model.StatusNoShow, allowed: true},
		{name: "confirmed back to pending", from: model.StatusConfirmed, to: model.StatusPending, allowed: false},
		{name: "completed is terminal", from: model.StatusCompleted, to: model.StatusCancelled, allowed: false},
		{name: "cancelled is terminal", from: model.StatusCancelled, to: model.StatusPending, allowed: false},
		{name: "no-show never reverts", from: model.StatusNoShow, to: model.StatusPending, allowed: false},
		{name: "no-show never confirms", from: model.StatusNoShow, to: model.StatusConfirmed, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusTerminality(t *testing.T) {
	assert.False(t, model.StatusPending.IsTerminal())
	assert.False(t, model.StatusConfirmed.IsTerminal())
	assert.True(t, model.StatusCompleted.IsTerminal())
	assert.True(t, model.StatusCancelled.IsTerminal())
	assert.True(t, model.StatusNoShow.IsTerminal())
}

func TestStatusActivity(t *testing.T) {
	assert.True(t, model.StatusPending.IsActive())
	assert.True(t, model.StatusConfirmed.IsActive())
	assert.False(t, model.StatusCompleted.IsActive())
	assert.False(t, model.StatusCancelled.IsActive())
	assert.False(t, model.StatusNoShow.IsActive())
}

func TestParseStatus(t *testing.T) {
	status, err := model.ParseStatus("no-show")
	assert.NoError(t, err)
	assert.Equal(t, model.StatusNoShow, status)

	_, err = model.ParseStatus("archived")
	assert.ErrorIs(t, err, model.ErrUnknownStatus)
}

func TestBookingValidate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		booking model.Booking
		wantErr error
	}{
		{
			name: "valid booking",
			booking: model.Booking{
				StartTime:       now,
				EndTime:         now.Add(30 * time.Minute),
				DurationMinutes: 30,
			},
			wantErr: nil,
		},
		{
			name: "zero duration",
			booking: model.Booking{
				StartTime:       now,
				EndTime:         now,
				DurationMinutes: 0,
			},
			wantErr: model.ErrInvalidDuration,
		},
		{
			name: "end before start",
			booking: model.Booking{
				StartTime:       now,
				EndTime:         now.Add(-time.Minute),
				DurationMinutes: 30,
			},
			wantErr: model.ErrInvalidInterval,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.booking.Validate()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecomputeEnd(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	booking := model.Booking{
		StartTime:       start,
		DurationMinutes: 45,
	}
	booking.RecomputeEnd()

	assert.Equal(t, start.Add(45*time.Minute), booking.EndTime)
}
