package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"tally/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID               = "id"
	FieldTenantID         = "tenant_id"
	FieldCustomerName     = "customer_name"
	FieldCustomerEmail    = "customer_email"
	FieldCustomerPhone    = "customer_phone"
	FieldResourceID       = "resource_id"
	FieldStartTime        = "start_time"
	FieldEndTime          = "end_time"
	FieldDurationMinutes  = "duration_minutes"
	FieldStatus           = "status"
	FieldReminderSent     = "reminder_sent"
	FieldConfirmationSent = "confirmation_sent"
	FieldNotes            = "notes"
)

// Status is the lifecycle state of a booking. Transitions are
// one-directional: no edge ever returns a booking to an earlier state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no-show"
)

// transitions defines every legal status change. Both the operator CRUD
// layer and the automation jobs consult the same table.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

// ActiveStatuses are the states that occupy a resource's calendar and are
// still eligible for automation. Conflict checks and all job queries
// select on this set.
var ActiveStatuses = []string{string(StatusPending), string(StatusConfirmed)}

var ErrUnknownStatus = errors.New("unknown booking status")

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := transitions[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}

	return s, nil
}

// CanTransitionTo reports whether moving from s to next is a legal edge.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// IsTerminal reports whether no further transition can leave s.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// IsActive reports whether the booking still occupies its time slot.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) String() string {
	return string(s)
}

// Value implements driver.Valuer so the status column round-trips as text.
func (s Status) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *Status) Scan(src any) error {
	switch v := src.(type) {
	case string:
		*s = Status(v)
	case []byte:
		*s = Status(v)
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrUnknownStatus, src)
	}

	return nil
}

// Booking is a tenant-scoped appointment occupying the half-open interval
// [StartTime, EndTime). ResourceID is nil for bookings not bound to a
// staff member or asset; those never participate in conflicts.
type Booking struct {
	ID               string    `db:"id"`
	TenantID         string    `db:"tenant_id"`
	CustomerName     string    `db:"customer_name"`
	CustomerEmail    string    `db:"customer_email"`
	CustomerPhone    string    `db:"customer_phone"`
	ResourceID       *string   `db:"resource_id"`
	StartTime        time.Time `db:"start_time"`
	EndTime          time.Time `db:"end_time"`
	DurationMinutes  int       `db:"duration_minutes"`
	Status           Status    `db:"status"`
	ReminderSent     bool      `db:"reminder_sent"`
	ConfirmationSent bool      `db:"confirmation_sent"`
	Notes            string    `db:"notes"`
	model.Metadata
}

var (
	ErrInvalidInterval = errors.New("booking start time must be before end time")
	ErrInvalidDuration = errors.New("booking duration must be positive")
)

// Validate checks the interval invariants that every booking must hold.
func (b *Booking) Validate() error {
	if b.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}

	if !b.StartTime.Before(b.EndTime) {
		return ErrInvalidInterval
	}

	return nil
}

// RecomputeEnd derives EndTime from StartTime and DurationMinutes.
// The duration is authoritative whenever either changes.
func (b *Booking) RecomputeEnd() {
	b.EndTime = b.StartTime.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// HasContact reports whether any notification channel has a destination.
func (b *Booking) HasContact() bool {
	return b.CustomerEmail != "" || b.CustomerPhone != ""
}
