package dto

import (
	"time"

	"github.com/google/uuid"

	"tally/internal/domains/booking/model"
	"tally/shared"
	gDto "tally/shared/dto"
	gModel "tally/shared/model"
)

type CreateBookingRequest struct {
	TenantID        string `json:"tenant_id"        validate:"required"`
	CustomerName    string `json:"customer_name"    validate:"required,max=100"`
	CustomerEmail   string `json:"customer_email"   validate:"omitempty,email,max=100"`
	CustomerPhone   string `json:"customer_phone"   validate:"omitempty,max=20"`
	ResourceID      string `json:"resource_id"      validate:"omitempty"`
	StartTime       string `json:"start_time"       validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
	Notes           string `json:"notes"            validate:"omitempty"`
}

// ToModel builds a pending booking from the request. EndTime is always
// derived from the duration; clients cannot supply it directly.
func (c *CreateBookingRequest) ToModel(user string) (model.Booking, error) {
	startTime, err := time.Parse(time.RFC3339, c.StartTime)
	if err != nil {
		return model.Booking{}, err
	}

	var resourceID *string
	if c.ResourceID != "" {
		resourceID = &c.ResourceID
	}

	now := time.Now().UTC()

	booking := model.Booking{
		ID:              uuid.NewString(),
		TenantID:        c.TenantID,
		CustomerName:    c.CustomerName,
		CustomerEmail:   c.CustomerEmail,
		CustomerPhone:   c.CustomerPhone,
		ResourceID:      resourceID,
		StartTime:       startTime.UTC(),
		DurationMinutes: c.DurationMinutes,
		Status:          model.StatusPending,
		Notes:           c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
	booking.RecomputeEnd()

	if err := booking.Validate(); err != nil {
		return model.Booking{}, err
	}

	return booking, nil
}

type UpdateBookingRequest struct {
	CustomerName    string `db:"customer_name"  json:"customer_name"    validate:"omitempty,max=100"`
	CustomerEmail   string `db:"customer_email" json:"customer_email"   validate:"omitempty,email,max=100"`
	CustomerPhone   string `db:"customer_phone" json:"customer_phone"   validate:"omitempty,max=20"`
	ResourceID      string `db:"resource_id"    json:"resource_id"      validate:"omitempty"`
	StartTime       string `json:"start_time"       validate:"omitempty"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,gt=0"`
	Status          string `db:"status"         json:"status"           validate:"omitempty,bookingstatus"`
	Notes           string `db:"notes"          json:"notes"            validate:"omitempty"`
}

type TransitionBookingRequest struct {
	Status string `json:"status" validate:"required,bookingstatus"`
}

type BookingResponse struct {
	ID               string `json:"id"`
	TenantID         string `json:"tenant_id"`
	CustomerName     string `json:"customer_name"`
	CustomerEmail    string `json:"customer_email"`
	CustomerPhone    string `json:"customer_phone"`
	ResourceID       string `json:"resource_id,omitempty"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	DurationMinutes  int    `json:"duration_minutes"`
	Status           string `json:"status"`
	ReminderSent     bool   `json:"reminder_sent"`
	ConfirmationSent bool   `json:"confirmation_sent"`
	Notes            string `json:"notes,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.TenantID = model.TenantID
	r.CustomerName = model.CustomerName
	r.CustomerEmail = model.CustomerEmail
	r.CustomerPhone = model.CustomerPhone

	if model.ResourceID != nil {
		r.ResourceID = *model.ResourceID
	}

	r.StartTime = model.StartTime.Format(time.RFC3339)
	r.EndTime = model.EndTime.Format(time.RFC3339)
	r.DurationMinutes = model.DurationMinutes
	r.Status = model.Status.String()
	r.ReminderSent = model.ReminderSent
	r.ConfirmationSent = model.ConfirmationSent
	r.Notes = model.Notes
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
