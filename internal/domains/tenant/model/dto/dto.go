package dto

import (
	"time"

	"github.com/google/uuid"

	"tally/internal/domains/tenant/model"
	"tally/shared"
	gDto "tally/shared/dto"
	gModel "tally/shared/model"
)

type CreateTenantRequest struct {
	Name               string `json:"name"                validate:"required,max=100"`
	APIKey             string `json:"api_key"             validate:"required,min=16"`
	EmailNotifications *bool  `json:"email_notifications" validate:"omitempty"`
	SMSNotifications   *bool  `json:"sms_notifications"   validate:"omitempty"`
	ReminderHours      int    `json:"reminder_hours"      validate:"omitempty,min=0,max=168"`
	GraceMinutes       int    `json:"grace_minutes"       validate:"omitempty,min=0,max=1440"`
	Timezone           string `json:"timezone"            validate:"omitempty,max=50"`
}

// ToModel builds an active tenant. The API key arrives in plain text and is
// stored only as a hash, which the caller supplies.
func (c *CreateTenantRequest) ToModel(user, apiKeyHash string) model.Tenant {
	emailNotifications := true
	if c.EmailNotifications != nil {
		emailNotifications = *c.EmailNotifications
	}

	smsNotifications := false
	if c.SMSNotifications != nil {
		smsNotifications = *c.SMSNotifications
	}

	now := time.Now().UTC()

	return model.Tenant{
		ID:         uuid.NewString(),
		Name:       c.Name,
		Active:     true,
		APIKeyHash: apiKeyHash,
		Settings: model.Settings{
			EmailNotifications: emailNotifications,
			SMSNotifications:   smsNotifications,
			ReminderHours:      c.ReminderHours,
			GraceMinutes:       c.GraceMinutes,
			Timezone:           c.Timezone,
		},
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateTenantRequest struct {
	Name               string `db:"name"                json:"name"                validate:"omitempty,max=100"`
	Active             *bool  `db:"active"              json:"active"              validate:"omitempty"`
	EmailNotifications *bool  `db:"email_notifications" json:"email_notifications" validate:"omitempty"`
	SMSNotifications   *bool  `db:"sms_notifications"   json:"sms_notifications"   validate:"omitempty"`
	ReminderHours      *int   `db:"reminder_hours"      json:"reminder_hours"      validate:"omitempty,min=0,max=168"`
	GraceMinutes       *int   `db:"grace_minutes"       json:"grace_minutes"       validate:"omitempty,min=0,max=1440"`
	Timezone           string `db:"timezone"            json:"timezone"            validate:"omitempty,max=50"`
}

type TenantResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Active             bool   `json:"active"`
	EmailNotifications bool   `json:"email_notifications"`
	SMSNotifications   bool   `json:"sms_notifications"`
	ReminderHours      int    `json:"reminder_hours"`
	GraceMinutes       int    `json:"grace_minutes"`
	Timezone           string `json:"timezone"`
	gDto.Metadata
}

func (r *TenantResponse) FromModel(model model.Tenant) {
	r.ID = model.ID
	r.Name = model.Name
	r.Active = model.Active
	r.EmailNotifications = model.EmailNotifications
	r.SMSNotifications = model.SMSNotifications
	r.ReminderHours = model.ReminderHours
	r.GraceMinutes = model.GraceMinutes
	r.Timezone = model.Timezone
	r.Metadata.FromModel(model.Metadata)
}

type GetTenantsResponse struct {
	Tenants   []TenantResponse `json:"tenants"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetTenantsResponse) FromModels(models []model.Tenant, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Tenants = make([]TenantResponse, len(models))
	for i, mod := range models {
		r.Tenants[i].FromModel(mod)
	}
}
