package model

import "tally/shared/model"

const (
	TableName  = "tenants"
	EntityName = "tenant"

	FieldID                 = "id"
	FieldName               = "name"
	FieldActive             = "active"
	FieldAPIKeyHash         = "api_key_hash"
	FieldEmailNotifications = "email_notifications"
	FieldSMSNotifications   = "sms_notifications"
	FieldReminderHours      = "reminder_hours"
	FieldGraceMinutes       = "grace_minutes"
	FieldTimezone           = "timezone"
)

// Settings holds per-tenant automation preferences. Zero values for
// ReminderHours and GraceMinutes mean the platform defaults apply.
type Settings struct {
	EmailNotifications bool   `db:"email_notifications"`
	SMSNotifications   bool   `db:"sms_notifications"`
	ReminderHours      int    `db:"reminder_hours"`
	GraceMinutes       int    `db:"grace_minutes"`
	Timezone           string `db:"timezone"`
}

// NotificationsEnabled reports whether at least one delivery channel is on.
func (s Settings) NotificationsEnabled() bool {
	return s.EmailNotifications || s.SMSNotifications
}

type Tenant struct {
	ID         string `db:"id"`
	Name       string `db:"name"`
	Active     bool   `db:"active"`
	APIKeyHash string `db:"api_key_hash"`
	Settings
	model.Metadata
}
