package model

import "tally/shared/model"

const (
	TableName  = "resources"
	EntityName = "resource"

	FieldID       = "id"
	FieldTenantID = "tenant_id"
	FieldName     = "name"
	FieldCategory = "category"
	FieldCapacity = "capacity"
	FieldActive   = "active"
)

// Resource is a bookable unit owned by a tenant: a table, a chair, a
// treatment room. Conflict detection only compares bookings that point
// at the same resource.
type Resource struct {
	ID       string `db:"id"`
	TenantID string `db:"tenant_id"`
	Name     string `db:"name"`
	Category string `db:"category"`
	Capacity int    `db:"capacity"`
	Active   bool   `db:"active"`
	model.Metadata
}
