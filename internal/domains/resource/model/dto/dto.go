package dto

import (
	"time"

	"github.com/google/uuid"

	"tally/internal/domains/resource/model"
	"tally/shared"
	gDto "tally/shared/dto"
	gModel "tally/shared/model"
)

type CreateResourceRequest struct {
	TenantID string `json:"tenant_id" validate:"required"`
	Name     string `json:"name"      validate:"required,max=100"`
	Category string `json:"category"  validate:"omitempty,max=50"`
	Capacity int    `json:"capacity"  validate:"omitempty,min=0"`
	Active   *bool  `json:"active"    validate:"omitempty"`
}

func (c *CreateResourceRequest) ToModel(user string) model.Resource {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	now := time.Now().UTC()

	return model.Resource{
		ID:       uuid.NewString(),
		TenantID: c.TenantID,
		Name:     c.Name,
		Category: c.Category,
		Capacity: c.Capacity,
		Active:   active,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateResourceRequest struct {
	Name     string `db:"name"     json:"name"     validate:"omitempty,max=100"`
	Category string `db:"category" json:"category" validate:"omitempty,max=50"`
	Capacity *int   `db:"capacity" json:"capacity" validate:"omitempty,min=0"`
	Active   *bool  `db:"active"   json:"active"   validate:"omitempty"`
}

type ResourceResponse struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Capacity int    `json:"capacity"`
	Active   bool   `json:"active"`
	gDto.Metadata
}

func (r *ResourceResponse) FromModel(model model.Resource) {
	r.ID = model.ID
	r.TenantID = model.TenantID
	r.Name = model.Name
	r.Category = model.Category
	r.Capacity = model.Capacity
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetResourcesResponse struct {
	Resources []ResourceResponse `json:"resources"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetResourcesResponse) FromModels(models []model.Resource, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Resources = make([]ResourceResponse, len(models))
	for i, mod := range models {
		r.Resources[i].FromModel(mod)
	}
}
