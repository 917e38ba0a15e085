package dto

import (
	"time"

	"tally/internal/automation"
	"tally/internal/automation/runlog/model"
	"tally/shared"
)

type RunResponse struct {
	ID         string              `json:"id"`
	JobName    string              `json:"job_name"`
	TenantID   string              `json:"tenant_id,omitempty"`
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Processed  int                 `json:"processed"`
	Failed     int                 `json:"failed"`
	Errors     []string            `json:"errors"`
	Changes    []automation.Change `json:"changes"`
	StartedAt  string              `json:"started_at"`
	FinishedAt string              `json:"finished_at"`
}

func (r *RunResponse) FromModel(model model.Run) {
	r.ID = model.ID
	r.JobName = model.JobName
	r.TenantID = model.TenantID
	r.Success = model.Success
	r.Message = model.Message
	r.Processed = model.Processed
	r.Failed = model.Failed
	r.Errors = model.Errors
	r.Changes = model.Changes
	r.StartedAt = model.StartedAt.Format(time.RFC3339)
	r.FinishedAt = model.FinishedAt.Format(time.RFC3339)
}

type GetRunsResponse struct {
	Runs      []RunResponse `json:"runs"`
	TotalPage int           `json:"total_page"`
	TotalData int           `json:"total_data"`
}

func (r *GetRunsResponse) FromModels(models []model.Run, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Runs = make([]RunResponse, len(models))
	for i, mod := range models {
		r.Runs[i].FromModel(mod)
	}
}
