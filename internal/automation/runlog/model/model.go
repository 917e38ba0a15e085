package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"tally/internal/automation"
)

const (
	TableName  = "automation_runs"
	EntityName = "automation_run"

	FieldID         = "id"
	FieldJobName    = "job_name"
	FieldTenantID   = "tenant_id"
	FieldSuccess    = "success"
	FieldMessage    = "message"
	FieldProcessed  = "processed"
	FieldFailed     = "failed"
	FieldStartedAt  = "started_at"
	FieldFinishedAt = "finished_at"
)

// ChangeList stores the audited mutations of a run as a jsonb column.
type ChangeList []automation.Change

func (c ChangeList) Value() (driver.Value, error) {
	if len(c) == 0 {
		return "[]", nil
	}

	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal change list: %w", err)
	}

	return string(raw), nil
}

func (c *ChangeList) Scan(src any) error {
	if src == nil {
		*c = nil

		return nil
	}

	var raw []byte

	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ChangeList", src)
	}

	if err := json.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("failed to unmarshal change list: %w", err)
	}

	return nil
}

// Run is the persisted record of one engine invocation.
type Run struct {
	ID         string         `db:"id"`
	JobName    string         `db:"job_name"`
	TenantID   string         `db:"tenant_id"`
	Success    bool           `db:"success"`
	Message    string         `db:"message"`
	Processed  int            `db:"processed"`
	Failed     int            `db:"failed"`
	Errors     pq.StringArray `db:"errors"`
	Changes    ChangeList     `db:"changes"`
	StartedAt  time.Time      `db:"started_at"`
	FinishedAt time.Time      `db:"finished_at"`
	CreatedAt  time.Time      `db:"created_at"`
}
