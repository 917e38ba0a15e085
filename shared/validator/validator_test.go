package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"tally/shared/validator"
)

type sampleRequest struct {
	CustomerName string `json:"customer_name" validate:"required"`
	Duration     int    `json:"duration"      validate:"required,gt=0"`
	Status       string `json:"status"        validate:"omitempty,bookingstatus"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name:    "valid request",
			body:    `{"customer_name":"Ayu","duration":30,"status":"pending"}`,
			wantErr: false,
		},
		{
			name:    "missing customer name",
			body:    `{"duration":30}`,
			wantErr: true,
		},
		{
			name:    "zero duration",
			body:    `{"customer_name":"Ayu","duration":0}`,
			wantErr: true,
		},
		{
			name:    "negative duration",
			body:    `{"customer_name":"Ayu","duration":-15}`,
			wantErr: true,
		},
		{
			name:    "unknown status",
			body:    `{"customer_name":"Ayu","duration":30,"status":"archived"}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			body:    `{"customer_name":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := sampleRequest{}
			err := validator.Validate(strings.NewReader(tt.body), &req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("no-show", "bookingstatus"))
	assert.Error(t, validator.ValidateVar("noshow", "bookingstatus"))
}
