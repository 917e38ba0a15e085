package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tally/shared/dto"
)

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name       string
		filter     dto.Filter
		wantClause string
		wantArgs   map[string]any
	}{
		{
			name:       "eq",
			filter:     dto.Filter{Field: "status", Operator: dto.FilterOperatorEq, Value: "pending"},
			wantClause: "status = :status",
			wantArgs:   map[string]any{"status": "pending"},
		},
		{
			name:       "eq with table qualifier",
			filter:     dto.Filter{Field: "id", Operator: dto.FilterOperatorEq, Value: "tenant-1", Table: "tenants"},
			wantClause: "tenants.id = :id",
			wantArgs:   map[string]any{"id": "tenant-1"},
		},
		{
			name:       "like",
			filter:     dto.Filter{Field: "customer_name", Operator: dto.FilterOperatorLike, Value: "dina"},
			wantClause: "LOWER(customer_name) LIKE LOWER(:customer_name) ",
			wantArgs:   map[string]any{"customer_name": "%dina%"},
		},
		{
			name:       "in expands a slice to named args",
			filter:     dto.Filter{Field: "status", Operator: dto.FilterOperatorIn, Value: []string{"pending", "confirmed"}},
			wantClause: "status IN (:status_0, :status_1) ",
			wantArgs:   map[string]any{"status_0": "pending", "status_1": "confirmed"},
		},
		{
			name:       "not_eq",
			filter:     dto.Filter{Field: "status", Operator: dto.FilterOperatorNotEq, Value: "cancelled"},
			wantClause: "status != :status",
			wantArgs:   map[string]any{"status": "cancelled"},
		},
		{
			name:       "less",
			filter:     dto.Filter{Field: "start_time", Operator: dto.FilterOperatorLess, Value: "2026-09-10T19:30:00Z"},
			wantClause: "start_time < :start_time",
			wantArgs:   map[string]any{"start_time": "2026-09-10T19:30:00Z"},
		},
		{
			name:       "less_eq",
			filter:     dto.Filter{Field: "end_time", Operator: dto.FilterOperatorLessEq, Value: "2026-09-10T19:30:00Z"},
			wantClause: "end_time <= :end_time",
			wantArgs:   map[string]any{"end_time": "2026-09-10T19:30:00Z"},
		},
		{
			name:       "greater",
			filter:     dto.Filter{Field: "end_time", Operator: dto.FilterOperatorGreater, Value: "2026-09-10T18:00:00Z"},
			wantClause: "end_time > :end_time",
			wantArgs:   map[string]any{"end_time": "2026-09-10T18:00:00Z"},
		},
		{
			name:       "greater_eq",
			filter:     dto.Filter{Field: "start_time", Operator: dto.FilterOperatorGreaterEq, Value: "2026-09-10T18:00:00Z"},
			wantClause: "start_time >= :start_time",
			wantArgs:   map[string]any{"start_time": "2026-09-10T18:00:00Z"},
		},
		{
			name:       "custom arg name disambiguates reused columns",
			filter:     dto.Filter{ArgName: "window_start", Field: "start_time", Operator: dto.FilterOperatorGreaterEq, Value: "2026-09-10T18:00:00Z"},
			wantClause: "start_time >= :window_start",
			wantArgs:   map[string]any{"window_start": "2026-09-10T18:00:00Z"},
		},
		{
			name:       "is_null",
			filter:     dto.Filter{Field: "resource_id", Operator: dto.FilterIsNull},
			wantClause: "resource_id IS NULL",
			wantArgs:   map[string]any{},
		},
		{
			name:       "is_not_null",
			filter:     dto.Filter{Field: "resource_id", Operator: dto.FilterIsNotNull},
			wantClause: "resource_id IS NOT NULL",
			wantArgs:   map[string]any{},
		},
		{
			name:       "unknown operator yields nothing",
			filter:     dto.Filter{Field: "status", Operator: "between", Value: "pending"},
			wantClause: "",
			wantArgs:   map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantClause, clause)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	t.Run("joins filters with AND", func(t *testing.T) {
		group := dto.FilterGroup{
			Operator: dto.FilterGroupOperatorAnd,
			Filters: []any{
				dto.Filter{Field: "tenant_id", Operator: dto.FilterOperatorEq, Value: "tenant-1"},
				dto.Filter{Field: "status", Operator: dto.FilterOperatorNotEq, Value: "cancelled"},
			},
		}

		clause, args := group.GetWhereClause()

		assert.Equal(t, "(tenant_id = :tenant_id AND status != :status)", clause)
		assert.Equal(t, map[string]any{"tenant_id": "tenant-1", "status": "cancelled"}, args)
	})

	t.Run("nests a group inside a group", func(t *testing.T) {
		group := dto.FilterGroup{
			Operator: dto.FilterGroupOperatorAnd,
			Filters: []any{
				dto.Filter{Field: "tenant_id", Operator: dto.FilterOperatorEq, Value: "tenant-1"},
				dto.FilterGroup{
					Operator: dto.FilterGroupOperatorOr,
					Filters: []any{
						dto.Filter{ArgName: "window_start", Field: "start_time", Operator: dto.FilterOperatorLess, Value: "2026-09-10T19:30:00Z"},
						dto.Filter{ArgName: "window_end", Field: "end_time", Operator: dto.FilterOperatorGreaterEq, Value: "2026-09-10T18:00:00Z"},
					},
				},
			},
		}

		clause, args := group.GetWhereClause()

		assert.Equal(t, "(tenant_id = :tenant_id AND (start_time < :window_start OR end_time >= :window_end))", clause)
		assert.Equal(t, map[string]any{
			"tenant_id":    "tenant-1",
			"window_start": "2026-09-10T19:30:00Z",
			"window_end":   "2026-09-10T18:00:00Z",
		}, args)
	})

	t.Run("empty group yields nothing", func(t *testing.T) {
		group := dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd}

		clause, args := group.GetWhereClause()

		assert.Equal(t, "", clause)
		assert.Equal(t, map[string]any{}, args)
	})
}
