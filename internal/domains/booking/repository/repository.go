package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"time"

	"tally/infras/otel"
	"tally/infras/postgres"
	"tally/internal/domains/booking/model"
	"tally/shared"
	"tally/shared/constant"
	gDto "tally/shared/dto"
	gRepo "tally/shared/repository"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	// Engine queries. All are tenant-scoped and select only on the
	// active statuses, so records already pushed forward by a previous
	// run are never picked up again.
	FindActiveOverlapping(ctx context.Context, tenantID string, start, end time.Time, resourceID, excludeID string) ([]model.Booking, error)
	FindInWindow(ctx context.Context, tenantID string, from, to time.Time, reminderSent bool) ([]model.Booking, error)
	FindOverdue(ctx context.Context, tenantID string, cutoff time.Time) ([]model.Booking, error)
	FindUnconfirmed(ctx context.Context, tenantID string) ([]model.Booking, error)
	UpdateStatus(ctx context.Context, id string, status model.Status, flags map[string]any) error
	MarkReminderSent(ctx context.Context, id string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func activeStatusFilter() gDto.Filter {
	return gDto.Filter{
		Field:    model.FieldStatus,
		Value:    model.ActiveStatuses,
		Operator: gDto.FilterOperatorIn,
		Table:    model.TableName,
	}
}

// FindActiveOverlapping returns active bookings for the same resource whose
// half-open interval overlaps [start, end): existing.start < end AND
// existing.end > start. excludeID skips the booking being re-checked on edit.
func (repo *repositoryImpl) FindActiveOverlapping(ctx context.Context, tenantID string, start, end time.Time, resourceID, excludeID string) ([]model.Booking, error) {
	filters := []any{
		shared.FilterByTenant(tenantID, model.FieldTenantID, model.TableName),
		activeStatusFilter(),
		gDto.Filter{
			Field:    model.FieldResourceID,
			Value:    resourceID,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		},
		gDto.Filter{
			ArgName:  "candidate_end",
			Field:    model.FieldStartTime,
			Value:    end,
			Operator: gDto.FilterOperatorLess,
			Table:    model.TableName,
		},
		gDto.Filter{
			ArgName:  "candidate_start",
			Field:    model.FieldEndTime,
			Value:    start,
			Operator: gDto.FilterOperatorGreater,
			Table:    model.TableName,
		},
	}

	if excludeID != "" {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldID,
			Value:    excludeID,
			Operator: gDto.FilterOperatorNotEq,
			Table:    model.TableName,
		})
	}

	return repo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	})
}

// FindInWindow returns active bookings starting inside [from, to) with the
// given reminder flag state.
func (repo *repositoryImpl) FindInWindow(ctx context.Context, tenantID string, from, to time.Time, reminderSent bool) ([]model.Booking, error) {
	return repo.GetAll(ctx, gDto.QueryParams{
		SortBy:  model.FieldStartTime,
		SortDir: gDto.SortDirAsc,
	}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			shared.FilterByTenant(tenantID, model.FieldTenantID, model.TableName),
			activeStatusFilter(),
			gDto.Filter{
				ArgName:  "window_from",
				Field:    model.FieldStartTime,
				Value:    from,
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "window_to",
				Field:    model.FieldStartTime,
				Value:    to,
				Operator: gDto.FilterOperatorLess,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldReminderSent,
				Value:    reminderSent,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	})
}

// FindOverdue returns active bookings whose start time is at or before the
// cutoff, i.e. candidates for no-show detection.
func (repo *repositoryImpl) FindOverdue(ctx context.Context, tenantID string, cutoff time.Time) ([]model.Booking, error) {
	return repo.GetAll(ctx, gDto.QueryParams{
		SortBy:  model.FieldStartTime,
		SortDir: gDto.SortDirAsc,
	}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			shared.FilterByTenant(tenantID, model.FieldTenantID, model.TableName),
			activeStatusFilter(),
			gDto.Filter{
				ArgName:  "overdue_cutoff",
				Field:    model.FieldStartTime,
				Value:    cutoff,
				Operator: gDto.FilterOperatorLessEq,
				Table:    model.TableName,
			},
		},
	})
}

// FindUnconfirmed returns pending bookings that have not yet been sent a
// confirmation, the auto-confirm candidates.
func (repo *repositoryImpl) FindUnconfirmed(ctx context.Context, tenantID string) ([]model.Booking, error) {
	return repo.GetAll(ctx, gDto.QueryParams{
		SortBy:  model.FieldStartTime,
		SortDir: gDto.SortDirAsc,
	}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			shared.FilterByTenant(tenantID, model.FieldTenantID, model.TableName),
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    string(model.StatusPending),
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldConfirmationSent,
				Value:    false,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	})
}

// UpdateStatus writes a booking's status along with any idempotency flags
// in one statement, so a crash cannot persist the flags without the status.
func (repo *repositoryImpl) UpdateStatus(ctx context.Context, id string, status model.Status, flags map[string]any) error {
	fields := map[string]any{
		model.FieldStatus:         string(status),
		constant.FieldModifiedAt:  time.Now().UTC(),
		constant.FieldModifiedBy:  "automation",
	}

	for col, val := range flags {
		fields[col] = val
	}

	return repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName))
}

// MarkReminderSent sets the reminder idempotency flag. The flag is
// monotonic; nothing ever writes it back to false.
func (repo *repositoryImpl) MarkReminderSent(ctx context.Context, id string) error {
	return repo.Update(ctx, map[string]any{
		model.FieldReminderSent:  true,
		constant.FieldModifiedAt: time.Now().UTC(),
		constant.FieldModifiedBy: "automation",
	}, shared.FilterByID(id, model.FieldID, model.TableName))
}
