package conflict

//go:generate go run go.uber.org/mock/mockgen -source=./conflict.go -destination=../mocks/conflict_mock.go -package=mocks

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"tally/infras/otel"
	"tally/internal/domains/booking/repository"
	"tally/shared/constant"
)

// Overlaps reports whether the half-open intervals [s1, e1) and [s2, e2)
// intersect. Adjacent intervals (e1 == s2) do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// Detector answers whether a candidate interval would double-book a
// resource. It is a read-only check; enforcement is the caller's job.
type Detector interface {
	HasConflict(ctx context.Context, tenantID string, start, end time.Time, resourceID *string, excludeID string) (bool, error)
}

type detectorImpl struct {
	repo repository.Booking
	otel otel.Otel
}

func New(repo repository.Booking, otel otel.Otel) Detector {
	return &detectorImpl{
		repo: repo,
		otel: otel,
	}
}

// HasConflict fetches the tenant's active bookings for the resource and
// tests half-open overlap. A nil resourceID never conflicts: bookings
// without a resource are unconstrained queue slots.
//
// The check is read-then-write best effort, there is no lock between this
// query and the caller's subsequent status write. Drift introduced by a
// racing write is detected and reported by the next reconciliation sweep.
func (d *detectorImpl) HasConflict(ctx context.Context, tenantID string, start, end time.Time, resourceID *string, excludeID string) (hasConflict bool, err error) {
	ctx, scope := d.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".conflict.HasConflict")
	defer scope.End()
	defer scope.TraceIfError(err)

	if resourceID == nil || *resourceID == "" {
		return false, nil
	}

	existing, err := d.repo.FindActiveOverlapping(ctx, tenantID, start, end, *resourceID, excludeID)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID).Str("resource_id", *resourceID).Msg("failed to query overlapping bookings")

		return false, err
	}

	for _, booking := range existing {
		if Overlaps(booking.StartTime, booking.EndTime, start, end) {
			return true, nil
		}
	}

	return false, nil
}
