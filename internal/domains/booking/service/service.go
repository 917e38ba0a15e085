package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"tally/config"
	"tally/infras/otel"
	"tally/internal/domains/booking/conflict"
	"tally/internal/domains/booking/model"
	"tally/internal/domains/booking/model/dto"
	"tally/internal/domains/booking/repository"
	resourceModel "tally/internal/domains/resource/model"
	resourceRepo "tally/internal/domains/resource/repository"
	"tally/shared"
	"tally/shared/cache"
	"tally/shared/constant"
	gDto "tally/shared/dto"
	"tally/shared/failure"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	Transition(ctx context.Context, id string, next model.Status) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo         repository.Booking
	resourceRepo resourceRepo.Resource
	detector     conflict.Detector
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(repo repository.Booking, resourceRepo resourceRepo.Resource, detector conflict.Detector, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:         repo,
		resourceRepo: resourceRepo,
		detector:     detector,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := req.ToModel(user)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse booking request")

		return res, failure.BadRequestFromString(fmt.Sprintf("invalid booking request: %v", err)) // nolint:wrapcheck
	}

	if booking.ResourceID != nil {
		resourceExists, err := s.resourceRepo.Exist(ctx, shared.FilterByID(*booking.ResourceID, resourceModel.FieldID, resourceModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check if resource exists")

			return res, fmt.Errorf("failed to check if resource exists: %w", err)
		}

		if !resourceExists {
			return res, failure.BadRequestFromString("resource does not exist") // nolint:wrapcheck
		}
	}

	hasConflict, err := s.detector.HasConflict(ctx, booking.TenantID, booking.StartTime, booking.EndTime, booking.ResourceID, constant.Empty)
	if err != nil {
		log.Error().Err(err).Msg("failed to check booking conflicts")

		return res, fmt.Errorf("failed to check booking conflicts: %w", err)
	}

	if hasConflict {
		return res, failure.Conflict("requested time window overlaps an existing booking") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// Update handles field edits and reschedules. When the window moves, the
// new window is re-checked for conflicts with the booking itself excluded,
// so a booking never conflicts with its own previous slot.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateBookingRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	existing, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if existing.ID == constant.Empty {
		log.Error().Msg("booking not found")

		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)

	if req.Status != constant.Empty {
		next, err := model.ParseStatus(req.Status)
		if err != nil {
			return failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
		}

		if !existing.Status.CanTransitionTo(next) {
			return failure.UnprocessableEntity(fmt.Sprintf("cannot transition booking from %s to %s", existing.Status, next)) // nolint:wrapcheck
		}
	}

	if req.ResourceID != constant.Empty {
		resourceExists, err := s.resourceRepo.Exist(ctx, shared.FilterByID(req.ResourceID, resourceModel.FieldID, resourceModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check if resource exists")

			return fmt.Errorf("failed to check if resource exists: %w", err)
		}

		if !resourceExists {
			return failure.BadRequestFromString("resource does not exist") // nolint:wrapcheck
		}
	}

	// Moving a booking to another resource contends for that resource's
	// calendar just like a reschedule does, so both paths re-check.
	if req.StartTime != constant.Empty || req.DurationMinutes > 0 || req.ResourceID != constant.Empty {
		candidate := existing

		if req.ResourceID != constant.Empty {
			resourceID := req.ResourceID
			candidate.ResourceID = &resourceID
		}

		if req.StartTime != constant.Empty {
			startTime, err := time.Parse(time.RFC3339, req.StartTime)
			if err != nil {
				return failure.BadRequestFromString(fmt.Sprintf("invalid start time: %v", err)) // nolint:wrapcheck
			}

			candidate.StartTime = startTime.UTC()
		}

		if req.DurationMinutes > 0 {
			candidate.DurationMinutes = req.DurationMinutes
		}

		candidate.RecomputeEnd()

		if err := candidate.Validate(); err != nil {
			return failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
		}

		hasConflict, err := s.detector.HasConflict(ctx, candidate.TenantID, candidate.StartTime, candidate.EndTime, candidate.ResourceID, candidate.ID)
		if err != nil {
			log.Error().Err(err).Msg("failed to check booking conflicts")

			return fmt.Errorf("failed to check booking conflicts: %w", err)
		}

		if hasConflict {
			return failure.Conflict("requested time window overlaps an existing booking") // nolint:wrapcheck
		}

		updatedFields[model.FieldStartTime] = candidate.StartTime
		updatedFields[model.FieldEndTime] = candidate.EndTime
		updatedFields[model.FieldDurationMinutes] = candidate.DurationMinutes
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return nil
}

// Transition moves a booking to the next lifecycle status, rejecting moves
// the state machine does not allow. Terminal bookings never change again.
func (s *serviceImpl) Transition(ctx context.Context, id string, next model.Status) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Transition")
	defer scope.End()
	defer scope.TraceIfError(err)

	existing, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if existing.ID == constant.Empty {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if !existing.Status.CanTransitionTo(next) {
		return failure.UnprocessableEntity(fmt.Sprintf("cannot transition booking from %s to %s", existing.Status, next)) // nolint:wrapcheck
	}

	if err := s.repo.UpdateStatus(ctx, id, next, nil); err != nil {
		log.Error().Err(err).Msg("failed to transition booking")

		return fmt.Errorf("failed to transition booking: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if booking exists")

		return fmt.Errorf("failed to check if booking exists: %w", err)
	}

	if !exist {
		log.Error().Msg("booking not found")

		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return nil
}
