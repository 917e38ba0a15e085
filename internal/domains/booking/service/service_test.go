package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"tally/config"
	"tally/infras/otel/mocks"
	bookingMocks "tally/internal/domains/booking/mocks"
	"tally/internal/domains/booking/model"
	"tally/internal/domains/booking/model/dto"
	"tally/internal/domains/booking/service"
	resourceMocks "tally/internal/domains/resource/mocks"
	"tally/shared/cache"
	cacheMocks "tally/shared/cache/mocks"
	"tally/shared/constant"
	gDto "tally/shared/dto"
	"tally/shared/failure"
	gModel "tally/shared/model"
)

func newService(t *testing.T) (service.Booking, *bookingMocks.MockBooking, *resourceMocks.MockResource, *bookingMocks.MockDetector, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockResourceRepo := resourceMocks.NewMockResource(ctrl)
	mockDetector := bookingMocks.NewMockDetector(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	// Cache writes and invalidations run on background goroutines.
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockResourceRepo, mockDetector, cfg, mockCache, mockOtel)

	return svc, mockRepo, mockResourceRepo, mockDetector, mockCache
}

func validCreateRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		TenantID:        "tenant-1",
		CustomerName:    "Dina Marlina",
		CustomerEmail:   "dina@example.com",
		ResourceID:      "table-7",
		StartTime:       time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		DurationMinutes: 90,
	}
}

func TestBookingService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       func() dto.CreateBookingRequest
		setupMock func(repo *bookingMocks.MockBooking, resourceRepo *resourceMocks.MockResource, detector *bookingMocks.MockDetector)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation",
			req:  validCreateRequest,
			setupMock: func(repo *bookingMocks.MockBooking, resourceRepo *resourceMocks.MockResource, detector *bookingMocks.MockDetector) {
				resourceRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				detector.EXPECT().
					HasConflict(gomock.Any(), "tenant-1", gomock.Any(), gomock.Any(), gomock.Any(), constant.Empty).
					Return(false, nil)

				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "overlapping booking is rejected with conflict",
			req:  validCreateRequest,
			setupMock: func(repo *bookingMocks.MockBooking, resourceRepo *resourceMocks.MockResource, detector *bookingMocks.MockDetector) {
				resourceRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				detector.EXPECT().
					HasConflict(gomock.Any(), "tenant-1", gomock.Any(), gomock.Any(), gomock.Any(), constant.Empty).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "unknown resource is rejected",
			req:  validCreateRequest,
			setupMock: func(repo *bookingMocks.MockBooking, resourceRepo *resourceMocks.MockResource, detector *bookingMocks.MockDetector) {
				resourceRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name: "booking without resource skips resource check",
			req: func() dto.CreateBookingRequest {
				req := validCreateRequest()
				req.ResourceID = ""

				return req
			},
			setupMock: func(repo *bookingMocks.MockBooking, resourceRepo *resourceMocks.MockResource, detector *bookingMocks.MockDetector) {
				detector.EXPECT().
					HasConflict(gomock.Any(), "tenant-1", gomock.Any(), gomock.Any(), gomock.Nil(), constant.Empty).
					Return(false, nil)

				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "invalid start time",
			req: func() dto.CreateBookingRequest {
				req := validCreateRequest()
				req.StartTime = "tomorrow at noon"

				return req
			},
			setupMock: func(repo *bookingMocks.MockBooking, resourceRepo *resourceMocks.MockResource, detector *bookingMocks.MockDetector) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name: "repository error",
			req:  validCreateRequest,
			setupMock: func(repo *bookingMocks.MockBooking, resourceRepo *resourceMocks.MockResource, detector *bookingMocks.MockDetector) {
				resourceRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				detector.EXPECT().
					HasConflict(gomock.Any(), "tenant-1", gomock.Any(), gomock.Any(), gomock.Any(), constant.Empty).
					Return(false, nil)

				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockResourceRepo, mockDetector, _ := newService(t)
			tt.setupMock(mockRepo, mockResourceRepo, mockDetector)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			res, err := svc.Create(ctx, tt.req())

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, res.ID)
				assert.Equal(t, model.StatusPending.String(), res.Status)
			}
		})
	}
}

func TestBookingService_Get(t *testing.T) {
	booking := model.Booking{
		ID:              "booking-1",
		TenantID:        "tenant-1",
		CustomerName:    "Dina Marlina",
		StartTime:       time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC),
		EndTime:         time.Date(2026, 9, 10, 19, 30, 0, 0, time.UTC),
		DurationMinutes: 90,
		Status:          model.StatusConfirmed,
		Metadata: gModel.Metadata{
			CreatedBy:  "test-user",
			ModifiedBy: "test-user",
		},
	}

	tests := []struct {
		name      string
		id        string
		setupMock func(repo *bookingMocks.MockBooking, mockCache *cacheMocks.MockRedisCache)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful get",
			id:   "booking-1",
			setupMock: func(repo *bookingMocks.MockBooking, mockCache *cacheMocks.MockRedisCache) {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(cache.CacheNil)

				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)
			},
			wantErr: false,
		},
		{
			name: "booking not found",
			id:   "missing",
			setupMock: func(repo *bookingMocks.MockBooking, mockCache *cacheMocks.MockRedisCache) {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(cache.CacheNil)

				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "repository error",
			id:   "booking-1",
			setupMock: func(repo *bookingMocks.MockBooking, mockCache *cacheMocks.MockRedisCache) {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(cache.CacheNil)

				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _, _, mockCache := newService(t)
			tt.setupMock(mockRepo, mockCache)

			res, err := svc.Get(context.Background(), tt.id)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, booking.ID, res.ID)
				assert.Equal(t, booking.Status.String(), res.Status)
			}
		})
	}
}

func TestBookingService_GetAll(t *testing.T) {
	tests := []struct {
		name      string
		params    gDto.QueryParams
		setupMock func(repo *bookingMocks.MockBooking, mockCache *cacheMocks.MockRedisCache)
		wantErr   bool
		wantTotal int
	}{
		{
			name:   "successful get all",
			params: gDto.QueryParams{Limit: 10, Page: 1},
			setupMock: func(repo *bookingMocks.MockBooking, mockCache *cacheMocks.MockRedisCache) {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(cache.CacheNil).
					Times(2)

				repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(1, nil)

				repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{
						{
							ID:       "booking-1",
							TenantID: "tenant-1",
							Status:   model.StatusPending,
						},
					}, nil)
			},
			wantErr:   false,
			wantTotal: 1,
		},
		{
			name:   "count error",
			params: gDto.QueryParams{Limit: 10, Page: 1},
			setupMock: func(repo *bookingMocks.MockBooking, mockCache *cacheMocks.MockRedisCache) {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(cache.CacheNil).
					Times(2)

				repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, errors.New("count error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _, _, mockCache := newService(t)
			tt.setupMock(mockRepo, mockCache)

			res, err := svc.GetAll(context.Background(), tt.params, gDto.FilterGroup{})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantTotal, res.TotalData)
			}
		})
	}
}

func TestBookingService_Update(t *testing.T) {
	existing := model.Booking{
		ID:              "booking-1",
		TenantID:        "tenant-1",
		CustomerName:    "Dina Marlina",
		StartTime:       time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC),
		EndTime:         time.Date(2026, 9, 10, 19, 30, 0, 0, time.UTC),
		DurationMinutes: 90,
		Status:          model.StatusPending,
	}

	tests := []struct {
		name      string
		req       dto.UpdateBookingRequest
		setupMock func(repo *bookingMocks.MockBooking, resourceRepo *resourceMocks.MockResource, detector *bookingMocks.MockDetector)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "empty request",
			req:  dto.UpdateBookingRequest{},
			setupMock: func(repo *bookingMocks.MockBooking, resourceRepo *resourceMocks.MockResource, detector *bookingMocks.MockDetector) {
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name: "simple field edit",
			req:  dto.UpdateBookingRequest{Notes: "window seat"},
			setupMock: func(repo *bookingMocks.MockBooking, resourceRepo *resourceMocks.MockResource, detector *bookingMocks.MockDetector) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existing, nil)

				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "reschedule re-checks conflicts excluding itself",
			req:  dto.UpdateBookingRequest{StartTime: "2026-09-11T18:00:00Z"},
			setupMock: func(repo *bookingMocks.MockBooking, resourceRepo *resourceMocks.MockResource, detector *bookingMocks.MockDetector) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existing, nil)

				detector.EXPECT().
					HasConflict(gomock.Any(), "tenant-1", gomock.Any(), gomock.Any(), gomock.Any(), "booking-1").
					Return(false, nil)

				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "reschedule into an occupied window",
			req:  dto.UpdateBookingRequest{StartTime: "2026-09-11T18:00:00Z"},
			setupMock: func(repo *bookingMocks.MockBooking, resourceRepo *resourceMocks.MockResource, detector *bookingMocks.MockDetector) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existing, nil)

				detector.EXPECT().
					HasConflict(gomock.Any(), "tenant-1", gomock.Any(), gomock.Any(), gomock.Any(), "booking-1").
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "illegal status transition",
			req:  dto.UpdateBookingRequest{Status: "completed"},
			setupMock: func(repo *bookingMocks.MockBooking, resourceRepo *resourceMocks.MockResource, detector *bookingMocks.MockDetector) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existing, nil)
			},
			wantErr:  true,
			wantCode: 422,
		},
		{
			name: "booking not found",
			req:  dto.UpdateBookingRequest{Notes: "window seat"},
			setupMock: func(repo *bookingMocks.MockBooking, resourceRepo *resourceMocks.MockResource, detector *bookingMocks.MockDetector) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "move to another resource re-checks its calendar",
			req:  dto.UpdateBookingRequest{ResourceID: "staff-2"},
			setupMock: func(repo *bookingMocks.MockBooking, resourceRepo *resourceMocks.MockResource, detector *bookingMocks.MockDetector) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existing, nil)

				resourceRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				detector.EXPECT().
					HasConflict(gomock.Any(), "tenant-1", existing.StartTime, existing.EndTime, gomock.Any(), "booking-1").
					DoAndReturn(func(_ context.Context, _ string, _, _ time.Time, resourceID *string, _ string) (bool, error) {
						assert.NotNil(t, resourceID)
						assert.Equal(t, "staff-2", *resourceID)

						return false, nil
					})

				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "move to an unknown resource",
			req:  dto.UpdateBookingRequest{ResourceID: "staff-missing"},
			setupMock: func(repo *bookingMocks.MockBooking, resourceRepo *resourceMocks.MockResource, detector *bookingMocks.MockDetector) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existing, nil)

				resourceRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name: "move onto an occupied resource",
			req:  dto.UpdateBookingRequest{ResourceID: "staff-2"},
			setupMock: func(repo *bookingMocks.MockBooking, resourceRepo *resourceMocks.MockResource, detector *bookingMocks.MockDetector) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existing, nil)

				resourceRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				detector.EXPECT().
					HasConflict(gomock.Any(), "tenant-1", existing.StartTime, existing.EndTime, gomock.Any(), "booking-1").
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockResourceRepo, mockDetector, _ := newService(t)
			tt.setupMock(mockRepo, mockResourceRepo, mockDetector)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.Update(ctx, tt.req, "booking-1")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_Transition(t *testing.T) {
	tests := []struct {
		name      string
		current   model.Status
		next      model.Status
		wantErr   bool
		wantCode  int
		wantWrite bool
	}{
		{
			name:      "pending to confirmed",
			current:   model.StatusPending,
			next:      model.StatusConfirmed,
			wantWrite: true,
		},
		{
			name:      "confirmed to completed",
			current:   model.StatusConfirmed,
			next:      model.StatusCompleted,
			wantWrite: true,
		},
		{
			name:      "pending to cancelled",
			current:   model.StatusPending,
			next:      model.StatusCancelled,
			wantWrite: true,
		},
		{
			name:     "pending cannot complete directly",
			current:  model.StatusPending,
			next:     model.StatusCompleted,
			wantErr:  true,
			wantCode: 422,
		},
		{
			name:     "cancelled is terminal",
			current:  model.StatusCancelled,
			next:     model.StatusConfirmed,
			wantErr:  true,
			wantCode: 422,
		},
		{
			name:     "no-show is terminal",
			current:  model.StatusNoShow,
			next:     model.StatusCompleted,
			wantErr:  true,
			wantCode: 422,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _, _, _ := newService(t)

			mockRepo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(model.Booking{ID: "booking-1", TenantID: "tenant-1", Status: tt.current}, nil)

			if tt.wantWrite {
				mockRepo.EXPECT().
					UpdateStatus(gomock.Any(), "booking-1", tt.next, nil).
					Return(nil)
			}

			err := svc.Transition(context.Background(), "booking-1", tt.next)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *bookingMocks.MockBooking)
		wantErr   bool
	}{
		{
			name: "successful delete",
			setupMock: func(repo *bookingMocks.MockBooking) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				repo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "booking not found",
			setupMock: func(repo *bookingMocks.MockBooking) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _, _, _ := newService(t)
			tt.setupMock(mockRepo)

			err := svc.Delete(context.Background(), "booking-1")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
