package conflict_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	otelMocks "tally/infras/otel/mocks"
	"tally/internal/domains/booking/conflict"
	bookingMocks "tally/internal/domains/booking/mocks"
	"tally/internal/domains/booking/model"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2025, 5, 12, 10, 0, 0, 0, time.UTC)
	at := func(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }

	tests := []struct {
		name     string
		s1, e1   time.Time
		s2, e2   time.Time
		expected bool
	}{
		{
			name: "partial overlap",
			s1:   at(0), e1: at(30),
			s2: at(15), e2: at(45),
			expected: true,
		},
		{
			name: "containment",
			s1:   at(0), e1: at(60),
			s2: at(15), e2: at(30),
			expected: true,
		},
		{
			name: "identical intervals",
			s1:   at(0), e1: at(30),
			s2: at(0), e2: at(30),
			expected: true,
		},
		{
			name: "adjacent intervals share a boundary",
			s1:   at(0), e1: at(30),
			s2: at(30), e2: at(60),
			expected: false,
		},
		{
			name: "disjoint intervals",
			s1:   at(0), e1: at(30),
			s2: at(45), e2: at(60),
			expected: false,
		},
		{
			name: "reversed adjacency",
			s1:   at(30), e1: at(60),
			s2: at(0), e2: at(30),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, conflict.Overlaps(tt.s1, tt.e1, tt.s2, tt.e2))

			// Overlap is symmetric.
			assert.Equal(t, tt.expected, conflict.Overlaps(tt.s2, tt.e2, tt.s1, tt.e1))
		})
	}
}

func TestDetectorHasConflict(t *testing.T) {
	base := time.Date(2025, 5, 12, 10, 0, 0, 0, time.UTC)
	resourceID := "staff-1"

	tests := []struct {
		name       string
		resourceID *string
		setupMock  func(repo *bookingMocks.MockBooking)
		expected   bool
		wantErr    bool
	}{
		{
			name:       "nil resource never conflicts",
			resourceID: nil,
			setupMock:  func(repo *bookingMocks.MockBooking) {},
			expected:   false,
		},
		{
			name:       "overlapping booking found",
			resourceID: &resourceID,
			setupMock: func(repo *bookingMocks.MockBooking) {
				repo.EXPECT().
					FindActiveOverlapping(gomock.Any(), "tenant-1", base, base.Add(30*time.Minute), "staff-1", "").
					Return([]model.Booking{
						{
							ID:        "existing",
							StartTime: base.Add(15 * time.Minute),
							EndTime:   base.Add(45 * time.Minute),
							Status:    model.StatusConfirmed,
						},
					}, nil)
			},
			expected: true,
		},
		{
			name:       "no overlapping bookings",
			resourceID: &resourceID,
			setupMock: func(repo *bookingMocks.MockBooking) {
				repo.EXPECT().
					FindActiveOverlapping(gomock.Any(), "tenant-1", base, base.Add(30*time.Minute), "staff-1", "").
					Return(nil, nil)
			},
			expected: false,
		},
		{
			name:       "query failure",
			resourceID: &resourceID,
			setupMock: func(repo *bookingMocks.MockBooking) {
				repo.EXPECT().
					FindActiveOverlapping(gomock.Any(), "tenant-1", base, base.Add(30*time.Minute), "staff-1", "").
					Return(nil, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := bookingMocks.NewMockBooking(ctrl)
			tt.setupMock(mockRepo)

			detector := conflict.New(mockRepo, otelMocks.NewOtel())

			got, err := detector.HasConflict(context.Background(), "tenant-1", base, base.Add(30*time.Minute), tt.resourceID, "")

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
