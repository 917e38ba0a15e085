package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"tally/config"
	"tally/infras/kafka"
	kafkaMocks "tally/infras/kafka/mocks"
	"tally/infras/otel/mocks"
	bookingModel "tally/internal/domains/booking/model"
	tenantModel "tally/internal/domains/tenant/model"
	"tally/internal/notify"
)

func TestChannels(t *testing.T) {
	booking := bookingModel.Booking{
		CustomerEmail: "dina@example.com",
		CustomerPhone: "+620000000001",
	}

	tests := []struct {
		name     string
		settings tenantModel.Settings
		booking  bookingModel.Booking
		want     []string
	}{
		{
			name:     "both channels enabled with full contact",
			settings: tenantModel.Settings{EmailNotifications: true, SMSNotifications: true},
			booking:  booking,
			want:     []string{notify.ChannelEmail, notify.ChannelSMS},
		},
		{
			name:     "email only",
			settings: tenantModel.Settings{EmailNotifications: true},
			booking:  booking,
			want:     []string{notify.ChannelEmail},
		},
		{
			name:     "sms enabled but no phone on booking",
			settings: tenantModel.Settings{SMSNotifications: true},
			booking:  bookingModel.Booking{CustomerEmail: "dina@example.com"},
			want:     nil,
		},
		{
			name:     "all channels disabled",
			settings: tenantModel.Settings{},
			booking:  booking,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, notify.Channels(tt.settings, tt.booking))
		})
	}
}

func TestNotifier_SendReminder(t *testing.T) {
	tenant := tenantModel.Tenant{
		ID:   "tenant-1",
		Name: "Warung Sederhana",
		Settings: tenantModel.Settings{
			EmailNotifications: true,
		},
	}

	booking := bookingModel.Booking{
		ID:            "booking-1",
		TenantID:      "tenant-1",
		CustomerName:  "Dina Marlina",
		CustomerEmail: "dina@example.com",
	}

	t.Run("publishes to the notification topic", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		mockProducer := kafkaMocks.NewMockClient(ctrl)
		cfg := &config.Config{}
		cfg.Kafka.NotificationTopic = "tally.notifications"

		mockProducer.EXPECT().
			SendMessages(gomock.Any(), "tally.notifications", gomock.Any()).
			Return(nil)

		notifier := notify.New(mockProducer, cfg, mocks.NewOtel())

		assert.NoError(t, notifier.SendReminder(context.Background(), tenant, booking))
	})

	t.Run("skips publishing when no channel is available", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		mockProducer := kafkaMocks.NewMockClient(ctrl)
		cfg := &config.Config{}

		notifier := notify.New(mockProducer, cfg, mocks.NewOtel())

		silent := tenantModel.Tenant{ID: "tenant-1", Settings: tenantModel.Settings{}}

		assert.NoError(t, notifier.SendReminder(context.Background(), silent, booking))
	})

	t.Run("renders booking times in the tenant timezone", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		mockProducer := kafkaMocks.NewMockClient(ctrl)
		cfg := &config.Config{}
		cfg.Kafka.NotificationTopic = "tally.notifications"

		jakarta := tenant
		jakarta.Timezone = "Asia/Jakarta"

		timed := booking
		timed.StartTime = time.Date(2026, 3, 14, 2, 0, 0, 0, time.UTC)
		timed.EndTime = timed.StartTime.Add(30 * time.Minute)

		var captured notify.Payload

		mockProducer.EXPECT().
			SendMessages(gomock.Any(), "tally.notifications", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
				captured = messages[0].Value.(notify.Payload)

				return nil
			})

		notifier := notify.New(mockProducer, cfg, mocks.NewOtel())

		assert.NoError(t, notifier.SendReminder(context.Background(), jakarta, timed))
		// UTC+7
		assert.Equal(t, "2026-03-14 09:00:00", captured.StartTime)
		assert.Equal(t, "2026-03-14 09:30:00", captured.EndTime)
	})

	t.Run("propagates broker errors", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		mockProducer := kafkaMocks.NewMockClient(ctrl)
		cfg := &config.Config{}
		cfg.Kafka.NotificationTopic = "tally.notifications"

		mockProducer.EXPECT().
			SendMessages(gomock.Any(), "tally.notifications", gomock.Any()).
			Return(errors.New("broker unavailable"))

		notifier := notify.New(mockProducer, cfg, mocks.NewOtel())

		assert.Error(t, notifier.SendReminder(context.Background(), tenant, booking))
	})
}
