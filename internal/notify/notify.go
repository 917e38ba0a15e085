package notify

//go:generate go run go.uber.org/mock/mockgen -source=./notify.go -destination=./mocks/notify_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"tally/config"
	"tally/infras/kafka"
	"tally/infras/otel"
	bookingModel "tally/internal/domains/booking/model"
	tenantModel "tally/internal/domains/tenant/model"
	"tally/shared/constant"
	"tally/shared/timezone"
)

const (
	KindReminder     = "reminder"
	KindConfirmation = "confirmation"
	KindFollowUp     = "follow_up"

	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Payload is the message published for every outbound notification.
// Downstream delivery workers consume it from the notification topic,
// so delivery is at-least-once and consumers must dedupe on BookingID
// and Kind.
type Payload struct {
	Kind          string   `json:"kind"`
	TenantID      string   `json:"tenant_id"`
	TenantName    string   `json:"tenant_name"`
	BookingID     string   `json:"booking_id"`
	CustomerName  string   `json:"customer_name"`
	CustomerEmail string   `json:"customer_email,omitempty"`
	CustomerPhone string   `json:"customer_phone,omitempty"`
	Channels      []string `json:"channels"`
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
}

type Notifier interface {
	SendReminder(ctx context.Context, tenant tenantModel.Tenant, booking bookingModel.Booking) error
	SendConfirmation(ctx context.Context, tenant tenantModel.Tenant, booking bookingModel.Booking) error
	SendFollowUp(ctx context.Context, tenant tenantModel.Tenant, booking bookingModel.Booking) error
}

type notifierImpl struct {
	producer kafka.Client
	cfg      *config.Config
	otel     otel.Otel
}

func New(producer kafka.Client, cfg *config.Config, otel otel.Otel) Notifier {
	return &notifierImpl{
		producer: producer,
		cfg:      cfg,
		otel:     otel,
	}
}

func (n *notifierImpl) SendReminder(ctx context.Context, tenant tenantModel.Tenant, booking bookingModel.Booking) error {
	return n.send(ctx, KindReminder, tenant, booking)
}

func (n *notifierImpl) SendConfirmation(ctx context.Context, tenant tenantModel.Tenant, booking bookingModel.Booking) error {
	return n.send(ctx, KindConfirmation, tenant, booking)
}

func (n *notifierImpl) SendFollowUp(ctx context.Context, tenant tenantModel.Tenant, booking bookingModel.Booking) error {
	return n.send(ctx, KindFollowUp, tenant, booking)
}

func (n *notifierImpl) send(ctx context.Context, kind string, tenant tenantModel.Tenant, booking bookingModel.Booking) (err error) {
	ctx, scope := n.otel.NewScope(ctx, constant.OtelNotifyScopeName, constant.OtelNotifyScopeName+".send")
	defer scope.End()
	defer scope.TraceIfError(err)

	channels := Channels(tenant.Settings, booking)
	if len(channels) == 0 {
		log.Debug().
			Str("tenant_id", tenant.ID).
			Str("booking_id", booking.ID).
			Str("kind", kind).
			Msg("no delivery channel available, skipping notification")

		return nil
	}

	payload := Payload{
		Kind:          kind,
		TenantID:      tenant.ID,
		TenantName:    tenant.Name,
		BookingID:     booking.ID,
		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
		CustomerPhone: booking.CustomerPhone,
		Channels:      channels,
		StartTime:     timezone.Format(booking.StartTime, tenant.Timezone, constant.DateFormat),
		EndTime:       timezone.Format(booking.EndTime, tenant.Timezone, constant.DateFormat),
	}

	message := kafka.Message{
		Key:   fmt.Sprintf("%s:%s", booking.ID, kind),
		Value: payload,
	}

	if err := n.producer.SendMessages(ctx, n.cfg.Kafka.NotificationTopic, message); err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Str("kind", kind).Msg("failed to publish notification")

		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}

// Channels resolves the delivery channels for a booking: a channel must be
// enabled on the tenant and the booking must carry the matching contact.
func Channels(settings tenantModel.Settings, booking bookingModel.Booking) []string {
	var channels []string

	if settings.EmailNotifications && booking.CustomerEmail != constant.Empty {
		channels = append(channels, ChannelEmail)
	}

	if settings.SMSNotifications && booking.CustomerPhone != constant.Empty {
		channels = append(channels, ChannelSMS)
	}

	return channels
}
