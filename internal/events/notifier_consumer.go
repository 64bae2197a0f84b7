package events

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mystic-tours/service-booking/internal/application"
	"github.com/mystic-tours/service-booking/internal/domain"
	bookingDomain "github.com/mystic-tours/service-booking/internal/domain/booking"
	"github.com/mystic-tours/service-booking/internal/events/schema"
	"github.com/mystic-tours/service-booking/internal/platform/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// NotifierCommandConsumer listens for staff commands relayed from the
// Telegram chat-bot and applies them to bookings.
type NotifierCommandConsumer struct {
	consumer *kafka.Consumer
	service  *application.BookingService
	logger   *zap.Logger
}

// NewNotifierCommandConsumer creates a new NotifierCommandConsumer.
func NewNotifierCommandConsumer(
	brokers []string,
	groupID string,
	service *application.BookingService,
	logger *zap.Logger,
) *NotifierCommandConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, schema.TopicNotifierCommands, logger)
	return &NotifierCommandConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming commands. This blocks until the context is cancelled.
func (c *NotifierCommandConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *NotifierCommandConsumer) Close() error {
	return c.consumer.Close()
}

func (c *NotifierCommandConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from notifier topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case schema.CommandConfirmBooking, schema.CommandCancelBooking:
		return c.handleBookingCommand(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled notifier command type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *NotifierCommandConsumer) handleBookingCommand(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var cmd schema.NotifierCommand
	if err := cloudEvent.ParseData(&cmd); err != nil {
		c.logger.Error("failed to parse NotifierCommand data", zap.Error(err))
		return nil // Don't retry malformed data
	}

	// Chat staff may reply with either the legacy serial or the UUID.
	ref, err := bookingDomain.ParseRef(cmd.BookingRef)
	if err != nil {
		c.logger.Warn("notifier command carries an unparseable booking reference",
			zap.String("booking_ref", cmd.BookingRef),
			zap.String("issued_by", cmd.IssuedBy),
		)
		return nil
	}

	c.logger.Info("processing notifier command",
		zap.String("command", cloudEvent.Type),
		zap.String("booking_ref", ref.String()),
		zap.String("issued_by", cmd.IssuedBy),
	)

	switch cloudEvent.Type {
	case schema.CommandConfirmBooking:
		_, err = c.service.ConfirmBooking(ctx, ref)
	case schema.CommandCancelBooking:
		_, err = c.service.CancelBooking(ctx, ref)
	}
	if err != nil {
		// Commands against missing or already-settled bookings are logged and
		// dropped; retrying cannot change the outcome.
		var notFound *domain.NotFoundError
		var stateErr *domain.InvalidStateError
		if errors.As(err, &notFound) || errors.As(err, &stateErr) {
			c.logger.Warn("notifier command could not be applied",
				zap.String("command", cloudEvent.Type),
				zap.String("booking_ref", ref.String()),
				zap.Error(err),
			)
			return nil
		}
		c.logger.Error("failed to apply notifier command",
			zap.String("command", cloudEvent.Type),
			zap.String("booking_ref", ref.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
