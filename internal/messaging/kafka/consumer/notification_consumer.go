package consumer

import (
	"context"
	"encoding/json"

	"go-hrcore/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// DeliveryGateway is the external notification transport. Delivery is
// best-effort end to end; a failed handoff is logged and the message is
// redelivered on the next poll.
type DeliveryGateway interface {
	Deliver(ctx context.Context, event events.NotificationQueuedEvent) error
}

// LogGateway is the default transport: it only records the notification.
// Real channels (mail, chat) plug in behind DeliveryGateway.
type LogGateway struct {
	Logger *zap.Logger
}

func (g LogGateway) Deliver(_ context.Context, event events.NotificationQueuedEvent) error {
	g.Logger.Info("notification delivered",
		zap.String("notification_id", event.NotificationID),
		zap.String("recipient_id", event.RecipientID),
		zap.String("title", event.Title),
		zap.String("link", event.Link),
	)
	return nil
}

func ConsumeNotifications(
	ctx context.Context,
	reader *kafkago.Reader,
	gateway DeliveryGateway,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.notifications")
	log.Info("notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("notification consumer stopped")
				return
			}
			log.Error("fetch notification message failed", zap.Error(err))
			continue
		}

		var event events.NotificationQueuedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode notification event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := gateway.Deliver(ctx, event); err != nil {
			log.Error("deliver notification failed",
				zap.String("notification_id", event.NotificationID),
				zap.String("recipient_id", event.RecipientID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit notification message failed", zap.Error(err))
		}
	}
}
