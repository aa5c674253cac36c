package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go-hrcore/internal/events"
	"go-hrcore/internal/messaging/kafka"
	"go-hrcore/internal/metrics"
	"go-hrcore/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Dispatcher hands transition notifications to the outbox. It is strictly
// best-effort: it runs after the transition committed and never propagates
// failures back to the caller.
//
//go:generate mockgen -source=dispatcher.go -destination=mock/dispatcher_mock.go -package=mock
type Dispatcher interface {
	Dispatch(ctx context.Context, notes ...Note)
}

type dispatcher struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewDispatcher(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Dispatcher {
	l := zap.L().Named("notification.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.dispatcher")
	}
	return &dispatcher{db: db, repo: repo, outbox: outbox, logger: l}
}

func (d *dispatcher) Dispatch(ctx context.Context, notes ...Note) {
	for _, note := range notes {
		if err := d.dispatchOne(ctx, note); err != nil {
			metrics.NotificationsTotal.WithLabelValues("failed").Inc()
			d.logger.Error("dispatch notification failed",
				zap.String("recipient_id", note.RecipientID),
				zap.String("title", note.Title),
				zap.Error(err),
			)
			continue
		}
		metrics.NotificationsTotal.WithLabelValues("queued").Inc()
	}
}

// dispatchOne writes the notification row and its outbox event in a single
// transaction so a failed enqueue never leaves behind a row that nothing
// will ever deliver.
func (d *dispatcher) dispatchOne(ctx context.Context, note Note) error {
	recipientUUID, err := uuid.Parse(note.RecipientID)
	if err != nil {
		return err
	}

	n := &Notification{
		ID:          uuid.New(),
		RecipientID: recipientUUID,
		Title:       note.Title,
		Message:     note.Message,
		Link:        note.Link,
	}

	payload, err := json.Marshal(events.NotificationQueuedEvent{
		EventType:      "notification.queued",
		NotificationID: n.ID.String(),
		RecipientID:    note.RecipientID,
		Title:          note.Title,
		Message:        note.Message,
		Link:           note.Link,
		OccurredAt:     time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := d.repo.WithTx(tx).Create(ctx, n); err != nil {
		return err
	}

	if err := d.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "notification",
		AggregateID:   n.ID.String(),
		EventType:     "notification.queued",
		Topic:         events.NotificationQueuedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		return err
	}

	return tx.Commit()
}
