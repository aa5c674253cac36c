package events

import "time"

const NotificationQueuedTopic = "hr.leave.notification.v1"

type NotificationQueuedEvent struct {
	EventType      string    `json:"event_type"`
	NotificationID string    `json:"notification_id"`
	RecipientID    string    `json:"recipient_id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Link           string    `json:"link"`
	OccurredAt     time.Time `json:"occurred_at"`
}
