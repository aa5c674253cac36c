package notification

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(120);not null"`
	Message     string    `gorm:"type:text;not null"`
	Link        string    `gorm:"type:varchar(255)"`
	Archived    bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time
}

// Note is the dispatch payload handed over by the state machine.
type Note struct {
	RecipientID string
	Title       string
	Message     string
	Link        string
}
