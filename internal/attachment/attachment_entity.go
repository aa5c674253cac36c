package attachment

import (
	"time"

	"github.com/google/uuid"
)

// Attachment rows are written before the leave request that owns them.
// LeaveID stays null until the request is persisted and binds the row; rows
// that never get bound are garbage-collected by the orphan sweeper.
type Attachment struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	LeaveID     *uuid.UUID `gorm:"type:uuid;index" json:"leave_id,omitempty"`
	FileName    string     `gorm:"type:varchar(255);not null" json:"file_name"`
	StorageRef  string     `gorm:"type:varchar(512);not null" json:"-"`
	ContentType string     `gorm:"type:varchar(100)" json:"content_type"`
	SizeBytes   int64      `gorm:"not null" json:"size_bytes"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (Attachment) TableName() string {
	return "attachments"
}
