package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	GenderFemale = "female"
	GenderMale   = "male"
)

// Employee rows are owned by the directory service; this engine only reads
// them to route approvals and notifications.
type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index"`
	ManagerID    *uuid.UUID `gorm:"type:uuid"`
	FullName     string
	Email        string `gorm:"uniqueIndex"`
	Gender       string `gorm:"type:varchar(10)"`
	HireDate     time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the slice of the employee record the leave engine consumes.
type Profile struct {
	UserID       string
	DepartmentID string
	ManagerID    string
	Gender       string
	HireDate     time.Time
}
