package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the closed set of leave request states. The numeric codes are
// persisted and part of the API contract.
type Status int

const (
	StatusPending         Status = 0
	StatusManagerApproved Status = 1
	StatusManagerRejected Status = 2
	StatusHRApproved      Status = 3
	StatusHRRejected      Status = 4
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusManagerApproved:
		return "manager_approved"
	case StatusManagerRejected:
		return "manager_rejected"
	case StatusHRApproved:
		return "hr_approved"
	case StatusHRRejected:
		return "hr_rejected"
	default:
		return "unknown"
	}
}

// Terminal states admit no further transition.
func (s Status) Terminal() bool {
	return s == StatusManagerRejected || s == StatusHRApproved || s == StatusHRRejected
}

// Active states count toward the overlap invariant.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusManagerApproved
}

// ActiveStatuses is the overlap set: submitted and not yet finally rejected.
var ActiveStatuses = []Status{StatusPending, StatusManagerApproved}

// QuotaStatuses count against the accrual-period quota.
var QuotaStatuses = []Status{StatusPending, StatusManagerApproved, StatusHRApproved}

type LeaveRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_user_range"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;index"`

	StartTime  time.Time       `gorm:"not null;index:idx_leave_requests_user_range"`
	EndTime    time.Time       `gorm:"not null;index:idx_leave_requests_user_range"`
	LeaveHours decimal.Decimal `gorm:"type:numeric(7,2);not null"`
	Reason     string          `gorm:"type:text"`

	Status       Status     `gorm:"type:smallint;not null;default:0;index"`
	RejectReason *string    `gorm:"type:text"`
	ApprovedBy   *uuid.UUID `gorm:"type:uuid"`
	AttachmentID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// HoursBetween computes leave duration in hours, rounded to two decimal
// places.
func HoursBetween(start, end time.Time) decimal.Decimal {
	return decimal.NewFromFloat(end.Sub(start).Hours()).Round(2)
}
