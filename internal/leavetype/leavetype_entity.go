package leavetype

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stable machine names used to select per-type policies. Display names are
// free to change; these are not.
const (
	NameAnnual    = "annual"
	NameSick      = "sick"
	NamePersonal  = "personal"
	NameMenstrual = "menstrual"
)

const (
	RuleYearly  = "yearly"
	RuleMonthly = "monthly"
)

type LeaveType struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"type:varchar(30);not null;uniqueIndex"`
	DisplayName string    `gorm:"type:varchar(50);not null"`
	Description string    `gorm:"type:text"`
	// TotalHours is the flat ceiling for fixed-quota types. Nil means no
	// ceiling (or a policy-computed one, as with annual leave).
	TotalHours *decimal.Decimal `gorm:"type:numeric(7,2)"`

	ResetRules []ResetRule `gorm:"foreignKey:LeaveTypeID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResetRule defines the accrual-period boundary for its leave type.
// RuleValue is "MM-DD" for yearly rules and a day-of-month for monthly ones.
// A type with no rule has a lifetime window.
type ResetRule struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;index"`
	RuleType    string    `gorm:"type:varchar(10);not null"`
	RuleValue   string    `gorm:"type:varchar(10);not null"`
	CreatedAt   time.Time
}
