package leavetype

import (
	"net/http"
	"time"

	"go-hrcore/internal/employee"
	"go-hrcore/internal/shared/apperror"

	"github.com/shopspring/decimal"
)

var ErrFemaleOnly = apperror.New(
	apperror.CodeNotEligible,
	"this leave type is only available to female employees",
	http.StatusUnprocessableEntity,
)

// QuotaPolicy computes the per-period ceiling for a leave type. unlimited
// means the type has no ceiling at all and quota checks are skipped.
type QuotaPolicy interface {
	Ceiling(profile employee.Profile, lt LeaveType, asOf time.Time) (ceiling decimal.Decimal, unlimited bool)
}

// EligibilityPolicy gates a leave type on requester attributes. It is
// checked before any quota computation.
type EligibilityPolicy interface {
	Check(profile employee.Profile) error
}

// FixedQuota reads the ceiling straight off the leave type row.
type FixedQuota struct{}

func (FixedQuota) Ceiling(_ employee.Profile, lt LeaveType, _ time.Time) (decimal.Decimal, bool) {
	if lt.TotalHours == nil {
		return decimal.Zero, true
	}
	return *lt.TotalHours, false
}

// ServiceYearsQuota derives the annual-leave ceiling from elapsed service
// time instead of a flat total_hours value.
type ServiceYearsQuota struct{}

func (ServiceYearsQuota) Ceiling(profile employee.Profile, _ LeaveType, asOf time.Time) (decimal.Decimal, bool) {
	months := monthsBetween(profile.HireDate, asOf)

	var days int64
	switch {
	case months < 6:
		days = 0
	case months < 12:
		days = 3
	case months < 24:
		days = 7
	case months < 36:
		days = 10
	case months < 60:
		days = 14
	case months < 120:
		days = 15
	default:
		days = 15 + int64(months/12) - 9
		if days > 30 {
			days = 30
		}
	}

	return decimal.NewFromInt(days * 8), false
}

func monthsBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	return months
}

// FemaleOnly is the eligibility gate for menstrual leave.
type FemaleOnly struct{}

func (FemaleOnly) Check(profile employee.Profile) error {
	if profile.Gender != employee.GenderFemale {
		return ErrFemaleOnly
	}
	return nil
}

type allowAll struct{}

func (allowAll) Check(employee.Profile) error { return nil }

// PolicyFor selects the quota and eligibility policies for a leave type by
// its stable machine name. Unknown names get the fixed-quota defaults.
func PolicyFor(name string) (QuotaPolicy, EligibilityPolicy) {
	switch name {
	case NameAnnual:
		return ServiceYearsQuota{}, allowAll{}
	case NameMenstrual:
		return FixedQuota{}, FemaleOnly{}
	default:
		return FixedQuota{}, allowAll{}
	}
}
