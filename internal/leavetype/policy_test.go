package leavetype_test

import (
	"testing"
	"time"

	"go-hrcore/internal/employee"
	"go-hrcore/internal/leavetype"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestServiceYearsQuota_Ceiling(t *testing.T) {
	asOf := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	hired := func(yearsAgo, monthsAgo int) employee.Profile {
		return employee.Profile{HireDate: asOf.AddDate(-yearsAgo, -monthsAgo, 0)}
	}

	cases := []struct {
		name    string
		profile employee.Profile
		want    int64
	}{
		{"under six months accrues nothing", hired(0, 3), 0},
		{"six months gets three days", hired(0, 7), 3 * 8},
		{"over a year gets seven days", hired(1, 6), 7 * 8},
		{"over two years gets ten days", hired(2, 6), 10 * 8},
		{"over three years gets fourteen days", hired(4, 0), 14 * 8},
		{"over five years gets fifteen days", hired(7, 0), 15 * 8},
		{"long service adds a day per year", hired(12, 0), (15 + 12 - 9) * 8},
		{"very long service caps at thirty days", hired(40, 0), 30 * 8},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ceiling, unlimited := leavetype.ServiceYearsQuota{}.Ceiling(tc.profile, leavetype.LeaveType{}, asOf)

			assert.False(t, unlimited)
			assert.Equal(t, decimal.NewFromInt(tc.want).String(), ceiling.String())
		})
	}

	t.Run("future hire date accrues nothing", func(t *testing.T) {
		profile := employee.Profile{HireDate: asOf.AddDate(0, 2, 0)}

		ceiling, _ := leavetype.ServiceYearsQuota{}.Ceiling(profile, leavetype.LeaveType{}, asOf)

		assert.Equal(t, "0", ceiling.String())
	})
}

func TestFixedQuota_Ceiling(t *testing.T) {
	t.Run("reads the flat ceiling off the type", func(t *testing.T) {
		hours := decimal.NewFromInt(240)
		lt := leavetype.LeaveType{Name: leavetype.NameSick, TotalHours: &hours}

		ceiling, unlimited := leavetype.FixedQuota{}.Ceiling(employee.Profile{}, lt, time.Now())

		assert.False(t, unlimited)
		assert.Equal(t, "240", ceiling.String())
	})

	t.Run("missing ceiling means unlimited", func(t *testing.T) {
		lt := leavetype.LeaveType{Name: leavetype.NamePersonal}

		_, unlimited := leavetype.FixedQuota{}.Ceiling(employee.Profile{}, lt, time.Now())

		assert.True(t, unlimited)
	})
}

func TestFemaleOnly_Check(t *testing.T) {
	t.Run("female employee passes", func(t *testing.T) {
		err := leavetype.FemaleOnly{}.Check(employee.Profile{Gender: employee.GenderFemale})

		assert.NoError(t, err)
	})

	t.Run("negative male employee is rejected", func(t *testing.T) {
		err := leavetype.FemaleOnly{}.Check(employee.Profile{Gender: employee.GenderMale})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only available to female employees")
	})
}

func TestPolicyFor(t *testing.T) {
	t.Run("annual leave uses service years", func(t *testing.T) {
		quotaPolicy, _ := leavetype.PolicyFor(leavetype.NameAnnual)

		_, ok := quotaPolicy.(leavetype.ServiceYearsQuota)
		assert.True(t, ok)
	})

	t.Run("menstrual leave is gated on gender", func(t *testing.T) {
		_, eligibility := leavetype.PolicyFor(leavetype.NameMenstrual)

		err := eligibility.Check(employee.Profile{Gender: employee.GenderMale})
		assert.Error(t, err)
	})

	t.Run("unknown types fall back to fixed quota", func(t *testing.T) {
		quotaPolicy, eligibility := leavetype.PolicyFor("sabbatical")

		_, ok := quotaPolicy.(leavetype.FixedQuota)
		assert.True(t, ok)
		assert.NoError(t, eligibility.Check(employee.Profile{}))
	})
}
