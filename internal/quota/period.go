package quota

import (
	"fmt"
	"strconv"
	"time"

	"go-hrcore/internal/leavetype"
)

// Window is the accrual period containing a reference timestamp. Bounds are
// half-open [Start, End). Lifetime windows have no bounds at all.
type Window struct {
	Start    time.Time
	End      time.Time
	Lifetime bool
}

// WindowFor resolves a leave type's reset rule to the accrual window
// containing asOf. Types without a rule get a lifetime window.
func WindowFor(rules []leavetype.ResetRule, asOf time.Time) (Window, error) {
	if len(rules) == 0 {
		return Window{Lifetime: true}, nil
	}

	rule := rules[0]
	switch rule.RuleType {
	case leavetype.RuleYearly:
		return yearlyWindow(rule.RuleValue, asOf)
	case leavetype.RuleMonthly:
		return monthlyWindow(rule.RuleValue, asOf)
	default:
		return Window{}, fmt.Errorf("unknown reset rule type %q", rule.RuleType)
	}
}

func yearlyWindow(value string, asOf time.Time) (Window, error) {
	anchor, err := time.Parse("01-02", value)
	if err != nil {
		return Window{}, fmt.Errorf("invalid yearly reset value %q: %w", value, err)
	}

	loc := asOf.Location()
	start := time.Date(asOf.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, loc)
	if start.After(asOf) {
		start = start.AddDate(-1, 0, 0)
	}
	return Window{Start: start, End: start.AddDate(1, 0, 0)}, nil
}

func monthlyWindow(value string, asOf time.Time) (Window, error) {
	day, err := strconv.Atoi(value)
	if err != nil || day < 1 || day > 31 {
		return Window{}, fmt.Errorf("invalid monthly reset value %q", value)
	}

	loc := asOf.Location()
	start := dateClamped(asOf.Year(), asOf.Month(), day, loc)
	if start.After(asOf) {
		prev := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -1, 0)
		start = dateClamped(prev.Year(), prev.Month(), day, loc)
	}

	next := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0)
	end := dateClamped(next.Year(), next.Month(), day, loc)
	return Window{Start: start, End: end}, nil
}

// dateClamped builds a date, clamping the day to the month's length so a
// day-31 rule lands on Feb 28/29 instead of rolling into March.
func dateClamped(year int, month time.Month, day int, loc *time.Location) time.Time {
	lastDay := time.Date(year, month, 1, 0, 0, 0, 0, loc).AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}
