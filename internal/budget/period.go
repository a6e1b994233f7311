// Package budget implements the fiscal-period resolver, the expense
// aggregator, and the insight engine. A fiscal period is the budgeting
// window anchored to the profile's salary day rather than the calendar
// month.
package budget

import (
	"time"

	"paisa/internal/core"
)

// Period is the active budgeting window. It is derived from "now" and the
// salary day on every call and never persisted, so two calls straddling a
// boundary may disagree; that approximation is accepted.
type Period struct {
	// Start is midnight of the first day of the period.
	Start time.Time
	// End is midnight of the last day of the period (the day before the
	// next salary day).
	End time.Time
	// Next is midnight of the next period's first day.
	Next time.Time
	// Days is the total day count of the period.
	Days int
	// DaysElapsed counts whole days since Start. On the salary day itself
	// it is 0 before noon and 1 from noon on; see Resolve.
	DaysElapsed int
	// DaysUntilNext is the whole-day countdown to Next, clamped to [0, 31].
	DaysUntilNext int
}

// Resolve computes the fiscal period containing now for the given salary
// day (1-31).
//
// When a month is shorter than the salary day, the anchor clamps to the last
// valid day of that month (salary day 31 in April anchors on April 30). On
// the salary day itself, hours before noon count as day 0 of the new period
// and hours from noon on count as one elapsed day. The noon cut-off is a
// policy choice, not arithmetic necessity.
func Resolve(now time.Time, salaryDay int) (Period, error) {
	if salaryDay < 1 || salaryDay > 31 {
		return Period{}, core.ErrInvalidSalaryDay
	}

	loc := now.Location()
	var start time.Time
	if now.Day() >= clampDay(now.Year(), now.Month(), salaryDay) {
		start = time.Date(now.Year(), now.Month(), clampDay(now.Year(), now.Month(), salaryDay), 0, 0, 0, 0, loc)
	} else {
		y, m := prevMonth(now.Year(), now.Month())
		start = time.Date(y, m, clampDay(y, m, salaryDay), 0, 0, 0, 0, loc)
	}

	ny, nm := nextMonth(start.Year(), start.Month())
	next := time.Date(ny, nm, clampDay(ny, nm, salaryDay), 0, 0, 0, 0, loc)

	p := Period{
		Start: start,
		End:   next.AddDate(0, 0, -1),
		Next:  next,
		Days:  wholeDays(next.Sub(start)),
	}

	p.DaysElapsed = wholeDays(now.Sub(start))
	if sameDay(now, start) {
		if now.Hour() >= 12 {
			p.DaysElapsed = 1
		} else {
			p.DaysElapsed = 0
		}
	}

	until := wholeDays(next.Sub(now))
	if until < 0 {
		until = 0
	}
	if until > 31 {
		until = 31
	}
	p.DaysUntilNext = until

	return p, nil
}

// Contains reports whether t falls inside the period (inclusive of the last
// day up to midnight of Next).
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.Next)
}

// clampDay pins day to the last valid day of the month when the month is
// shorter.
func clampDay(year int, month time.Month, day int) int {
	last := daysInMonth(year, month)
	if day > last {
		return last
	}
	return day
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func prevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// wholeDays truncates a duration to whole days, rounding to the nearest hour
// first so DST transitions do not shave off a day.
func wholeDays(d time.Duration) int {
	return int(d.Round(time.Hour) / (24 * time.Hour))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
