package budget

import (
	"time"

	"paisa/internal/core"
)

// Status classifies the budget health of the current fiscal period.
type Status string

const (
	StatusCritical    Status = "critical"
	StatusWarning     Status = "warning"
	StatusCaution     Status = "caution"
	StatusMildCaution Status = "mild-caution"
	StatusHealthy     Status = "healthy"
)

// Thresholds are the business-rule boundaries of the status ladder, in whole
// currency units, surfaced as a struct so a deployment can tune them.
type Thresholds struct {
	LowBalance    core.Money
	Warning       core.Money
	Overspend     core.Money
	MildOverspend core.Money
}

// DefaultThresholds returns the standard ladder boundaries: low balance
// under ₹2,000, warning under ₹5,000, overspend alerts at ₹2,000 and ₹500
// over plan.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LowBalance:    core.FromUnits(2000),
		Warning:       core.FromUnits(5000),
		Overspend:     core.FromUnits(2000),
		MildOverspend: core.FromUnits(500),
	}
}

// Report is the full insight payload for one fiscal period. Every field is a
// pure function of the expense list, the profile, and the period.
type Report struct {
	Period Period

	TotalSpent core.Money
	// Remaining may be negative; negative means over budget.
	Remaining           core.Money
	OriginalDailyBudget core.Money
	AdjustedDailyBudget core.Money
	DailyAverage        core.Money
	// Overspending is spend minus the flat allocation for the days elapsed;
	// positive means the pace exceeds the plan.
	Overspending       core.Money
	ProjectedPeriodEnd core.Money

	Status       Status
	StatusReason string

	// FoodStreak counts consecutive days, scanning backward from today,
	// whose food spending stayed within the daily food budget.
	FoodStreak int

	WeekdayAverage core.Money
	WeekendAverage core.Money
}

// Engine computes insight reports. Zero-value thresholds are replaced by the
// defaults.
type Engine struct {
	Thresholds Thresholds
}

// NewEngine returns an engine with the default status ladder.
func NewEngine() *Engine {
	return &Engine{Thresholds: DefaultThresholds()}
}

// Report builds the insight report for the given period. The expense list is
// expected to cover at least the period; anything outside it is ignored. All
// aggregation uses the fiscal period consistently — never the calendar
// month.
func (en *Engine) Report(profile core.Profile, expenses []core.Expense, now time.Time, period Period) Report {
	th := en.Thresholds
	if th == (Thresholds{}) {
		th = DefaultThresholds()
	}

	window := PeriodWindow(period)
	inPeriod := Filter(expenses, window)

	r := Report{Period: period}
	r.TotalSpent = Sum(inPeriod, window, "")
	r.Remaining = profile.PersonalBudget.Sub(r.TotalSpent)

	// Daily budgets floor to whole currency units.
	if period.Days > 0 {
		r.OriginalDailyBudget = core.FromUnits(profile.PersonalBudget.Units() / int64(period.Days))
	}
	r.AdjustedDailyBudget = adjustedDailyBudget(r.Remaining, period.DaysUntilNext)

	if period.DaysElapsed > 0 {
		r.DailyAverage = core.Money{Cents: r.TotalSpent.Cents / int64(period.DaysElapsed)}
	}
	r.Overspending = r.TotalSpent.Sub(core.Money{Cents: r.OriginalDailyBudget.Cents * int64(period.DaysElapsed)})

	if r.TotalSpent.Cents > 0 {
		projected := core.Money{Cents: r.DailyAverage.Cents * int64(period.Days)}
		if projected.Cents > profile.PersonalBudget.Cents {
			projected = profile.PersonalBudget
		}
		r.ProjectedPeriodEnd = projected
	}

	r.Status, r.StatusReason = classify(r.Remaining, r.Overspending, th)
	r.FoodStreak = foodStreak(inPeriod, profile.DailyFoodBudget, now, period)
	r.WeekdayAverage, r.WeekendAverage = dayBucketAverages(inPeriod)

	return r
}

// adjustedDailyBudget is what can still be spent per day until payday:
// zero once the budget is gone, the whole remainder when payday is today.
func adjustedDailyBudget(remaining core.Money, daysUntilNext int) core.Money {
	if remaining.Cents <= 0 {
		return core.Money{}
	}
	if daysUntilNext == 0 {
		return remaining
	}
	return core.FromUnits(remaining.Units() / int64(daysUntilNext))
}

// classify walks the status ladder top-down; the first matching rule wins.
func classify(remaining, overspending core.Money, th Thresholds) (Status, string) {
	switch {
	case remaining.Cents <= 0:
		return StatusCritical, "over budget"
	case remaining.Cents < th.LowBalance.Cents:
		return StatusCritical, "low balance"
	case remaining.Cents < th.Warning.Cents:
		return StatusWarning, "balance running low"
	case overspending.Cents > th.Overspend.Cents:
		return StatusCaution, "spending pace well over plan"
	case overspending.Cents > th.MildOverspend.Cents:
		return StatusMildCaution, "spending pace slightly over plan"
	default:
		return StatusHealthy, "on track"
	}
}

// foodStreak walks backward day by day from today through the period start,
// counting days whose food total stayed within the daily food budget. The
// scan stops at the first violation. Recomputed from scratch on every call;
// there is no incremental state to drift.
func foodStreak(expenses []core.Expense, dailyFoodBudget core.Money, now time.Time, period Period) int {
	streak := 0
	for day := startOfDay(now); !day.Before(period.Start); day = day.AddDate(0, 0, -1) {
		daySum := Sum(expenses, DayWindow(day), "Food")
		if daySum.Cents > dailyFoodBudget.Cents {
			break
		}
		streak++
	}
	return streak
}

// dayBucketAverages splits expenses into weekday and weekend buckets and
// averages each over the distinct days that actually had spending, not over
// the bucket's calendar size. Days with zero expenses do not dilute the
// average.
func dayBucketAverages(expenses []core.Expense) (weekday, weekend core.Money) {
	var weekdayTotal, weekendTotal core.Money
	weekdayDays := map[string]struct{}{}
	weekendDays := map[string]struct{}{}

	for _, e := range expenses {
		key := e.Date.Format("2006-01-02")
		if isWeekend(e.Date) {
			weekendTotal = weekendTotal.Add(e.Amount)
			weekendDays[key] = struct{}{}
		} else {
			weekdayTotal = weekdayTotal.Add(e.Amount)
			weekdayDays[key] = struct{}{}
		}
	}

	if n := len(weekdayDays); n > 0 {
		weekday = core.Money{Cents: weekdayTotal.Cents / int64(n)}
	}
	if n := len(weekendDays); n > 0 {
		weekend = core.Money{Cents: weekendTotal.Cents / int64(n)}
	}
	return weekday, weekend
}
