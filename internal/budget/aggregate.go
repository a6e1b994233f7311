package budget

import (
	"time"

	"paisa/internal/core"
)

// Window is an inclusive date range for aggregation. Both bounds are
// instants; an expense dated exactly on either bound is included.
type Window struct {
	Start time.Time
	End   time.Time
}

// Sum filters expenses to the window (and optionally a category) and adds
// their amounts. Pure filter-and-reduce; order of the input is irrelevant.
func Sum(expenses []core.Expense, w Window, category string) core.Money {
	var total core.Money
	for _, e := range expenses {
		if !w.Contains(e.Date) {
			continue
		}
		if category != "" && e.Category != category {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total
}

// Filter returns the expenses inside the window, preserving order.
func Filter(expenses []core.Expense, w Window) []core.Expense {
	var out []core.Expense
	for _, e := range expenses {
		if w.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// Contains reports whether t falls inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// DayWindow covers a single calendar day.
func DayWindow(t time.Time) Window {
	start := startOfDay(t)
	return Window{Start: start, End: endOfDay(start)}
}

// LastNDays covers n calendar days ending today (n=7 gives today plus the
// six preceding days).
func LastNDays(now time.Time, n int) Window {
	start := startOfDay(now).AddDate(0, 0, -(n - 1))
	return Window{Start: start, End: endOfDay(now)}
}

// PeriodWindow covers a whole fiscal period.
func PeriodWindow(p Period) Window {
	return Window{Start: p.Start, End: endOfDay(p.End)}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}

// isWeekend reports Saturday or Sunday.
func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
