package reminder

import (
	"context"
	"fmt"
	"time"

	"paisa/internal/budget"
	"paisa/internal/core"
)

// Store is the slice of the repository the scheduler needs.
type Store interface {
	GetProfile(ctx context.Context) (core.Profile, error)
	ListExpenses(ctx context.Context, from, to time.Time) ([]core.Expense, error)
	EnsureMonthlySalary(ctx context.Context, t time.Time, p core.Profile) (core.MonthlySalary, error)
}

// Messenger queues an outbound reminder.
type Messenger interface {
	Reminder(ctx context.Context, text string)
}

// Scheduler decides which reminders are due at a given instant. It holds no
// timers of its own; an external cron hits the trigger endpoint and passes
// the current time in.
type Scheduler struct {
	store    Store
	notifier Messenger
	engine   *budget.Engine

	// Trigger hours, local to the incoming timestamp.
	MorningHour int
	EveningHour int
	WeekendHour int
}

// New builds a scheduler with the standard trigger hours: 9 for the morning
// brief, 20 for the evening report, Friday 18 for the weekend advisory.
func New(store Store, notifier Messenger) *Scheduler {
	return &Scheduler{
		store:       store,
		notifier:    notifier,
		engine:      budget.NewEngine(),
		MorningHour: 9,
		EveningHour: 20,
		WeekendHour: 18,
	}
}

// Run evaluates the reminders due at now and queues them. It returns the
// kinds that were sent so the trigger endpoint can report what happened.
// The month's salary override is materialized first so budget figures always
// come from concrete per-month numbers.
func (s *Scheduler) Run(ctx context.Context, now time.Time) ([]string, error) {
	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	ms, err := s.store.EnsureMonthlySalary(ctx, now, profile)
	if err != nil {
		return nil, fmt.Errorf("ensure monthly salary: %w", err)
	}
	profile.TotalSalary = ms.TotalSalary
	profile.PersonalBudget = ms.PersonalBudget

	period, err := budget.Resolve(now, profile.SalaryDay)
	if err != nil {
		return nil, fmt.Errorf("resolve period: %w", err)
	}

	// Fetch one extra day before the period so the morning brief can report
	// yesterday even on the first day of a new period.
	window := budget.PeriodWindow(period)
	expenses, err := s.store.ListExpenses(ctx, window.Start.AddDate(0, 0, -1), window.End)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	report := s.engine.Report(profile, expenses, now, period)

	var sent []string
	switch {
	case now.Hour() == s.MorningHour:
		yesterday := budget.Sum(expenses, budget.DayWindow(now.AddDate(0, 0, -1)), "")
		s.notifier.Reminder(ctx, MorningBrief(profile, yesterday, report.TotalSpent,
			report.Remaining, report.AdjustedDailyBudget))
		sent = append(sent, "morning_brief")

	case now.Hour() == s.EveningHour:
		today := budget.DayWindow(now)
		logged := budget.Filter(expenses, today)
		if len(logged) == 0 {
			s.notifier.Reminder(ctx, EveningNudge())
			sent = append(sent, "evening_nudge")
		} else {
			total := budget.Sum(logged, today, "")
			s.notifier.Reminder(ctx, EveningReport(profile, total, len(logged),
				report.TotalSpent, report.Remaining, report.OriginalDailyBudget))
			sent = append(sent, "evening_report")
		}

		if period.DaysUntilNext <= 3 && report.Remaining.Cents < s.engine.Thresholds.LowBalance.Cents {
			s.notifier.Reminder(ctx, MonthEndWarning(profile, report.Remaining, period.DaysUntilNext))
			sent = append(sent, "month_end_warning")
		}

	case now.Hour() == s.WeekendHour && now.Weekday() == time.Friday:
		s.notifier.Reminder(ctx, WeekendAdvisory())
		sent = append(sent, "weekend_advisory")
	}

	return sent, nil
}
