package reminder

import (
	"context"
	"strings"
	"testing"
	"time"

	"paisa/internal/core"
)

type fakeStore struct {
	profile  core.Profile
	expenses []core.Expense
}

func (f *fakeStore) GetProfile(context.Context) (core.Profile, error) { return f.profile, nil }

func (f *fakeStore) ListExpenses(_ context.Context, from, to time.Time) ([]core.Expense, error) {
	var out []core.Expense
	for _, e := range f.expenses {
		if !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) EnsureMonthlySalary(_ context.Context, t time.Time, p core.Profile) (core.MonthlySalary, error) {
	return core.MonthlySalary{
		Month:          core.MonthKey(t),
		TotalSalary:    p.TotalSalary,
		PersonalBudget: p.PersonalBudget,
	}, nil
}

type recorder struct {
	texts []string
}

func (r *recorder) Reminder(_ context.Context, text string) { r.texts = append(r.texts, text) }

func testProfile() core.Profile {
	return core.Profile{
		ID:              1,
		Currency:        "₹",
		TotalSalary:     core.FromUnits(100000),
		PersonalBudget:  core.FromUnits(35000),
		SalaryDay:       7,
		DailyFoodBudget: core.FromUnits(400),
	}
}

func at(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestRunMorningBrief(t *testing.T) {
	store := &fakeStore{profile: testProfile(), expenses: []core.Expense{
		{Amount: core.FromUnits(450), Category: "Food", Description: "dinner", Date: at(2026, time.September, 9, 20)},
	}}
	rec := &recorder{}

	sent, err := New(store, rec).Run(context.Background(), at(2026, time.September, 10, 9))
	if err != nil {
		t.Fatal(err)
	}
	if len(sent) != 1 || sent[0] != "morning_brief" {
		t.Fatalf("sent = %v, want [morning_brief]", sent)
	}
	if !strings.Contains(rec.texts[0], "Good Morning") {
		t.Errorf("unexpected text: %q", rec.texts[0])
	}
	if !strings.Contains(rec.texts[0], "₹450") {
		t.Errorf("yesterday's total missing: %q", rec.texts[0])
	}
}

func TestRunEveningNudgeWhenNothingLogged(t *testing.T) {
	store := &fakeStore{profile: testProfile()}
	rec := &recorder{}

	sent, err := New(store, rec).Run(context.Background(), at(2026, time.September, 10, 20))
	if err != nil {
		t.Fatal(err)
	}
	if len(sent) != 1 || sent[0] != "evening_nudge" {
		t.Fatalf("sent = %v, want [evening_nudge]", sent)
	}
	if !strings.Contains(rec.texts[0], "haven't logged") {
		t.Errorf("unexpected text: %q", rec.texts[0])
	}
}

func TestRunEveningReport(t *testing.T) {
	now := at(2026, time.September, 10, 20)
	store := &fakeStore{profile: testProfile(), expenses: []core.Expense{
		{Amount: core.FromUnits(200), Category: "Food", Description: "lunch", Date: at(2026, time.September, 10, 13)},
		{Amount: core.FromUnits(150), Category: "Travel", Description: "cab", Date: at(2026, time.September, 10, 18)},
	}}
	rec := &recorder{}

	sent, err := New(store, rec).Run(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if len(sent) != 1 || sent[0] != "evening_report" {
		t.Fatalf("sent = %v, want [evening_report]", sent)
	}
	if !strings.Contains(rec.texts[0], "2 expenses") {
		t.Errorf("count missing: %q", rec.texts[0])
	}
	if !strings.Contains(rec.texts[0], "₹350") {
		t.Errorf("today's total missing: %q", rec.texts[0])
	}
}

func TestRunWeekendAdvisoryOnFridayOnly(t *testing.T) {
	store := &fakeStore{profile: testProfile()}
	rec := &recorder{}
	scheduler := New(store, rec)

	// Friday Sep 11 2026 at 18:00.
	sent, err := scheduler.Run(context.Background(), at(2026, time.September, 11, 18))
	if err != nil {
		t.Fatal(err)
	}
	if len(sent) != 1 || sent[0] != "weekend_advisory" {
		t.Fatalf("sent = %v, want [weekend_advisory]", sent)
	}

	// Thursday at 18:00 must stay quiet.
	sent, err = scheduler.Run(context.Background(), at(2026, time.September, 10, 18))
	if err != nil {
		t.Fatal(err)
	}
	if len(sent) != 0 {
		t.Fatalf("Thursday 18:00 sent %v, want nothing", sent)
	}
}

func TestRunMonthEndWarning(t *testing.T) {
	// Oct 5 evening: 2 days to the Oct 7 payday, almost nothing left.
	now := at(2026, time.October, 5, 20)
	store := &fakeStore{profile: testProfile(), expenses: []core.Expense{
		{Amount: core.FromUnits(34000), Category: "Other", Description: "rent and bills", Date: at(2026, time.September, 20, 10)},
	}}
	rec := &recorder{}

	sent, err := New(store, rec).Run(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}

	warned := false
	for _, kind := range sent {
		if kind == "month_end_warning" {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("sent = %v, expected month_end_warning", sent)
	}
}

func TestRunOffHoursSendsNothing(t *testing.T) {
	store := &fakeStore{profile: testProfile()}
	rec := &recorder{}

	sent, err := New(store, rec).Run(context.Background(), at(2026, time.September, 10, 11))
	if err != nil {
		t.Fatal(err)
	}
	if len(sent) != 0 || len(rec.texts) != 0 {
		t.Errorf("off-hours run sent %v", sent)
	}
}
