package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestExpenseValidate(t *testing.T) {
	valid := Expense{
		Amount:      FromUnits(200),
		Category:    "Food",
		Description: "lunch",
		Date:        time.Now(),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid expense rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Expense)
		want   error
	}{
		{"zero amount", func(e *Expense) { e.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(e *Expense) { e.Amount = Money{Cents: -100} }, ErrInvalidAmount},
		{"blank description", func(e *Expense) { e.Description = "   " }, ErrEmptyDescription},
		{"overlong description", func(e *Expense) { e.Description = strings.Repeat("x", 201) }, nil},
		{"zero date", func(e *Expense) { e.Date = time.Time{} }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			err := e.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDisplayDescription(t *testing.T) {
	e := Expense{Description: "poker night", IsFake: true}

	if got := e.DisplayDescription(true); got != "Miscellaneous" {
		t.Errorf("masked description = %q, want Miscellaneous", got)
	}
	if got := e.DisplayDescription(false); got != "poker night" {
		t.Errorf("privacy off should show real description, got %q", got)
	}

	plain := Expense{Description: "lunch"}
	if got := plain.DisplayDescription(true); got != "lunch" {
		t.Errorf("non-fake expense must never be masked, got %q", got)
	}
}

func TestProfileValidate(t *testing.T) {
	base := Profile{
		Currency:        "₹",
		TotalSalary:     FromUnits(100000),
		PersonalBudget:  FromUnits(35000),
		SalaryDay:       7,
		DailyFoodBudget: FromUnits(400),
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid profile rejected: %v", err)
	}

	for _, day := range []int{0, 32, -1} {
		p := base
		p.SalaryDay = day
		if !errors.Is(p.Validate(), ErrInvalidSalaryDay) {
			t.Errorf("salary day %d should be rejected", day)
		}
	}

	p := base
	p.PersonalBudget = Money{Cents: -1}
	if !errors.Is(p.Validate(), ErrInvalidAmount) {
		t.Error("negative budget should be rejected")
	}
}

func TestMonthKey(t *testing.T) {
	in := time.Date(2026, time.August, 27, 15, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	got := MonthKey(in)
	want := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("MonthKey = %v, want %v", got, want)
	}
}
