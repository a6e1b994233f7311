package core

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidSalaryDay = errors.New("salary day must be between 1 and 31")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrExpenseNotFound  = errors.New("expense not found")
)

// CategoryOther is the catch-all category every unmatched expense falls into.
const CategoryOther = "Other"

// maskedDescription replaces sensitive descriptions when privacy mode is on.
const maskedDescription = "Miscellaneous"

// Expense is a single logged spend. Immutable except via explicit edit.
type Expense struct {
	ID          int64
	Amount      Money
	Category    string
	Description string
	Date        time.Time
	Tags        []string
	// IsFake marks an obfuscated entry whose real description should be
	// hidden when the profile's privacy mode is on. Display-level only.
	IsFake bool
}

// Validate checks the fields a user can get wrong.
func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if e.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// DisplayDescription returns the description to show, substituting masked
// entries when privacy mode is enabled.
func (e Expense) DisplayDescription(privacyMode bool) string {
	if privacyMode && e.IsFake {
		return maskedDescription
	}
	return e.Description
}

// Category is read-mostly reference data; expenses point at it by id and fall
// back to Other when the lookup fails.
type Category struct {
	ID            int64
	Name          string
	Budget        Money
	Subcategories []string
}

// Profile is the singleton configuration row. The whole system assumes
// exactly one profile per deployment.
type Profile struct {
	ID              int64
	Currency        string
	TotalSalary     Money
	PersonalBudget  Money
	SalaryDay       int
	DailyFoodBudget Money
	PrivacyMode     bool
}

// Validate rejects out-of-range budget configuration.
func (p Profile) Validate() error {
	if p.SalaryDay < 1 || p.SalaryDay > 31 {
		return ErrInvalidSalaryDay
	}
	if p.PersonalBudget.Cents < 0 || p.TotalSalary.Cents < 0 || p.DailyFoodBudget.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// MonthlySalary overrides the profile's budget figures for one calendar
// month. Month is always normalized to the first of the month, midnight UTC.
type MonthlySalary struct {
	ID             int64
	Month          time.Time
	TotalSalary    Money
	PersonalBudget Money
	Notes          string
}

// MonthKey normalizes t to the first-of-month key used by salary overrides.
func MonthKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
