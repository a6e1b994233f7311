package budget

import (
	"errors"
	"testing"
	"time"

	"paisa/internal/core"
)

func date(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name          string
		now           time.Time
		salaryDay     int
		wantStart     time.Time
		wantNext      time.Time
		wantDays      int
		wantElapsed   int
		wantUntilNext int
	}{
		{
			name:      "mid period",
			now:       date(2026, time.August, 15, 10),
			salaryDay: 7,
			wantStart: date(2026, time.August, 7, 0), wantNext: date(2026, time.September, 7, 0),
			wantDays: 31, wantElapsed: 8, wantUntilNext: 22,
		},
		{
			name:      "before salary day uses previous month",
			now:       date(2026, time.August, 3, 9),
			salaryDay: 7,
			wantStart: date(2026, time.July, 7, 0), wantNext: date(2026, time.August, 7, 0),
			wantDays: 31, wantElapsed: 27, wantUntilNext: 3,
		},
		{
			name:      "salary day morning counts as day zero",
			now:       date(2026, time.August, 7, 11),
			salaryDay: 7,
			wantStart: date(2026, time.August, 7, 0), wantNext: date(2026, time.September, 7, 0),
			wantDays: 31, wantElapsed: 0, wantUntilNext: 30,
		},
		{
			name:      "salary day afternoon counts as one elapsed day",
			now:       date(2026, time.August, 7, 13),
			salaryDay: 7,
			wantStart: date(2026, time.August, 7, 0), wantNext: date(2026, time.September, 7, 0),
			wantDays: 31, wantElapsed: 1, wantUntilNext: 30,
		},
		{
			name:      "salary day 31 clamps in short months",
			now:       date(2026, time.April, 15, 12),
			salaryDay: 31,
			wantStart: date(2026, time.March, 31, 0), wantNext: date(2026, time.April, 30, 0),
			wantDays: 30, wantElapsed: 15, wantUntilNext: 14,
		},
		{
			name:      "year rollover",
			now:       date(2026, time.January, 3, 8),
			salaryDay: 7,
			wantStart: date(2025, time.December, 7, 0), wantNext: date(2026, time.January, 7, 0),
			wantDays: 31, wantElapsed: 27, wantUntilNext: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Resolve(tt.now, tt.salaryDay)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if !p.Start.Equal(tt.wantStart) {
				t.Errorf("Start = %v, want %v", p.Start, tt.wantStart)
			}
			if !p.Next.Equal(tt.wantNext) {
				t.Errorf("Next = %v, want %v", p.Next, tt.wantNext)
			}
			if !p.End.Equal(tt.wantNext.AddDate(0, 0, -1)) {
				t.Errorf("End = %v, want day before Next", p.End)
			}
			if p.Days != tt.wantDays {
				t.Errorf("Days = %d, want %d", p.Days, tt.wantDays)
			}
			if p.DaysElapsed != tt.wantElapsed {
				t.Errorf("DaysElapsed = %d, want %d", p.DaysElapsed, tt.wantElapsed)
			}
			if p.DaysUntilNext != tt.wantUntilNext {
				t.Errorf("DaysUntilNext = %d, want %d", p.DaysUntilNext, tt.wantUntilNext)
			}
		})
	}
}

func TestResolveRejectsBadSalaryDay(t *testing.T) {
	for _, day := range []int{0, 32, -3} {
		if _, err := Resolve(time.Now(), day); !errors.Is(err, core.ErrInvalidSalaryDay) {
			t.Errorf("salary day %d: err = %v, want ErrInvalidSalaryDay", day, err)
		}
	}
}

// Every instant must fall inside the period resolved for it, and the
// countdown must stay in [0, 31], whatever the salary day.
func TestResolveContainsNow(t *testing.T) {
	instants := []time.Time{
		date(2026, time.February, 1, 0),
		date(2026, time.February, 28, 23),
		date(2026, time.April, 30, 12),
		date(2026, time.August, 15, 6),
		date(2026, time.December, 31, 23),
	}
	for _, now := range instants {
		for day := 1; day <= 31; day++ {
			p, err := Resolve(now, day)
			if err != nil {
				t.Fatalf("Resolve(%v, %d): %v", now, day, err)
			}
			if !p.Contains(now) {
				t.Errorf("period %v..%v does not contain now=%v (salary day %d)",
					p.Start, p.Next, now, day)
			}
			if p.DaysUntilNext < 0 || p.DaysUntilNext > 31 {
				t.Errorf("DaysUntilNext = %d out of range (now=%v, salary day %d)",
					p.DaysUntilNext, now, day)
			}
		}
	}
}
