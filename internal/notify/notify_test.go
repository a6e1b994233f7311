package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"paisa/internal/amqp"
	"paisa/internal/budget"
	"paisa/internal/core"
)

type capturePublisher struct {
	published []*amqp.Notification
}

func (c *capturePublisher) PublishNotification(_ context.Context, n *amqp.Notification) error {
	c.published = append(c.published, n)
	return nil
}

func (c *capturePublisher) kinds() []string {
	out := make([]string, len(c.published))
	for i, n := range c.published {
		out[i] = n.Kind
	}
	return out
}

func testProfile() core.Profile {
	return core.Profile{
		Currency:        "₹",
		PersonalBudget:  core.FromUnits(35000),
		SalaryDay:       7,
		DailyFoodBudget: core.FromUnits(400),
	}
}

func testExpense(units int64) core.Expense {
	return core.Expense{
		ID:          1,
		Amount:      core.FromUnits(units),
		Category:    "Food",
		Description: "lunch",
		Date:        time.Now(),
	}
}

func TestExpenseAddedConfirmationOnly(t *testing.T) {
	pub := &capturePublisher{}
	n := New(pub)

	report := budget.Report{
		Remaining:           core.FromUnits(20000),
		OriginalDailyBudget: core.FromUnits(1166),
		Status:              budget.StatusHealthy,
	}
	n.ExpenseAdded(context.Background(), testProfile(), testExpense(200), report, core.FromUnits(500))

	if got := pub.kinds(); len(got) != 1 || got[0] != amqp.KindExpenseAdded {
		t.Fatalf("kinds = %v, want [expense_added]", got)
	}
	if !strings.Contains(pub.published[0].Text, "₹200") {
		t.Errorf("confirmation missing amount: %q", pub.published[0].Text)
	}
}

func TestExpenseAddedTriggersOverDailyAlert(t *testing.T) {
	pub := &capturePublisher{}
	n := New(pub)

	report := budget.Report{
		Remaining:           core.FromUnits(20000),
		OriginalDailyBudget: core.FromUnits(1166),
		Status:              budget.StatusHealthy,
	}
	n.ExpenseAdded(context.Background(), testProfile(), testExpense(800), report, core.FromUnits(1500))

	got := pub.kinds()
	if len(got) != 2 || got[1] != amqp.KindOverDailyBudget {
		t.Fatalf("kinds = %v, want confirmation plus over-daily alert", got)
	}
}

func TestExpenseAddedTriggersLowBalanceAlert(t *testing.T) {
	pub := &capturePublisher{}
	n := New(pub)

	report := budget.Report{
		Remaining:           core.FromUnits(1500),
		OriginalDailyBudget: core.FromUnits(1166),
		Status:              budget.StatusCritical,
	}
	n.ExpenseAdded(context.Background(), testProfile(), testExpense(200), report, core.FromUnits(200))

	got := pub.kinds()
	if len(got) != 2 || got[1] != amqp.KindLowBalance {
		t.Fatalf("kinds = %v, want confirmation plus low-balance alert", got)
	}
}

func TestNilPublisherIsSilent(t *testing.T) {
	n := New(nil)
	n.ExpenseAdded(context.Background(), testProfile(), testExpense(200), budget.Report{}, core.Money{})
	n.Reminder(context.Background(), "hello")
	// Nothing to assert beyond not panicking.
}
