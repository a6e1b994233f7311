// Package notify builds the proactive chat messages that follow an expense
// being recorded: the confirmation, the over-daily-budget alert, and the
// low-balance alert. Messages go out through a Publisher so the request path
// never waits on delivery; publish failures are logged and swallowed.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"paisa/internal/amqp"
	"paisa/internal/budget"
	"paisa/internal/core"
)

// Publisher enqueues an outbound notification.
type Publisher interface {
	PublishNotification(ctx context.Context, n *amqp.Notification) error
}

// Sender delivers a message immediately; the direct publisher fallback uses
// it when no broker is configured.
type Sender interface {
	SendMessage(ctx context.Context, text string, keyboard any) error
}

// DirectPublisher satisfies Publisher by sending straight to the chat
// transport, for deployments without a broker.
type DirectPublisher struct {
	Sender Sender
}

// PublishNotification sends the message immediately instead of queueing it.
func (d *DirectPublisher) PublishNotification(ctx context.Context, n *amqp.Notification) error {
	return d.Sender.SendMessage(ctx, n.Text, nil)
}

// Notifier publishes post-expense notifications.
type Notifier struct {
	publisher Publisher
}

// New builds a Notifier. A nil publisher disables notifications entirely.
func New(publisher Publisher) *Notifier {
	return &Notifier{publisher: publisher}
}

// ExpenseAdded queues the confirmation plus any triggered alerts. Never
// returns an error: notification failure must not fail the request that
// recorded the expense.
func (n *Notifier) ExpenseAdded(ctx context.Context, profile core.Profile, e core.Expense, report budget.Report, todayTotal core.Money) {
	if n.publisher == nil {
		return
	}

	sym := profile.Currency
	text := fmt.Sprintf(
		"💰 <b>New Expense Added</b>\n\nAmount: %s\nCategory: %s\nDescription: %s\n\nToday's Total: %s\nRemaining Budget: %s",
		e.Amount.Format(sym), e.Category, e.DisplayDescription(profile.PrivacyMode),
		todayTotal.Format(sym), report.Remaining.Format(sym))
	n.publish(ctx, amqp.NewNotification(amqp.KindExpenseAdded, text))

	if todayTotal.Cents > report.OriginalDailyBudget.Cents && report.OriginalDailyBudget.Cents > 0 {
		over := todayTotal.Sub(report.OriginalDailyBudget)
		text := fmt.Sprintf(
			"⚠️ <b>Over Daily Budget!</b>\n\nToday's spending: %s\nDaily budget: %s\nOver by: %s",
			todayTotal.Format(sym), report.OriginalDailyBudget.Format(sym), over.Format(sym))
		n.publish(ctx, amqp.NewNotification(amqp.KindOverDailyBudget, text))
	}

	if report.Status == budget.StatusCritical || report.Status == budget.StatusWarning {
		text := fmt.Sprintf(
			"🔴 <b>Low Balance Alert!</b>\n\nOnly %s left for the month!\nBe careful with spending.",
			report.Remaining.Format(sym))
		n.publish(ctx, amqp.NewNotification(amqp.KindLowBalance, text))
	}
}

// Reminder queues a scheduler-produced message.
func (n *Notifier) Reminder(ctx context.Context, text string) {
	if n.publisher == nil {
		return
	}
	n.publish(ctx, amqp.NewNotification(amqp.KindReminder, text))
}

func (n *Notifier) publish(ctx context.Context, msg *amqp.Notification) {
	if err := n.publisher.PublishNotification(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish notification",
			"kind", msg.Kind, "error", err)
	}
}
