// Package bot routes inbound Telegram updates to intents: commands, natural
// language expense entry, and inline-keyboard callbacks. Handlers never
// propagate errors upward; the webhook must stay a 200 no matter what, so
// failures turn into apologetic chat messages and log lines.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode"

	"paisa/internal/budget"
	"paisa/internal/chat"
	"paisa/internal/core"
	"paisa/internal/notify"
	"paisa/internal/reminder"
	"paisa/internal/telegram"
)

// Store is the slice of the repository the bot needs.
type Store interface {
	GetProfile(ctx context.Context) (core.Profile, error)
	ListCategories(ctx context.Context) ([]core.Category, error)
	CreateExpense(ctx context.Context, e core.Expense) (int64, error)
	DeleteExpense(ctx context.Context, id int64) error
	LastExpense(ctx context.Context) (core.Expense, error)
	ListExpenses(ctx context.Context, from, to time.Time) ([]core.Expense, error)
	EnsureMonthlySalary(ctx context.Context, t time.Time, p core.Profile) (core.MonthlySalary, error)
}

// Sender is the outbound chat transport.
type Sender interface {
	SendMessage(ctx context.Context, text string, keyboard any) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Handler turns updates into replies.
type Handler struct {
	store    Store
	sender   Sender
	notifier *notify.Notifier
	engine   *budget.Engine

	now func() time.Time
}

// New builds a handler using the default insight thresholds and wall-clock
// time.
func New(store Store, sender Sender, notifier *notify.Notifier) *Handler {
	return &Handler{
		store:    store,
		sender:   sender,
		notifier: notifier,
		engine:   budget.NewEngine(),
		now:      time.Now,
	}
}

// HandleUpdate processes one webhook update. It never returns an error and
// never panics out; a malformed or unexpected update is logged and dropped.
func (h *Handler) HandleUpdate(ctx context.Context, u telegram.Update) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Panic handling update", "panic", r, "update_id", u.UpdateID)
		}
	}()

	switch {
	case u.CallbackQuery != nil:
		h.handleCallback(ctx, u.CallbackQuery)
	case u.Message != nil && u.Message.Text != "":
		h.handleText(ctx, u.Message.Text)
	default:
		slog.InfoContext(ctx, "Ignoring update without text", "update_id", u.UpdateID)
	}
}

// normalize lowercases, strips a leading slash, and drops leading emoji so
// keyboard labels like "💰 Balance" route the same as typed "balance".
func normalize(text string) string {
	t := strings.TrimSpace(strings.ToLower(text))
	t = strings.TrimPrefix(t, "/")
	t = strings.TrimLeftFunc(t, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.TrimSpace(t)
}

var categoryIntents = map[string]string{
	"food": "Food", "travel": "Travel",
	"drinks": "Alcohol", "alcohol": "Alcohol",
	"misc": "Miscellaneous", "miscellaneous": "Miscellaneous",
	"other": core.CategoryOther,
}

func (h *Handler) handleText(ctx context.Context, text string) {
	cmd := normalize(text)
	now := h.now()

	switch cmd {
	case "":
		h.send(ctx, unknownText(), mainKeyboard())
	case "balance", "bal":
		h.withSnapshot(ctx, now, func(s snapshot) string {
			return balanceText(s.profile, s.report)
		})
	case "today":
		h.dayReport(ctx, now, "Today")
	case "yesterday":
		h.dayReport(ctx, now.AddDate(0, 0, -1), "Yesterday")
	case "week":
		h.withSnapshot(ctx, now, func(s snapshot) string {
			return weekText(s.expenses, budget.LastNDays(now, 7), s.profile)
		})
	case "month", "summary":
		h.withSnapshot(ctx, now, func(s snapshot) string {
			return monthText(s.profile, s.report, s.expenses)
		})
	case "report":
		h.fullReport(ctx, now)
	case "weekend":
		h.withSnapshot(ctx, now, func(s snapshot) string {
			return weekendText(s.profile, s.report)
		})
	case "morning", "brief":
		h.withSnapshot(ctx, now, func(s snapshot) string {
			yesterday := budget.Sum(s.expenses, budget.DayWindow(now.AddDate(0, 0, -1)), "")
			return reminder.MorningBrief(s.profile, yesterday, s.report.TotalSpent,
				s.report.Remaining, s.report.AdjustedDailyBudget)
		})
	case "evening":
		h.withSnapshot(ctx, now, func(s snapshot) string {
			today := budget.DayWindow(now)
			logged := budget.Filter(s.expenses, today)
			if len(logged) == 0 {
				return reminder.EveningNudge()
			}
			return reminder.EveningReport(s.profile, budget.Sum(logged, today, ""), len(logged),
				s.report.TotalSpent, s.report.Remaining, s.report.OriginalDailyBudget)
		})
	case "help", "start":
		h.send(ctx, helpText(), mainKeyboard())
	case "settings":
		h.send(ctx, settingsText(), nil)
	case "add":
		h.send(ctx, addUsageText(), quickAddKeyboard())
	default:
		if name, ok := categoryIntents[cmd]; ok {
			h.categoryReport(ctx, now, name)
			return
		}
		if rest, ok := strings.CutPrefix(cmd, "add "); ok {
			if p := chat.Parse(rest); p != nil {
				h.addExpense(ctx, now, p.Amount, p.Description, p.Category)
			} else {
				h.send(ctx, addUsageText(), nil)
			}
			return
		}
		if p := chat.Parse(cmd); p != nil {
			h.addExpense(ctx, now, p.Amount, p.Description, p.Category)
			return
		}
		h.send(ctx, unknownText(), mainKeyboard())
	}
}

func (h *Handler) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) {
	now := h.now()

	switch data := cb.Data; {
	case data == "balance":
		h.answer(ctx, cb.ID, "")
		h.withSnapshot(ctx, now, func(s snapshot) string {
			return balanceText(s.profile, s.report)
		})
	case data == "today_total":
		h.answer(ctx, cb.ID, "")
		h.dayReport(ctx, now, "Today")
	case data == "delete_last":
		h.deleteLast(ctx, cb.ID)
	case strings.HasPrefix(data, "quick_"):
		h.answer(ctx, cb.ID, "Adding…")
		h.quickAdd(ctx, now, data)
	default:
		h.answer(ctx, cb.ID, "Unknown action")
		slog.InfoContext(ctx, "Unknown callback token", "data", cb.Data)
	}
}

// quickAdd consumes a quick_<amount>_<description> token.
func (h *Handler) quickAdd(ctx context.Context, now time.Time, data string) {
	parts := strings.SplitN(data, "_", 3)
	if len(parts) != 3 {
		h.send(ctx, unknownText(), nil)
		return
	}
	units, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || units <= 0 || units > chat.MaxAmount {
		h.send(ctx, unknownText(), nil)
		return
	}
	desc := strings.ReplaceAll(parts[2], "_", " ")
	h.addExpense(ctx, now, core.FromUnits(units), desc, chat.Classify(desc))
}

func (h *Handler) deleteLast(ctx context.Context, callbackID string) {
	last, err := h.store.LastExpense(ctx)
	if err != nil {
		h.answer(ctx, callbackID, "Nothing to delete")
		return
	}
	if err := h.store.DeleteExpense(ctx, last.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to delete last expense", "id", last.ID, "error", err)
		h.answer(ctx, callbackID, "Couldn't delete it")
		return
	}
	sym := ""
	if profile, err := h.store.GetProfile(ctx); err == nil {
		sym = profile.Currency
	}
	h.answer(ctx, callbackID, "Deleted")
	h.send(ctx, fmt.Sprintf("🗑 Deleted: %s — %s", last.Description, last.Amount.Format(sym)), nil)
}

func (h *Handler) addExpense(ctx context.Context, now time.Time, amount core.Money, desc, category string) {
	profile, err := h.store.GetProfile(ctx)
	if err != nil {
		h.fail(ctx, "load profile", err)
		return
	}

	e := core.Expense{
		Amount:      amount,
		Category:    category,
		Description: desc,
		Date:        now,
	}
	if err := e.Validate(); err != nil {
		h.send(ctx, fmt.Sprintf("⚠️ Can't add that: %v", err), nil)
		return
	}

	id, err := h.store.CreateExpense(ctx, e)
	if err != nil {
		h.fail(ctx, "create expense", err)
		return
	}
	e.ID = id

	s, err := h.snapshot(ctx, now)
	if err != nil {
		// The expense is saved; still confirm, just without the totals.
		h.send(ctx, fmt.Sprintf("✅ Added %s — %s", desc, amount.Format(profile.Currency)), nil)
		return
	}

	todayTotal := budget.Sum(s.expenses, budget.DayWindow(now), "")
	h.send(ctx, confirmationText(s.profile, e, todayTotal, s.report.Remaining), confirmKeyboard())
	h.notifier.ExpenseAdded(ctx, s.profile, e, s.report, todayTotal)
}

func (h *Handler) dayReport(ctx context.Context, day time.Time, title string) {
	h.withSnapshot(ctx, day, func(s snapshot) string {
		return dayText(title, budget.Filter(s.expenses, budget.DayWindow(day)), s.profile)
	})
}

func (h *Handler) categoryReport(ctx context.Context, now time.Time, name string) {
	s, err := h.snapshot(ctx, now)
	if err != nil {
		h.fail(ctx, "load snapshot", err)
		return
	}

	var catBudget core.Money
	if cats, err := h.store.ListCategories(ctx); err == nil {
		for _, c := range cats {
			if c.Name == name {
				catBudget = c.Budget
				break
			}
		}
	}
	h.send(ctx, categoryText(name, catBudget, s.expenses, budget.PeriodWindow(s.period), s.profile), nil)
}

func (h *Handler) fullReport(ctx context.Context, now time.Time) {
	s, err := h.snapshot(ctx, now)
	if err != nil {
		h.fail(ctx, "load snapshot", err)
		return
	}
	cats, err := h.store.ListCategories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list categories", "error", err)
	}
	h.send(ctx, reportText(s.profile, s.report, cats, s.expenses), nil)
}

// snapshot is the per-request view every read intent works from: the profile
// with this month's salary override applied, the fiscal period, the expenses
// covering both the period and the trailing week, and the insight report.
type snapshot struct {
	profile  core.Profile
	period   budget.Period
	expenses []core.Expense
	report   budget.Report
}

func (h *Handler) snapshot(ctx context.Context, now time.Time) (snapshot, error) {
	profile, err := h.store.GetProfile(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("load profile: %w", err)
	}

	ms, err := h.store.EnsureMonthlySalary(ctx, now, profile)
	if err != nil {
		return snapshot{}, fmt.Errorf("ensure monthly salary: %w", err)
	}
	profile.TotalSalary = ms.TotalSalary
	profile.PersonalBudget = ms.PersonalBudget

	period, err := budget.Resolve(now, profile.SalaryDay)
	if err != nil {
		return snapshot{}, fmt.Errorf("resolve period: %w", err)
	}

	// Widen the fetch so week and yesterday views work near the period start.
	from := period.Start
	if weekStart := budget.LastNDays(now, 8).Start; weekStart.Before(from) {
		from = weekStart
	}
	expenses, err := h.store.ListExpenses(ctx, from, budget.PeriodWindow(period).End)
	if err != nil {
		return snapshot{}, fmt.Errorf("list expenses: %w", err)
	}

	return snapshot{
		profile:  profile,
		period:   period,
		expenses: expenses,
		report:   h.engine.Report(profile, expenses, now, period),
	}, nil
}

func (h *Handler) withSnapshot(ctx context.Context, now time.Time, build func(snapshot) string) {
	s, err := h.snapshot(ctx, now)
	if err != nil {
		h.fail(ctx, "load snapshot", err)
		return
	}
	h.send(ctx, build(s), nil)
}

func (h *Handler) send(ctx context.Context, text string, keyboard any) {
	if err := h.sender.SendMessage(ctx, text, keyboard); err != nil {
		slog.ErrorContext(ctx, "Failed to send message", "error", err)
	}
}

func (h *Handler) answer(ctx context.Context, callbackID, text string) {
	if err := h.sender.AnswerCallback(ctx, callbackID, text); err != nil {
		slog.ErrorContext(ctx, "Failed to answer callback", "error", err)
	}
}

func (h *Handler) fail(ctx context.Context, op string, err error) {
	slog.ErrorContext(ctx, "Bot intent failed", "op", op, "error", err)
	h.send(ctx, "😵 Something went wrong on my end. Try again in a moment.", nil)
}
