package bot

import (
	"fmt"
	"strings"

	"paisa/internal/budget"
	"paisa/internal/core"
	"paisa/internal/telegram"
)

// mainKeyboard is the persistent reply keyboard. Button labels carry emoji;
// the router strips them before matching, so "💰 Balance" and "balance" are
// the same intent.
func mainKeyboard() *telegram.ReplyKeyboard {
	row := func(labels ...string) []telegram.KeyboardButton {
		buttons := make([]telegram.KeyboardButton, len(labels))
		for i, l := range labels {
			buttons[i] = telegram.KeyboardButton{Text: l}
		}
		return buttons
	}
	return &telegram.ReplyKeyboard{
		Keyboard: [][]telegram.KeyboardButton{
			row("💰 Balance", "📊 Today"),
			row("📅 Week", "🗓 Month"),
			row("🍔 Food", "🚕 Travel"),
			row("📈 Report", "❓ Help"),
		},
		ResizeKeyboard: true,
	}
}

// quickAddKeyboard offers one-tap logging of the usual suspects. The callback
// token format is quick_<amount>_<description>.
func quickAddKeyboard() *telegram.InlineKeyboard {
	return &telegram.InlineKeyboard{
		InlineKeyboard: [][]telegram.InlineButton{
			{
				{Text: "☕ Coffee 50", CallbackData: "quick_50_coffee"},
				{Text: "🍛 Lunch 150", CallbackData: "quick_150_lunch"},
			},
			{
				{Text: "🛺 Auto 100", CallbackData: "quick_100_auto"},
				{Text: "🍽 Dinner 200", CallbackData: "quick_200_dinner"},
			},
		},
	}
}

// confirmKeyboard hangs off an expense confirmation.
func confirmKeyboard() *telegram.InlineKeyboard {
	return &telegram.InlineKeyboard{
		InlineKeyboard: [][]telegram.InlineButton{
			{
				{Text: "📊 Today's Total", CallbackData: "today_total"},
				{Text: "💰 Balance", CallbackData: "balance"},
			},
			{
				{Text: "🗑 Delete Last", CallbackData: "delete_last"},
			},
		},
	}
}

func helpText() string {
	return "👋 <b>Hi! I track your expenses.</b>\n\n" +
		"Just tell me what you spent:\n" +
		"• <code>200 lunch</code>\n" +
		"• <code>coffee 50</code>\n" +
		"• <code>spent 500 on drinks</code>\n" +
		"• <code>add 300 groceries</code>\n\n" +
		"Ask me things:\n" +
		"• <b>balance</b> — what's left this month\n" +
		"• <b>today</b> / <b>yesterday</b> / <b>week</b> / <b>month</b>\n" +
		"• <b>report</b> — the full picture\n" +
		"• <b>food</b>, <b>travel</b>, <b>drinks</b>, <b>misc</b> — category breakdowns\n" +
		"• <b>weekend</b> — weekday vs weekend habits"
}

func settingsText() string {
	return "⚙️ Settings live on the dashboard: salary day, budgets, currency, " +
		"and privacy mode. Open it in your browser to change them."
}

func addUsageText() string {
	return "Usage: <code>add [amount] [description]</code>\nExample: <code>add 250 groceries</code>"
}

func unknownText() string {
	return "🤔 I didn't catch that.\n\n" +
		"Log an expense like <code>200 lunch</code>, or say <b>help</b> to see everything I understand."
}

func statusEmoji(s budget.Status) string {
	switch s {
	case budget.StatusCritical:
		return "🔴"
	case budget.StatusWarning:
		return "🟠"
	case budget.StatusCaution, budget.StatusMildCaution:
		return "🟡"
	default:
		return "🟢"
	}
}

func balanceText(profile core.Profile, r budget.Report) string {
	sym := profile.Currency
	return fmt.Sprintf(
		"💰 <b>Balance</b>\n\n"+
			"Spent: %s\n"+
			"Remaining: %s\n"+
			"Daily budget from here: %s\n"+
			"Days until salary: %d\n\n"+
			"%s %s",
		r.TotalSpent.Format(sym), r.Remaining.Format(sym),
		r.AdjustedDailyBudget.Format(sym), r.Period.DaysUntilNext,
		statusEmoji(r.Status), r.StatusReason)
}

// dayText lists a day's expenses, newest first, capped so the message stays
// readable.
func dayText(title string, expenses []core.Expense, profile core.Profile) string {
	if len(expenses) == 0 {
		return fmt.Sprintf("📊 <b>%s</b>\n\nNo expenses logged. 🎉", title)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>%s</b>\n\n", title)
	var total core.Money
	for i, e := range expenses {
		total = total.Add(e.Amount)
		if i < 10 {
			fmt.Fprintf(&b, "• %s — %s (%s)\n",
				e.DisplayDescription(profile.PrivacyMode), e.Amount.Format(profile.Currency), e.Category)
		}
	}
	if len(expenses) > 10 {
		fmt.Fprintf(&b, "… and %d more\n", len(expenses)-10)
	}
	fmt.Fprintf(&b, "\n<b>Total: %s</b>", total.Format(profile.Currency))
	return b.String()
}

func weekText(expenses []core.Expense, w budget.Window, profile core.Profile) string {
	sym := profile.Currency
	total := budget.Sum(expenses, w, "")

	var b strings.Builder
	fmt.Fprintf(&b, "📅 <b>Last 7 Days</b>\n\n<b>Total: %s</b>\n", total.Format(sym))
	for _, line := range categoryLines(expenses, w, sym) {
		b.WriteString(line)
	}
	fmt.Fprintf(&b, "\nDaily average: %s", core.Money{Cents: total.Cents / 7}.Format(sym))
	return b.String()
}

func monthText(profile core.Profile, r budget.Report, expenses []core.Expense) string {
	sym := profile.Currency
	w := budget.PeriodWindow(r.Period)

	var b strings.Builder
	fmt.Fprintf(&b, "🗓 <b>This Month</b> (%s – %s)\n\n",
		r.Period.Start.Format("Jan 2"), r.Period.End.Format("Jan 2"))
	fmt.Fprintf(&b, "Spent: %s\nRemaining: %s\n", r.TotalSpent.Format(sym), r.Remaining.Format(sym))
	for _, line := range categoryLines(expenses, w, sym) {
		b.WriteString(line)
	}
	fmt.Fprintf(&b, "\n%s %s", statusEmoji(r.Status), r.StatusReason)
	return b.String()
}

func reportText(profile core.Profile, r budget.Report, categories []core.Category, expenses []core.Expense) string {
	sym := profile.Currency
	w := budget.PeriodWindow(r.Period)

	var b strings.Builder
	fmt.Fprintf(&b, "📈 <b>Monthly Report</b>\n\n")
	fmt.Fprintf(&b, "Spent: %s of %s\n", r.TotalSpent.Format(sym), profile.PersonalBudget.Format(sym))
	fmt.Fprintf(&b, "Remaining: %s\n", r.Remaining.Format(sym))
	fmt.Fprintf(&b, "Daily budget: %s (now %s/day)\n",
		r.OriginalDailyBudget.Format(sym), r.AdjustedDailyBudget.Format(sym))
	fmt.Fprintf(&b, "Daily average: %s\n", r.DailyAverage.Format(sym))
	if r.ProjectedPeriodEnd.Cents > 0 {
		fmt.Fprintf(&b, "Projected month-end: %s\n", r.ProjectedPeriodEnd.Format(sym))
	}
	if r.Overspending.Cents > 0 {
		fmt.Fprintf(&b, "Over plan by: %s\n", r.Overspending.Format(sym))
	}
	fmt.Fprintf(&b, "\n%s <b>%s</b>\n", statusEmoji(r.Status), r.StatusReason)

	if len(categories) > 0 {
		b.WriteString("\n<b>By category:</b>\n")
		for _, c := range categories {
			spent := budget.Sum(expenses, w, c.Name)
			if c.Budget.Cents > 0 {
				fmt.Fprintf(&b, "• %s: %s / %s\n", c.Name, spent.Format(sym), c.Budget.Format(sym))
			} else {
				fmt.Fprintf(&b, "• %s: %s\n", c.Name, spent.Format(sym))
			}
		}
	}

	fmt.Fprintf(&b, "\n🍔 Food streak: %d day(s) within budget\n", r.FoodStreak)
	fmt.Fprintf(&b, "📊 Weekday avg: %s · Weekend avg: %s",
		r.WeekdayAverage.Format(sym), r.WeekendAverage.Format(sym))
	return b.String()
}

func weekendText(profile core.Profile, r budget.Report) string {
	sym := profile.Currency
	comparison := "about the same as weekdays"
	if r.WeekendAverage.Cents > r.WeekdayAverage.Cents {
		comparison = "more than weekdays"
	} else if r.WeekendAverage.Cents < r.WeekdayAverage.Cents {
		comparison = "less than weekdays"
	}
	return fmt.Sprintf(
		"🎉 <b>Weekend Habits</b>\n\n"+
			"Weekday average: %s\n"+
			"Weekend average: %s\n\n"+
			"You spend %s on weekends.",
		r.WeekdayAverage.Format(sym), r.WeekendAverage.Format(sym), comparison)
}

func categoryText(name string, catBudget core.Money, expenses []core.Expense, w budget.Window, profile core.Profile) string {
	sym := profile.Currency
	spent := budget.Sum(expenses, w, name)

	var b strings.Builder
	fmt.Fprintf(&b, "📂 <b>%s This Month</b>\n\n", name)
	if catBudget.Cents > 0 {
		fmt.Fprintf(&b, "Spent: %s of %s\n", spent.Format(sym), catBudget.Format(sym))
		remaining := catBudget.Sub(spent)
		if remaining.Cents >= 0 {
			fmt.Fprintf(&b, "Remaining: %s\n", remaining.Format(sym))
		} else {
			fmt.Fprintf(&b, "Over by: %s ⚠️\n", core.Money{Cents: -remaining.Cents}.Format(sym))
		}
	} else {
		fmt.Fprintf(&b, "Spent: %s\n", spent.Format(sym))
	}

	shown := 0
	for _, e := range expenses {
		if e.Category != name || !w.Contains(e.Date) {
			continue
		}
		if shown < 5 {
			fmt.Fprintf(&b, "• %s — %s\n",
				e.DisplayDescription(profile.PrivacyMode), e.Amount.Format(sym))
		}
		shown++
	}
	if shown > 5 {
		fmt.Fprintf(&b, "… and %d more", shown-5)
	}
	return b.String()
}

func confirmationText(profile core.Profile, e core.Expense, todayTotal, remaining core.Money) string {
	sym := profile.Currency
	return fmt.Sprintf(
		"✅ <b>Added!</b>\n\n"+
			"%s — %s (%s)\n\n"+
			"Today: %s\nRemaining this month: %s",
		e.DisplayDescription(profile.PrivacyMode), e.Amount.Format(sym), e.Category,
		todayTotal.Format(sym), remaining.Format(sym))
}

// categoryLines renders a per-category breakdown of the expenses inside w,
// in the order categories first appear.
func categoryLines(expenses []core.Expense, w budget.Window, sym string) []string {
	totals := map[string]core.Money{}
	var order []string
	for _, e := range expenses {
		if !w.Contains(e.Date) {
			continue
		}
		if _, seen := totals[e.Category]; !seen {
			order = append(order, e.Category)
		}
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}

	lines := make([]string, 0, len(order))
	for _, name := range order {
		lines = append(lines, fmt.Sprintf("• %s: %s\n", name, totals[name].Format(sym)))
	}
	return lines
}
