// Package reminder produces the scheduled chat messages: the morning brief,
// the evening report, the Friday pre-weekend advisory, and the month-end
// low-balance warning. An external cron trigger invokes the HTTP endpoint
// that calls Run; there is no in-process scheduler.
package reminder

import (
	"fmt"

	"paisa/internal/core"
)

// MorningBrief summarizes yesterday and the state of the fiscal month.
func MorningBrief(profile core.Profile, yesterdayTotal, monthSpent, remaining, dailyBudget core.Money) string {
	sym := profile.Currency
	return fmt.Sprintf(
		"🌅 <b>Good Morning!</b>\n\n"+
			"💰 <b>Yesterday:</b> %s\n"+
			"📊 <b>Month Spent:</b> %s\n"+
			"🎯 <b>Remaining:</b> %s\n"+
			"📅 <b>Daily Budget:</b> %s\n\n"+
			"Have a great day! 🌟",
		yesterdayTotal.Format(sym), monthSpent.Format(sym),
		remaining.Format(sym), dailyBudget.Format(sym))
}

// EveningReport summarizes the day; callers use EveningNudge instead when
// nothing was logged.
func EveningReport(profile core.Profile, todayTotal core.Money, count int, monthSpent, remaining, dailyBudget core.Money) string {
	sym := profile.Currency
	verdict := "✅ <b>Within daily budget</b>"
	if todayTotal.Cents > dailyBudget.Cents {
		verdict = "⚠️ <b>Over daily budget!</b>"
	}
	return fmt.Sprintf(
		"🌙 <b>Evening Report</b>\n\n"+
			"✅ You logged %d expenses\n"+
			"💰 <b>Today's Spending:</b> %s\n"+
			"📊 <b>Month Total:</b> %s\n"+
			"🎯 <b>Remaining:</b> %s\n\n%s",
		count, todayTotal.Format(sym), monthSpent.Format(sym),
		remaining.Format(sym), verdict)
}

// EveningNudge is the distinct "nothing logged yet" branch of the evening
// report.
func EveningNudge() string {
	return "🌙 <b>Evening Reminder!</b>\n\n" +
		"You haven't logged any expenses today.\n" +
		"Did you spend anything? Don't forget to add it! 📝\n\n" +
		"Reply with \"add [amount] [description]\"."
}

// WeekendAdvisory goes out on Friday evenings.
func WeekendAdvisory() string {
	return "🎉 <b>Weekend Alert!</b>\n\n" +
		"Remember: you typically spend more on weekends.\n" +
		"Plan your weekend budget wisely! 🎯\n\n" +
		"Tip: set a weekend spending limit now."
}

// MonthEndWarning fires in the last days of the fiscal period when the
// balance has dropped under the low-balance threshold.
func MonthEndWarning(profile core.Profile, remaining core.Money, daysLeft int) string {
	return fmt.Sprintf(
		"🚨 <b>Month-End Warning!</b>\n\n"+
			"Only %s left with %d day(s) until payday.\n"+
			"Hold off on anything non-essential.",
		remaining.Format(profile.Currency), daysLeft)
}
