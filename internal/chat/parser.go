// Package chat turns free-text messages into structured expenses.
//
// Parsing is a pure, stateless classify-and-extract pass: reserved command
// words win over anything number-like, then an ordered list of patterns is
// tried and the first match is taken. A nil result is the sole failure
// signal; callers fall back to a help response.
package chat

import (
	"regexp"
	"strconv"
	"strings"

	"paisa/internal/core"
)

// MaxAmount is the sanity ceiling for a single parsed expense, in whole
// currency units.
const MaxAmount = 1_000_000

// Parsed is an expense extracted from free text.
type Parsed struct {
	Amount      core.Money
	Description string
	Category    string
}

// reservedWords are top-level intents; they always win over a number-like
// parse so "week" can never become an expense called "week".
var reservedWords = map[string]struct{}{
	"balance": {}, "bal": {}, "today": {}, "yesterday": {}, "week": {},
	"month": {}, "weekend": {}, "morning": {}, "brief": {}, "evening": {},
	"summary": {}, "report": {}, "help": {}, "start": {}, "settings": {},
	"add": {}, "food": {}, "travel": {}, "drinks": {}, "alcohol": {},
	"misc": {}, "miscellaneous": {}, "other": {},
}

// patterns are tried in order; the first match wins. The group tagged
// "amount" must parse as a positive integer, the other becomes the
// description.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`^(?P<amount>\d+)\s+(?P<desc>.+)$`),         // "200 lunch"
	regexp.MustCompile(`^(?P<desc>.+?)\s+(?P<amount>\d+)$`),        // "coffee 50"
	regexp.MustCompile(`^spent\s+(?P<amount>\d+)\s+on\s+(?P<desc>.+)$`),  // "spent 500 on drinks"
	regexp.MustCompile(`^paid\s+(?P<amount>\d+)\s+for\s+(?P<desc>.+)$`),  // "paid 200 for dinner"
	regexp.MustCompile(`^bought\s+(?P<desc>.+?)\s+for\s+(?P<amount>\d+)$`), // "bought coffee for 50"
}

// Parse extracts amount, description, and category from a chat message.
// Returns nil when the text is a reserved command, matches no pattern, or
// fails the amount/description checks.
func Parse(text string) *Parsed {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}
	if _, reserved := reservedWords[text]; reserved {
		return nil
	}

	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		amountStr := m[re.SubexpIndex("amount")]
		desc := strings.TrimSpace(m[re.SubexpIndex("desc")])

		units, err := strconv.ParseInt(amountStr, 10, 64)
		if err != nil || units <= 0 || units > MaxAmount {
			return nil
		}
		if desc == "" {
			return nil
		}
		return &Parsed{
			Amount:      core.FromUnits(units),
			Description: desc,
			Category:    Classify(desc),
		}
	}
	return nil
}

// categoryOrder fixes the scan priority for keyword classification so an
// ambiguous description like "traveling circus food stall" always resolves
// the same way (Food first).
var categoryOrder = []string{"Food", "Travel", "Alcohol", "Miscellaneous"}

var categoryKeywords = map[string][]string{
	"Food": {
		"food", "lunch", "dinner", "breakfast", "coffee", "tea", "snack",
		"pizza", "burger", "biryani", "restaurant", "swiggy", "zomato",
		"grocery", "groceries", "milk", "juice",
	},
	"Travel": {
		"travel", "uber", "ola", "cab", "taxi", "auto", "bus", "train",
		"metro", "flight", "petrol", "fuel", "parking",
	},
	"Alcohol": {
		"drink", "beer", "wine", "whiskey", "vodka", "rum", "bar", "pub",
		"alcohol", "booze",
	},
	"Miscellaneous": {
		"misc", "shopping", "clothes", "movie", "gift", "recharge",
		"medicine", "haircut", "subscription",
	},
}

// Classify maps a description to a category by substring containment,
// scanning categories in fixed priority order and falling back to Other.
func Classify(description string) string {
	desc := strings.ToLower(description)
	for _, cat := range categoryOrder {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(desc, kw) {
				return cat
			}
		}
	}
	return core.CategoryOther
}
