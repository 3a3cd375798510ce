package synth

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finnychat/internal/ledger"
)

var errNoAmount = errors.New("no amount found")

var amountRes = []*regexp.Regexp{
	regexp.MustCompile(`\$\s?(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:dollars?|usd|bucks)\b`),
	regexp.MustCompile(`\b(\d+\.\d{1,2})\b`),
}

// extractAmount returns the first amount in text and the span it occupies.
func extractAmount(text string) (decimal.Decimal, [2]int, error) {
	for _, re := range amountRes {
		loc := re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}

		raw := strings.ReplaceAll(text[loc[2]:loc[3]], ",", "")

		d, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, [2]int{}, err
		}

		return d, [2]int{loc[0], loc[1]}, nil
	}

	return decimal.Zero, [2]int{}, errNoAmount
}

var (
	relativeDateRe = regexp.MustCompile(`(?i)\b(?:on\s+)?(today|yesterday|tomorrow)\b`)
	isoDateRe      = regexp.MustCompile(`\b(?:on\s+)?(\d{4}-\d{2}-\d{2})\b`)
)

// extractDate resolves today/yesterday/tomorrow or an ISO date, defaulting to today.
func extractDate(text string, today time.Time) (time.Time, string, error) {
	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		d, err := time.ParseInLocation(time.DateOnly, m[1], today.Location())
		if err != nil {
			return time.Time{}, text, err
		}

		return d, isoDateRe.ReplaceAllString(text, " "), nil
	}

	if m := relativeDateRe.FindStringSubmatch(text); m != nil {
		d := today

		switch strings.ToLower(m[1]) {
		case "yesterday":
			d = today.AddDate(0, 0, -1)
		case "tomorrow":
			d = today.AddDate(0, 0, 1)
		}

		return d, relativeDateRe.ReplaceAllString(text, " "), nil
	}

	return today, text, nil
}

var recurrenceRe = regexp.MustCompile(`(?i)\b(?:every\s+(day|week|month|year)|(daily|weekly|monthly|yearly|annually))\b`)

func extractRecurrence(text string) (ledger.Recurrence, string) {
	m := recurrenceRe.FindStringSubmatch(text)
	if m == nil {
		return ledger.RecurrenceNone, text
	}

	word := strings.ToLower(m[1] + m[2])

	var r ledger.Recurrence

	switch word {
	case "day", "daily":
		r = ledger.RecurrenceDaily
	case "week", "weekly":
		r = ledger.RecurrenceWeekly
	case "month", "monthly":
		r = ledger.RecurrenceMonthly
	default:
		r = ledger.RecurrenceYearly
	}

	return r, recurrenceRe.ReplaceAllString(text, " ")
}

var (
	leadingVerbRe = regexp.MustCompile(`(?i)^\s*(?:please\s+)?(?:i\s+)?(?:add|record|log|create|new|enter|spent|paid|earned|received|got)\b(?:\s+(?:a|an|the|new|my))*(?:\s+(?:transaction|expense|income|entry)s?)?\b(?:\s*(?:of\b|for\b|:))?(?:\s+(?:a|an|the|my)\b)*`)
	edgeWordRe    = regexp.MustCompile(`(?i)^(?:\s*\b(?:for|on|at|of|in|to|and|from|with|a|an)\b)+|(?:\b(?:for|on|at|of|in|to|and|from|with|under|category)\b\s*)+$`)
	spacesRe      = regexp.MustCompile(`\s+`)
)

// cleanDescription strips command words and leftover prepositions from what remains.
func cleanDescription(text string) string {
	s := leadingVerbRe.ReplaceAllString(text, " ")
	s = spacesRe.ReplaceAllString(s, " ")
	s = strings.Trim(s, " ,.;:-!")

	for {
		next := strings.Trim(edgeWordRe.ReplaceAllString(s, ""), " ,.;:-!")
		if next == s {
			break
		}

		s = next
	}

	return s
}

func cut(text string, span [2]int) string {
	return text[:span[0]] + " " + text[span[1]:]
}
