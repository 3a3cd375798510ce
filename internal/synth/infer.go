package synth

import (
	"regexp"
	"strings"

	"github.com/MrJamesThe3rd/finnychat/internal/ledger"
)

type inference struct {
	category string
	re       *regexp.Regexp
}

// Keywords are prefix matches unless they end in \b, so "grocer" also covers "groceries".
func words(ws ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(` + strings.Join(ws, "|") + `)`)
}

// inferences map description words to the default category set.
var inferences = []inference{
	{category: "Income", re: words("salary", "paycheck", "wage", "freelance", "bonus", "commission", "dividend", "refund", "income", `interest\b`)},
	{category: "Transportation", re: words(`gas\b`, "fuel", "uber", "lyft", "taxi", `bus\b`, "train", "metro", "parking", "toll", `cars?\b`)},
	{category: "Food & Groceries", re: words("grocer", "supermarket", "bakery", "butcher", "produce", "food", "restaurant", "lunch", "dinner", "breakfast", "coffee", "pizza")},
	{category: "Utilities", re: words("electric", "water", "internet", "phone", "cable", "utility", "utilities", "bill")},
	{category: "Healthcare", re: words("doctor", "prescription", "pharmacy", "dental", "dentist", "eye exam", "therapy", "medical", "hospital")},
	{category: "Entertainment", re: words("movie", "cinema", "concert", `books?\b`, "video game", "game", "museum", "theater", "theatre", "netflix")},
	{category: "Shopping", re: words("clothing", "clothes", "electronics", "furniture", "shoes", "gift", "amazon")},
	{category: "Personal Care", re: words("haircut", "salon", `spa\b`, "gym", "cosmetic")},
	{category: "Education", re: words("tuition", "textbook", "course", "tutor", "school")},
	{category: "Misc", re: words("donation", `fees?\b`, "subscription", "repair")},
}

var incomeRe = regexp.MustCompile(`(?i)\b(salary|paycheck|income|earned|received|paid me|got paid|bonus|refund|dividend|freelance|commission)\b`)

func findCategory(cats []ledger.Category, name string) (ledger.Category, bool) {
	for _, c := range cats {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}

	return ledger.Category{}, false
}

// mentionedCategory returns the longest known category name present in text.
func mentionedCategory(cats []ledger.Category, text string) (ledger.Category, bool) {
	var (
		best  ledger.Category
		found bool
	)

	for _, c := range cats {
		re, err := regexp.Compile(`(?i)(^|\W)` + regexp.QuoteMeta(c.Name) + `($|\W)`)
		if err != nil || !re.MatchString(text) {
			continue
		}

		if !found || len(c.Name) > len(best.Name) {
			best, found = c, true
		}
	}

	return best, found
}

// inferCategory maps the description to one of the owner's categories of the wanted kind.
func inferCategory(cats []ledger.Category, desc string, kind ledger.Kind) (ledger.Category, bool) {
	for _, inf := range inferences {
		if !inf.re.MatchString(desc) {
			continue
		}

		c, ok := findCategory(cats, inf.category)
		if ok && c.Kind == kind {
			return c, true
		}
	}

	return ledger.Category{}, false
}
