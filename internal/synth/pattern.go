package synth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finnychat/internal/intent"
	"github.com/MrJamesThe3rd/finnychat/internal/ledger"
	"github.com/MrJamesThe3rd/finnychat/internal/statement"
)

var (
	ErrUnknownCategory = errors.New("category does not exist")
	ErrNoCategory      = errors.New("no category fits this transaction, create one first")
)

type PatternConfig struct {
	AmountCeiling   decimal.Decimal
	ExpenseFallback string
	IncomeFallback  string
	// Now is the clock used for relative dates. Defaults to time.Now.
	Now func() time.Time
}

// Pattern recognizes a fixed set of command shapes without any remote call.
type Pattern struct {
	cfg   PatternConfig
	rules []rule
}

type rule struct {
	name  string
	op    statement.Operation
	match func(p *Pattern, req Request, today time.Time) (statement.Plan, bool, error)
}

func NewPattern(cfg PatternConfig) *Pattern {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	if cfg.AmountCeiling.IsZero() {
		cfg.AmountCeiling = decimal.NewFromInt(1000000)
	}

	if cfg.ExpenseFallback == "" {
		cfg.ExpenseFallback = "Misc"
	}

	if cfg.IncomeFallback == "" {
		cfg.IncomeFallback = "Income"
	}

	return &Pattern{
		cfg: cfg,
		rules: []rule{
			{name: "list transactions", op: statement.OpSelect, match: (*Pattern).listTransactions},
			{name: "list categories", op: statement.OpSelect, match: (*Pattern).listCategories},
			{name: "create category", op: statement.OpInsert, match: (*Pattern).createCategory},
			{name: "add transaction", op: statement.OpInsert, match: (*Pattern).addTransaction},
			{name: "rename category", op: statement.OpUpdate, match: (*Pattern).renameCategory},
			{name: "update transaction amount", op: statement.OpUpdate, match: (*Pattern).updateTransactionAmount},
			{name: "delete category", op: statement.OpDelete, match: (*Pattern).deleteCategory},
			{name: "delete transaction", op: statement.OpDelete, match: (*Pattern).deleteTransaction},
		},
	}
}

func (p *Pattern) Name() statement.Provenance {
	return statement.ProvenancePattern
}

func (p *Pattern) Synthesize(_ context.Context, req Request) (statement.Plan, error) {
	today := p.cfg.Now()
	req.Text = strings.TrimSpace(req.Text)

	for _, r := range p.rules {
		// A view label is also the classifier's fallback, so it does not restrict rules.
		if req.Label != intent.LabelView && req.Label != "" && req.Label.Operation() != r.op {
			continue
		}

		plan, ok, err := r.match(p, req, today)
		if err != nil {
			return statement.Plan{}, fmt.Errorf("%s: %w", r.name, err)
		}

		if ok {
			return plan, nil
		}
	}

	return statement.Plan{}, ErrNoMatch
}

const day = time.DateOnly

var (
	listVerbRe        = regexp.MustCompile(`(?i)\b(show|list|view|get|display|see|what|which)\b`)
	transactionNounRe = regexp.MustCompile(`(?i)\b(transactions?|entries|expenses|spending|income|incomes|purchases)\b`)
	categoryNounRe    = regexp.MustCompile(`(?i)\bcategor(y|ies)\b`)
	lastNDaysRe       = regexp.MustCompile(`(?i)\b(?:last|past)\s+(\d{1,3})\s+days?\b`)
	expenseWordRe     = regexp.MustCompile(`(?i)\b(expenses?|spending|purchases)\b`)
	incomeWordRe      = regexp.MustCompile(`(?i)\bincomes?\b`)
)

const transactionColumns = `t.id, t.amount, t.date, t.description, t.transaction_kind,
	t.is_recurring, t.recurrence_period, c.name AS category`

func (p *Pattern) listTransactions(req Request, today time.Time) (statement.Plan, bool, error) {
	if !listVerbRe.MatchString(req.Text) || !transactionNounRe.MatchString(req.Text) || categoryNounRe.MatchString(req.Text) {
		return statement.Plan{}, false, nil
	}

	var (
		filters = []string{"t.owner_id = @user_id"}
		params  = map[string]any{}
		limit   = ""
		lower   = strings.ToLower(req.Text)
	)

	since := func(d time.Time) {
		filters = append(filters, "t.date >= @since")
		params["since"] = d.Format(day)
	}

	switch {
	case lastNDaysRe.MatchString(req.Text):
		n, _ := strconv.Atoi(lastNDaysRe.FindStringSubmatch(req.Text)[1])
		since(today.AddDate(0, 0, -n))
	case strings.Contains(lower, "last week") || strings.Contains(lower, "past week"):
		since(today.AddDate(0, 0, -7))
	case strings.Contains(lower, "this week"):
		offset := (int(today.Weekday()) + 6) % 7
		since(today.AddDate(0, 0, -offset))
	case strings.Contains(lower, "last month"):
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		since(first.AddDate(0, -1, 0))
		filters = append(filters, "t.date < @until")
		params["until"] = first.Format(day)
	case strings.Contains(lower, "this month"):
		since(time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()))
	case strings.Contains(lower, "yesterday"):
		filters = append(filters, "t.date = @on")
		params["on"] = today.AddDate(0, 0, -1).Format(day)
	case strings.Contains(lower, "today"):
		filters = append(filters, "t.date = @on")
		params["on"] = today.Format(day)
	default:
		limit = "\nLIMIT 50"
	}

	switch {
	case expenseWordRe.MatchString(req.Text) && !incomeWordRe.MatchString(req.Text):
		filters = append(filters, "t.transaction_kind = @kind")
		params["kind"] = string(ledger.KindExpense)
	case incomeWordRe.MatchString(req.Text) && !expenseWordRe.MatchString(req.Text):
		filters = append(filters, "t.transaction_kind = @kind")
		params["kind"] = string(ledger.KindIncome)
	}

	text := "SELECT " + transactionColumns + `
FROM transactions t
LEFT JOIN categories c ON c.id = t.category_id AND c.owner_id = t.owner_id
WHERE ` + strings.Join(filters, " AND ") + `
ORDER BY t.date DESC, t.id DESC` + limit

	return statement.Plan{
		Operation: statement.OpSelect,
		Target:    statement.TargetTransaction,
		Text:      text,
		Params:    params,
	}, true, nil
}

func (p *Pattern) listCategories(req Request, _ time.Time) (statement.Plan, bool, error) {
	if !listVerbRe.MatchString(req.Text) || !categoryNounRe.MatchString(req.Text) {
		return statement.Plan{}, false, nil
	}

	text := "SELECT name, transaction_kind FROM categories WHERE owner_id = @user_id"
	params := map[string]any{}

	switch {
	case incomeWordRe.MatchString(req.Text) && !expenseWordRe.MatchString(req.Text):
		text += " AND transaction_kind = @kind"
		params["kind"] = string(ledger.KindIncome)
	case expenseWordRe.MatchString(req.Text) && !incomeWordRe.MatchString(req.Text):
		text += " AND transaction_kind = @kind"
		params["kind"] = string(ledger.KindExpense)
	}

	return statement.Plan{
		Operation: statement.OpSelect,
		Target:    statement.TargetCategory,
		Text:      text + " ORDER BY name",
		Params:    params,
	}, true, nil
}

var (
	createCategoryRe = regexp.MustCompile(`(?i)\b(?:create|add|new|make)\b.*?\bcategory\b\s*(?:called|named)?\s*['"]([^'"]+)['"]`)
	kindPhraseRe     = regexp.MustCompile(`(?i)\b(?:for|as)\s+(?:an?\s+)?(income|expense)s?\b`)
	kindWordRe       = regexp.MustCompile(`(?i)\b(income|expense)s?\b`)
)

func (p *Pattern) createCategory(req Request, _ time.Time) (statement.Plan, bool, error) {
	m := createCategoryRe.FindStringSubmatchIndex(req.Text)
	if m == nil {
		return statement.Plan{}, false, nil
	}

	name := strings.TrimSpace(req.Text[m[2]:m[3]])
	rest := req.Text[:m[2]] + " " + req.Text[m[3]:]

	var kindWord string

	if k := kindPhraseRe.FindStringSubmatch(rest); k != nil {
		kindWord = k[1]
	} else if k := kindWordRe.FindStringSubmatch(rest); k != nil {
		kindWord = k[1]
	} else {
		return statement.Plan{}, false, nil
	}

	kind, err := ledger.ParseKind(kindWord)
	if err != nil {
		return statement.Plan{}, false, err
	}

	if name == "" {
		return statement.Plan{}, false, errors.New("category name must not be empty")
	}

	return statement.Plan{
		Operation: statement.OpInsert,
		Target:    statement.TargetCategory,
		Text:      "INSERT INTO categories (name, transaction_kind, owner_id) VALUES (@name, @kind, @user_id)",
		Params: map[string]any{
			"name": name,
			"kind": string(kind),
		},
	}, true, nil
}

var (
	addVerbRe        = regexp.MustCompile(`(?i)\b(add|record|log|spent|paid|earned|received|got)\b`)
	quotedCategoryRe = regexp.MustCompile(`(?i)\s*\b(?:(?:in|under|to|into|as)\s+(?:the\s+)?(?:category\s+)?|category\s+)['"]([^'"]+)['"](?:\s+category)?`)
)

func (p *Pattern) addTransaction(req Request, today time.Time) (statement.Plan, bool, error) {
	if !addVerbRe.MatchString(req.Text) {
		return statement.Plan{}, false, nil
	}

	raw, span, err := extractAmount(req.Text)
	if errors.Is(err, errNoAmount) {
		return statement.Plan{}, false, nil
	}

	if err != nil {
		return statement.Plan{}, false, fmt.Errorf("reading amount: %w", err)
	}

	amount, err := ledger.NormalizeAmount(raw, p.cfg.AmountCeiling)
	if err != nil {
		return statement.Plan{}, false, err
	}

	rest := cut(req.Text, span)

	date, rest, err := extractDate(rest, today)
	if err != nil {
		return statement.Plan{}, false, fmt.Errorf("reading date: %w", err)
	}

	if err := ledger.ValidateDate(date, today); err != nil {
		return statement.Plan{}, false, err
	}

	recurrence, rest := extractRecurrence(rest)

	category, rest, err := p.resolveCategory(req.Categories, rest)
	if err != nil {
		return statement.Plan{}, false, err
	}

	desc := cleanDescription(rest)
	if desc == "" {
		desc = category.Name
	}

	desc, err = ledger.ValidateDescription(desc)
	if err != nil {
		return statement.Plan{}, false, err
	}

	return statement.Plan{
		Operation: statement.OpInsert,
		Target:    statement.TargetTransaction,
		Text: `INSERT INTO transactions (amount, date, description, is_recurring, recurrence_period, transaction_kind, category_id, owner_id)
VALUES (@amount, @date, @description, @is_recurring, @recurrence_period, @kind,
	(SELECT id FROM categories WHERE name = @category AND transaction_kind = @kind AND owner_id = @user_id), @user_id)`,
		Params: map[string]any{
			"amount":            amount.StringFixed(2),
			"date":              date.Format(day),
			"description":       desc,
			"is_recurring":      recurrence != ledger.RecurrenceNone,
			"recurrence_period": string(recurrence),
			"kind":              string(category.Kind),
			"category":          category.Name,
		},
	}, true, nil
}

// resolveCategory picks the category for a new transaction: an explicit name,
// then keyword inference, then the fallback for the inferred kind.
func (p *Pattern) resolveCategory(cats []ledger.Category, text string) (ledger.Category, string, error) {
	if m := quotedCategoryRe.FindStringSubmatchIndex(text); m != nil {
		name := text[m[2]:m[3]]

		c, ok := findCategory(cats, name)
		if !ok {
			return ledger.Category{}, text, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
		}

		return c, text[:m[0]] + " " + text[m[1]:], nil
	}

	if c, ok := mentionedCategory(cats, text); ok {
		re := regexp.MustCompile(`(?i)\s*\b(?:in|under|to|into|as)\s+(?:the\s+)?(?:category\s+)?` + regexp.QuoteMeta(c.Name) + `(?:\s+category)?`)
		return c, re.ReplaceAllString(text, " "), nil
	}

	kind := ledger.KindExpense
	if incomeRe.MatchString(text) {
		kind = ledger.KindIncome
	}

	if c, ok := inferCategory(cats, text, kind); ok {
		return c, text, nil
	}

	fallback := p.cfg.ExpenseFallback
	if kind == ledger.KindIncome {
		fallback = p.cfg.IncomeFallback
	}

	c, ok := findCategory(cats, fallback)
	if !ok || c.Kind != kind {
		return ledger.Category{}, text, ErrNoCategory
	}

	return c, text, nil
}

var renameCategoryRe = regexp.MustCompile(`(?i)\b(?:update|rename|change|modify)\b.*?\bcategory\b\s*(?:called|named)?\s*['"]([^'"]+)['"]\s*(?:to|into|as)\s*['"]([^'"]+)['"]`)

func (p *Pattern) renameCategory(req Request, _ time.Time) (statement.Plan, bool, error) {
	m := renameCategoryRe.FindStringSubmatch(req.Text)
	if m == nil {
		return statement.Plan{}, false, nil
	}

	return statement.Plan{
		Operation: statement.OpUpdate,
		Target:    statement.TargetCategory,
		Text:      "UPDATE categories SET name = @new_name WHERE name = @old_name AND owner_id = @user_id",
		Params: map[string]any{
			"old_name": strings.TrimSpace(m[1]),
			"new_name": strings.TrimSpace(m[2]),
		},
	}, true, nil
}

var updateAmountRe = regexp.MustCompile(`(?i)\b(?:update|change|set|modify|correct)\b.*?\btransaction\s*#?(\d+)\b(.*)`)

func (p *Pattern) updateTransactionAmount(req Request, _ time.Time) (statement.Plan, bool, error) {
	m := updateAmountRe.FindStringSubmatch(req.Text)
	if m == nil || !strings.Contains(strings.ToLower(m[2]), "amount") {
		return statement.Plan{}, false, nil
	}

	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return statement.Plan{}, false, fmt.Errorf("reading transaction id: %w", err)
	}

	raw, _, err := extractAmount(m[2])
	if errors.Is(err, errNoAmount) {
		return statement.Plan{}, false, nil
	}

	if err != nil {
		return statement.Plan{}, false, fmt.Errorf("reading amount: %w", err)
	}

	amount, err := ledger.NormalizeAmount(raw, p.cfg.AmountCeiling)
	if err != nil {
		return statement.Plan{}, false, err
	}

	return statement.Plan{
		Operation: statement.OpUpdate,
		Target:    statement.TargetTransaction,
		Text:      "UPDATE transactions SET amount = @amount WHERE id = @id AND owner_id = @user_id",
		Params: map[string]any{
			"id":     id,
			"amount": amount.StringFixed(2),
		},
	}, true, nil
}

var deleteCategoryRe = regexp.MustCompile(`(?i)\b(?:delete|remove)\b.*?\bcategory\b\s*(?:called|named)?\s*['"]([^'"]+)['"]`)

func (p *Pattern) deleteCategory(req Request, _ time.Time) (statement.Plan, bool, error) {
	m := deleteCategoryRe.FindStringSubmatch(req.Text)
	if m == nil {
		return statement.Plan{}, false, nil
	}

	return statement.Plan{
		Operation: statement.OpDelete,
		Target:    statement.TargetCategory,
		Text:      "DELETE FROM categories WHERE name = @name AND owner_id = @user_id",
		Params:    map[string]any{"name": strings.TrimSpace(m[1])},
	}, true, nil
}

var deleteTransactionRe = regexp.MustCompile(`(?i)\b(?:delete|remove)\b.*?\btransaction\s*#?(\d+)\b`)

func (p *Pattern) deleteTransaction(req Request, _ time.Time) (statement.Plan, bool, error) {
	m := deleteTransactionRe.FindStringSubmatch(req.Text)
	if m == nil {
		return statement.Plan{}, false, nil
	}

	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return statement.Plan{}, false, fmt.Errorf("reading transaction id: %w", err)
	}

	return statement.Plan{
		Operation: statement.OpDelete,
		Target:    statement.TargetTransaction,
		Text:      "DELETE FROM transactions WHERE id = @id AND owner_id = @user_id",
		Params:    map[string]any{"id": id},
	}, true, nil
}
