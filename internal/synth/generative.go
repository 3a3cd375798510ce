package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/finnychat/internal/catalog"
	"github.com/MrJamesThe3rd/finnychat/internal/llm"
	"github.com/MrJamesThe3rd/finnychat/internal/statement"
)

var ErrNonConforming = errors.New("model output is not a usable statement")

const generativeRules = `Rules:
- Write exactly ONE %s statement. Never write DDL.
- Every statement and subquery must restrict rows to the current user with owner_id = @user_id, joined to other conditions with AND only.
- Never inline user values. Use named placeholders such as @amount or @name and put their values in "params".
- Do not put user_id in "params"; the server binds it.
- UPDATE and DELETE statements must have a WHERE clause.
- Dates are strings formatted YYYY-MM-DD. Amounts are decimal strings like "12.50".
- When listing transactions select t.id, t.amount, t.date, t.description, t.transaction_kind, t.is_recurring, t.recurrence_period and c.name AS category, joining categories c on c.id = t.category_id.
- Transaction inserts resolve category_id with (SELECT id FROM categories WHERE name = @category AND owner_id = @user_id).

Return ONLY a raw JSON object, with no code fences:
{"statement": "<sql>", "params": {"<name>": <value>}}`

type generated struct {
	Statement string         `json:"statement"`
	Params    map[string]any `json:"params"`
}

// Generative asks the completion model for a statement when no pattern fits.
type Generative struct {
	completer llm.Completer
	timeout   time.Duration
	now       func() time.Time
}

func NewGenerative(completer llm.Completer, timeout time.Duration, now func() time.Time) *Generative {
	if now == nil {
		now = time.Now
	}

	return &Generative{completer: completer, timeout: timeout, now: now}
}

func (g *Generative) Name() statement.Provenance {
	return statement.ProvenanceGenerated
}

func (g *Generative) prompt(req Request) string {
	op := req.Label.Operation()

	var sb strings.Builder

	sb.WriteString("You translate personal finance commands into SQL for the schema below.\n\n")
	sb.WriteString(catalog.Render())
	sb.WriteString("\n")
	sb.WriteString(req.CategoryContext)
	fmt.Fprintf(&sb, "\n\nToday is %s.\n\n", g.now().Format(time.DateOnly))
	fmt.Fprintf(&sb, generativeRules, op.Keyword())

	return sb.String()
}

func (g *Generative) Synthesize(ctx context.Context, req Request) (statement.Plan, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	raw, err := g.completer.Complete(ctx, g.prompt(req), req.Text)
	if err != nil {
		return statement.Plan{}, fmt.Errorf("completion: %w", err)
	}

	return parseGenerated(raw, req.Label.Operation())
}

var (
	paramNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	tableRe     = regexp.MustCompile(`(?i)\b(?:from|into|update)\s+([A-Za-z_]+)`)
)

func parseGenerated(raw string, op statement.Operation) (statement.Plan, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(llm.StripFences(raw))))
	dec.UseNumber()

	var out generated
	if err := dec.Decode(&out); err != nil {
		return statement.Plan{}, fmt.Errorf("%w: %v", ErrNonConforming, err)
	}

	text := strings.TrimSpace(out.Statement)
	if text == "" {
		return statement.Plan{}, fmt.Errorf("%w: empty statement", ErrNonConforming)
	}

	first := strings.Fields(text)[0]
	if !strings.EqualFold(first, op.Keyword()) {
		return statement.Plan{}, fmt.Errorf("%w: expected %s, got %q", ErrNonConforming, op.Keyword(), first)
	}

	target, err := targetOf(text)
	if err != nil {
		return statement.Plan{}, err
	}

	params := make(map[string]any, len(out.Params))

	for name, v := range out.Params {
		if !paramNameRe.MatchString(name) {
			return statement.Plan{}, fmt.Errorf("%w: bad parameter name %q", ErrNonConforming, name)
		}

		val, err := paramValue(v)
		if err != nil {
			return statement.Plan{}, fmt.Errorf("%w: parameter %s: %v", ErrNonConforming, name, err)
		}

		params[name] = val
	}

	return statement.Plan{
		Operation: op,
		Target:    target,
		Text:      text,
		Params:    params,
	}, nil
}

// targetOf finds the primary table a statement reads or writes.
func targetOf(text string) (statement.Target, error) {
	m := tableRe.FindStringSubmatch(text)
	if m == nil {
		return "", fmt.Errorf("%w: no table referenced", ErrNonConforming)
	}

	tbl, ok := catalog.Lookup(strings.ToLower(m[1]))
	if !ok {
		return "", fmt.Errorf("%w: unknown table %q", ErrNonConforming, m[1])
	}

	if tbl.Name == "categories" {
		return statement.TargetCategory, nil
	}

	return statement.TargetTransaction, nil
}

func paramValue(v any) (any, error) {
	switch val := v.(type) {
	case nil, string, bool:
		return val, nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, nil
		}

		return val.String(), nil
	}

	return nil, fmt.Errorf("unsupported value of type %T", v)
}
