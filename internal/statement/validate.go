package statement

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// SafetyError is a rejection by the validator. Its message is shown to the user.
type SafetyError struct {
	Reason string
}

func (e *SafetyError) Error() string {
	return "Safety Error: " + e.Reason
}

func reject(format string, args ...any) error {
	return &SafetyError{Reason: fmt.Sprintf(format, args...)}
}

var (
	forbiddenRe = regexp.MustCompile(`(?i)\b(drop|alter)\s+table\b`)
	whereRe     = regexp.MustCompile(`(?i)\bwhere\b`)
	leadingRe   = regexp.MustCompile(`^\s*([A-Za-z]+)`)

	selectRe     = regexp.MustCompile(`(?i)^\s*select\b`)
	selectWordRe = regexp.MustCompile(`(?i)\bselect\b`)
	setOpRe      = regexp.MustCompile(`(?i)\b(union|intersect|except)\b`)
	clauseEndRe  = regexp.MustCompile(`(?i)\b(group\s+by|order\s+by|having|window|limit|offset|returning)\b`)
	orRe         = regexp.MustCompile(`(?i)\bor\b`)
	andRe        = regexp.MustCompile(`(?i)\band\b`)
	ownerTermRe  = regexp.MustCompile(`(?i)^\s*(?:[a-z_][a-z0-9_]*\.)?owner_id\s*=\s*@user_id\s*$`)
	notOwnerRe   = regexp.MustCompile(`(?i)(<>|!=)\s*@user_id\b|@user_id\s*(<>|!=)`)
)

// Validate enforces the rules every plan must pass before it reaches the store.
func Validate(p Plan) error {
	text := strings.TrimSpace(p.Text)
	if text == "" || text == Sentinel {
		return reject("no statement to run.")
	}

	if forbiddenRe.MatchString(text) {
		return reject("schema changes such as DROP TABLE or ALTER TABLE are not allowed.")
	}

	bare := strings.TrimRight(unquoted(text), "; \t\r\n")
	if strings.Contains(bare, ";") {
		return reject("only one statement can run per command.")
	}

	want := p.Operation.Keyword()
	if want == "" {
		return reject("unknown operation.")
	}

	m := leadingRe.FindStringSubmatch(bare)
	if m == nil || !strings.EqualFold(m[1], want) {
		return reject("expected a %s statement for this request.", want)
	}

	if (p.Operation == OpUpdate || p.Operation == OpDelete) && !whereRe.MatchString(bare) {
		return reject("UPDATE and DELETE statements must include a WHERE clause.")
	}

	for _, name := range Placeholders(text) {
		if name == UserIDParam {
			continue
		}

		if _, ok := p.Params[name]; !ok {
			return reject("placeholder @%s has no value.", name)
		}
	}

	if err := ownedBy(p.Operation, bare); err != nil {
		return err
	}

	if _, ok := p.Params[UserIDParam]; ok {
		return reject("@%s is bound by the server and cannot be supplied.", UserIDParam)
	}

	return nil
}

func errUnowned() error {
	return reject("statements must be restricted to the current user with owner_id = @%s.", UserIDParam)
}

// ownedBy checks that every row the statement reads or writes belongs to the
// current user. bare must already have literals and comments blanked out.
func ownedBy(op Operation, bare string) error {
	if notOwnerRe.MatchString(bare) {
		return reject("@%s may only be compared with =.", UserIDParam)
	}

	for _, sub := range subqueries(bare) {
		if err := scoped(sub); err != nil {
			return err
		}
	}

	if op != OpInsert {
		return scoped(bare)
	}

	if !slices.Contains(Placeholders(bare), UserIDParam) {
		return errUnowned()
	}

	if loc := selectWordRe.FindStringIndex(topLevel(bare)); loc != nil {
		return scoped(bare[loc[0]:])
	}

	return nil
}

// scoped requires a top-level WHERE whose AND-conjuncts include
// [alias.]owner_id = @user_id, with no top-level OR.
func scoped(text string) error {
	top := topLevel(text)

	if setOpRe.MatchString(top) {
		return reject("set operations such as UNION are not allowed.")
	}

	loc := whereRe.FindStringIndex(top)
	if loc == nil {
		return errUnowned()
	}

	clause := top[loc[1]:]
	if end := clauseEndRe.FindStringIndex(clause); end != nil {
		clause = clause[:end[0]]
	}

	if orRe.MatchString(clause) {
		return reject("the owner filter cannot be combined with OR.")
	}

	for _, term := range andRe.Split(clause, -1) {
		if ownerTermRe.MatchString(term) {
			return nil
		}
	}

	return errUnowned()
}

// topLevel blanks everything nested inside parentheses, preserving offsets.
func topLevel(text string) string {
	b := []byte(text)
	depth := 0

	for i, c := range b {
		switch {
		case c == '(':
			depth++
			b[i] = ' '
		case c == ')':
			depth = max(depth-1, 0)
			b[i] = ' '
		case depth > 0:
			b[i] = ' '
		}
	}

	return string(b)
}

// subqueries returns the inner text of every parenthesized SELECT.
func subqueries(text string) []string {
	var (
		out   []string
		stack []int
	)

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(':
			stack = append(stack, i)
		case ')':
			n := len(stack)
			if n == 0 {
				continue
			}

			start := stack[n-1]
			stack = stack[:n-1]

			if inner := text[start+1 : i]; selectRe.MatchString(inner) {
				out = append(out, inner)
			}
		}
	}

	return out
}
