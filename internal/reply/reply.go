// Package reply renders statement results and pipeline failures as chat text.
package reply

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/finnychat/internal/executor"
	"github.com/MrJamesThe3rd/finnychat/internal/ledger"
	"github.com/MrJamesThe3rd/finnychat/internal/statement"
	"github.com/MrJamesThe3rd/finnychat/internal/synth"
)

const (
	MsgRephrase  = "I'm not sure how to help with that request. Could you please rephrase it?"
	MsgExecFail  = "Sorry, something went wrong while updating your ledger. Please try again."
	MsgNoResults = "No transactions found for the specified period."
)

// Reply is the text shown to the user plus an optional structured payload.
type Reply struct {
	Text string
	Data []map[string]any
}

type Formatter struct {
	printer *message.Printer
}

func New() *Formatter {
	return &Formatter{printer: message.NewPrinter(language.English)}
}

func (f *Formatter) money(d decimal.Decimal) string {
	s := f.printer.Sprintf("%.2f", d.Abs().InexactFloat64())
	if d.IsNegative() {
		return "-$" + s
	}

	return "$" + s
}

// Format renders a successful result for the plan that produced it.
func (f *Formatter) Format(plan statement.Plan, res executor.Result) Reply {
	switch plan.Operation {
	case statement.OpSelect:
		if plan.Target == statement.TargetTransaction || looksLikeTransactions(res.Columns) {
			return Reply{Text: f.transactions(res.Rows), Data: res.Rows}
		}

		return Reply{Text: f.items(res.Rows), Data: res.Rows}
	case statement.OpInsert:
		return Reply{Text: f.inserted(plan, res.Affected)}
	case statement.OpUpdate:
		if res.Affected == 0 {
			return Reply{Text: "I couldn't find anything to update."}
		}

		return Reply{Text: "I've updated the item as requested."}
	case statement.OpDelete:
		if res.Affected == 0 {
			return Reply{Text: "I couldn't find anything to delete."}
		}

		return Reply{Text: "I've deleted the item as requested."}
	}

	return Reply{Text: MsgRephrase}
}

func looksLikeTransactions(cols []string) bool {
	return slices.Contains(cols, "amount") && slices.Contains(cols, "date") && slices.Contains(cols, "transaction_kind")
}

func (f *Formatter) inserted(plan statement.Plan, affected int64) string {
	if affected == 0 {
		return "Nothing was added."
	}

	if plan.Target == statement.TargetCategory {
		return "I've added the new category for you."
	}

	desc, okDesc := plan.Params["description"].(string)
	date, okDate := plan.Params["date"].(string)
	amount, okAmount := plan.Params["amount"]

	if !okDesc || !okDate || !okAmount {
		return "I've added the transaction for you."
	}

	return fmt.Sprintf("I've added the transaction for %s on %s for %s.", desc, date, f.money(toDecimal(amount)))
}

func (f *Formatter) transactions(rows []map[string]any) string {
	var (
		sb      strings.Builder
		income  = decimal.Zero
		expense = decimal.Zero
		byDate  = map[string][]map[string]any{}
		dates   []string
	)

	for _, row := range rows {
		amount := toDecimal(row["amount"])
		if strings.EqualFold(toString(row["transaction_kind"]), string(ledger.KindIncome)) {
			income = income.Add(amount)
		} else {
			expense = expense.Add(amount)
		}

		d := toDate(row["date"])
		if _, ok := byDate[d]; !ok {
			dates = append(dates, d)
		}

		byDate[d] = append(byDate[d], row)
	}

	if len(rows) == 0 {
		sb.WriteString(MsgNoResults)
	} else {
		sb.WriteString("Here are your transactions:")

		slices.Sort(dates)
		slices.Reverse(dates)

		for _, d := range dates {
			fmt.Fprintf(&sb, "\n\n📅 %s", d)

			for _, row := range byDate[d] {
				sb.WriteString("\n  ")
				sb.WriteString(f.transactionLine(row))
			}
		}
	}

	fmt.Fprintf(&sb, "\n\n📊 Summary\n  Total Income: %s\n  Total Expense: %s\n  Net Change: %s",
		f.money(income), f.money(expense), f.money(income.Sub(expense)))

	return sb.String()
}

func (f *Formatter) transactionLine(row map[string]any) string {
	marker := "💳"
	if strings.EqualFold(toString(row["transaction_kind"]), string(ledger.KindIncome)) {
		marker = "💰"
	}

	category := toString(row["category"])
	if category == "" {
		category = "Uncategorized"
	}

	line := fmt.Sprintf("%s %s: %s [%s]", marker, toString(row["description"]), f.money(toDecimal(row["amount"])), category)

	if period := toString(row["recurrence_period"]); toBool(row["is_recurring"]) && period != "" && period != string(ledger.RecurrenceNone) {
		line += fmt.Sprintf(" (🔄 %s)", period)
	}

	return line
}

func (f *Formatter) items(rows []map[string]any) string {
	if len(rows) == 0 {
		return "I couldn't find anything matching your request."
	}

	var sb strings.Builder

	sb.WriteString("Here are the items you requested.")

	for _, row := range rows {
		sb.WriteString("\n - ")

		if name, ok := row["name"]; ok {
			sb.WriteString(toString(name))

			if kind, ok := row["transaction_kind"]; ok {
				fmt.Fprintf(&sb, " (%s)", toString(kind))
			}

			continue
		}

		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, toString(row[k])))
		}

		sb.WriteString(strings.Join(parts, ", "))
	}

	return sb.String()
}

// Failure turns a pipeline error into a short apology. The raw error stays in logs.
func (f *Formatter) Failure(err error) Reply {
	var (
		safety *statement.SafetyError
		synthE *synth.Error
	)

	switch {
	case errors.As(err, &safety):
		return Reply{Text: safety.Error()}
	case errors.As(err, &synthE):
		return Reply{Text: synthesisMessage(synthE)}
	}

	return Reply{Text: MsgExecFail}
}

func synthesisMessage(err error) string {
	switch {
	case errors.Is(err, ledger.ErrFutureDate):
		return "I can't record a transaction dated in the future."
	case errors.Is(err, ledger.ErrAmountTooLarge), errors.Is(err, ledger.ErrNonPositiveAmount):
		return "That amount is out of the allowed range."
	case errors.Is(err, ledger.ErrEmptyDescription), errors.Is(err, ledger.ErrDescriptionLength):
		return "The description must be between 1 and 500 characters."
	case errors.Is(err, synth.ErrUnknownCategory):
		return "I couldn't find that category. You can create it first."
	case errors.Is(err, synth.ErrNoCategory):
		return "There is no category for that transaction yet. Please create one first."
	}

	return MsgRephrase
}
