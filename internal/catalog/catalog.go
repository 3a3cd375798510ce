// Package catalog describes the ledger tables to the generative synthesizer.
package catalog

import (
	"fmt"
	"strings"
)

type Column struct {
	Name        string
	Type        string
	Constraints string
}

type Table struct {
	Name    string
	Columns []Column
	Notes   []string
}

// Ledger is the fixed schema the synthesizer may reference.
var Ledger = []Table{
	{
		Name: "categories",
		Columns: []Column{
			{Name: "id", Type: "integer", Constraints: "primary key"},
			{Name: "name", Type: "text", Constraints: "not null, unique per owner_id"},
			{Name: "transaction_kind", Type: "text", Constraints: "'INCOME' or 'EXPENSE'"},
			{Name: "owner_id", Type: "integer", Constraints: "not null, the current user"},
		},
	},
	{
		Name: "transactions",
		Columns: []Column{
			{Name: "id", Type: "integer", Constraints: "primary key"},
			{Name: "amount", Type: "decimal(12,2)", Constraints: "greater than 0"},
			{Name: "date", Type: "date", Constraints: "YYYY-MM-DD, never in the future"},
			{Name: "description", Type: "text", Constraints: "1 to 500 characters"},
			{Name: "is_recurring", Type: "boolean", Constraints: "default false"},
			{Name: "recurrence_period", Type: "text", Constraints: "'NONE', 'DAILY', 'WEEKLY', 'MONTHLY' or 'YEARLY'"},
			{Name: "transaction_kind", Type: "text", Constraints: "'INCOME' or 'EXPENSE', equal to the category's"},
			{Name: "category_id", Type: "integer", Constraints: "references categories(id)"},
			{Name: "owner_id", Type: "integer", Constraints: "not null, the current user"},
		},
		Notes: []string{
			"join categories c ON c.id = transactions.category_id to show category names",
		},
	},
}

// Lookup returns the named table.
func Lookup(name string) (Table, bool) {
	for _, t := range Ledger {
		if t.Name == name {
			return t, true
		}
	}

	return Table{}, false
}

// Render formats the catalog as a prompt block.
func Render() string {
	var sb strings.Builder

	sb.WriteString("Database schema:\n")

	for _, t := range Ledger {
		fmt.Fprintf(&sb, "\nTable %s:\n", t.Name)

		for _, c := range t.Columns {
			fmt.Fprintf(&sb, "  - %s %s (%s)\n", c.Name, c.Type, c.Constraints)
		}

		for _, n := range t.Notes {
			fmt.Fprintf(&sb, "  note: %s\n", n)
		}
	}

	return sb.String()
}
