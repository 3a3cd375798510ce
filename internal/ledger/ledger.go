package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Kind is the direction of money for a category or transaction.
type Kind string

const (
	KindIncome  Kind = "INCOME"
	KindExpense Kind = "EXPENSE"
)

// ParseKind accepts any casing of "income" or "expense".
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToUpper(strings.TrimSpace(s))) {
	case KindIncome:
		return KindIncome, nil
	case KindExpense:
		return KindExpense, nil
	}

	return "", fmt.Errorf("unknown transaction kind %q", s)
}

// Recurrence is how often a recurring transaction repeats.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "NONE"
	RecurrenceDaily   Recurrence = "DAILY"
	RecurrenceWeekly  Recurrence = "WEEKLY"
	RecurrenceMonthly Recurrence = "MONTHLY"
	RecurrenceYearly  Recurrence = "YEARLY"
)

// Category groups transactions of a single kind for one owner.
type Category struct {
	ID      int64
	Name    string
	Kind    Kind
	OwnerID int64
}

// Transaction is one ledger entry.
type Transaction struct {
	ID               int64
	Amount           decimal.Decimal
	Date             time.Time
	Description      string
	Kind             Kind
	IsRecurring      bool
	RecurrencePeriod Recurrence
	CategoryID       int64
	OwnerID          int64
}

const MaxDescriptionLength = 500

var (
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrAmountTooLarge    = errors.New("amount exceeds the allowed ceiling")
	ErrEmptyDescription  = errors.New("description must not be empty")
	ErrDescriptionLength = errors.New("description is longer than 500 characters")
	ErrFutureDate        = errors.New("transaction date cannot be in the future")
)

// NormalizeAmount rounds to two fractional digits and checks the (0, ceiling] range.
func NormalizeAmount(amount, ceiling decimal.Decimal) (decimal.Decimal, error) {
	rounded := amount.Round(2)
	if !rounded.IsPositive() {
		return decimal.Zero, ErrNonPositiveAmount
	}

	if rounded.GreaterThan(ceiling) {
		return decimal.Zero, fmt.Errorf("%w: %s > %s", ErrAmountTooLarge, rounded.StringFixed(2), ceiling.String())
	}

	return rounded, nil
}

// ValidateDescription trims surrounding spaces and enforces the 1..500 character range.
func ValidateDescription(desc string) (string, error) {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return "", ErrEmptyDescription
	}

	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return "", ErrDescriptionLength
	}

	return desc, nil
}

// ValidateDate rejects dates after today, compared at day granularity in today's location.
func ValidateDate(date, today time.Time) error {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, today.Location())
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	if d.After(t) {
		return ErrFutureDate
	}

	return nil
}
