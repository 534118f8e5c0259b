package internal

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the only accepted date format in ledger files
const DateLayout = "2006-01-02"

// Kind is the direction of a transaction. The amount itself is never negative.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

type Transaction struct {
	Date     time.Time
	Kind     Kind
	Amount   decimal.Decimal // always >= 0, two decimal places
	Category string
}

// Signed returns the amount with the sign implied by the kind
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == KindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Month returns the calendar month the transaction belongs to
func (t Transaction) Month() MonthKey {
	return MonthKey{Year: t.Date.Year(), Month: t.Date.Month()}
}

// Equal compares two transactions by value. Amounts are compared numerically.
func (t Transaction) Equal(o Transaction) bool {
	return t.Date.Equal(o.Date) &&
		t.Kind == o.Kind &&
		t.Amount.Equal(o.Amount) &&
		t.Category == o.Category
}

func (t Transaction) String() string {
	return fmt.Sprintf("[%s] %s %s (Category: %s)", t.Date.Format(DateLayout), t.Kind, t.Amount.StringFixed(2), t.Category)
}

// Record returns the transaction as the four ledger columns
func (t Transaction) Record() []string {
	return []string{
		t.Date.Format(DateLayout),
		string(t.Kind),
		t.Amount.StringFixed(2),
		t.Category,
	}
}

// TransactionSet is an ordered list of transactions. Duplicates are allowed.
type TransactionSet []Transaction

// Equal reports whether both sets hold equal transactions in the same order
func (s TransactionSet) Equal(o TransactionSet) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if !s[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// With returns a new set with txs appended. The receiver is not modified.
func (s TransactionSet) With(txs ...Transaction) TransactionSet {
	result := make(TransactionSet, 0, len(s)+len(txs))
	result = append(result, s...)
	return append(result, txs...)
}

// MonthKey identifies a calendar month
type MonthKey struct {
	Year  int
	Month time.Month
}

// Before reports whether m is chronologically earlier than o
func (m MonthKey) Before(o MonthKey) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// Next returns the following calendar month
func (m MonthKey) Next() MonthKey {
	if m.Month == time.December {
		return MonthKey{Year: m.Year + 1, Month: time.January}
	}
	return MonthKey{Year: m.Year, Month: m.Month + 1}
}

// String formats the month as YYYY-MM
func (m MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Label formats the month for humans, e.g. "July 2025"
func (m MonthKey) Label() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

type DateRange struct {
	Start time.Time
	End   time.Time
}
