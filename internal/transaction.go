package internal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// Column names, in file order
const (
	FieldDate     = "Date"
	FieldKind     = "Txn Type"
	FieldAmount   = "Amount"
	FieldCategory = "Category"
)

// FieldRecord marks errors that concern the whole row rather than one column
const FieldRecord = "Record"

// Header is the fixed column layout of a ledger document
var Header = []string{FieldDate, FieldKind, FieldAmount, FieldCategory}

var amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ParseTransaction validates the four raw ledger fields (date, type, amount, category).
// Fields are trimmed before validation. The returned error is always a ParseError.
func ParseTransaction(fields []string) (Transaction, error) {
	if len(fields) != len(Header) {
		return Transaction{}, ParseError{
			Field:  FieldRecord,
			Value:  strings.Join(fields, ","),
			Reason: fmt.Sprintf("expected %d fields, got %d", len(Header), len(fields)),
		}
	}

	dateStr := strings.TrimSpace(fields[0])
	kindStr := strings.TrimSpace(fields[1])
	amountStr := strings.TrimSpace(fields[2])
	category := strings.TrimSpace(fields[3])

	date, err := ParseDate(dateStr)
	if err != nil {
		return Transaction{}, err
	}

	kind, err := ParseKind(kindStr)
	if err != nil {
		return Transaction{}, err
	}

	amount, err := ParseAmount(amountStr)
	if err != nil {
		return Transaction{}, err
	}

	if category == "" {
		return Transaction{}, ParseError{Field: FieldCategory, Reason: "must not be empty"}
	}
	// a ledger row is one line, so a category with a line break would not survive a write
	if strings.ContainsAny(category, "\r\n") {
		return Transaction{}, ParseError{Field: FieldCategory, Value: category, Reason: "must not contain line breaks"}
	}

	return Transaction{
		Date:     date,
		Kind:     kind,
		Amount:   amount,
		Category: category,
	}, nil
}

// ParseDate parses a YYYY-MM-DD calendar date. Impossible dates such as 2025-02-30 are rejected.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ParseError{Field: FieldDate, Reason: "must not be empty"}
	}
	date, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ParseError{Field: FieldDate, Value: s, Reason: "not a valid calendar date (YYYY-MM-DD)"}
	}
	return date, nil
}

// ParseKind matches "income" or "expense", ignoring case
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case string(KindIncome):
		return KindIncome, nil
	case string(KindExpense):
		return KindExpense, nil
	}
	return "", ParseError{Field: FieldKind, Value: s, Reason: `must be "income" or "expense"`}
}

// ParseAmount parses a non-negative decimal with at most two significant fractional digits.
// Trailing zeros beyond the second decimal are accepted ("10.500").
func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, ParseError{Field: FieldAmount, Reason: "must not be empty"}
	}
	if strings.HasPrefix(s, "-") {
		return decimal.Zero, ParseError{Field: FieldAmount, Value: s, Reason: "must not be negative"}
	}
	if !amountPattern.MatchString(s) {
		return decimal.Zero, ParseError{Field: FieldAmount, Value: s, Reason: "not a decimal number"}
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ParseError{Field: FieldAmount, Value: s, Reason: "not a decimal number"}
	}
	rounded := amount.Round(2)
	if !rounded.Equal(amount) {
		return decimal.Zero, ParseError{Field: FieldAmount, Value: s, Reason: "more than 2 decimal places"}
	}
	return rounded, nil
}

// ParseRecordLine splits a single comma-separated line into fields and parses it.
// Used for transactions given on the command line.
func ParseRecordLine(line string) (Transaction, error) {
	fields, err := splitRecord(line, DelimiterComma)
	if err != nil {
		reason := err.Error()
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			reason = csvErr.Err.Error()
		}
		return Transaction{}, ParseError{Field: FieldRecord, Value: line, Reason: "unreadable record: " + reason}
	}
	return ParseTransaction(fields)
}

// categoryKey is the case-insensitive identity of a category label
func categoryKey(category string) string {
	return cases.Fold().String(category)
}

// SameCategory reports whether two labels name the same category
func SameCategory(a, b string) bool {
	return categoryKey(a) == categoryKey(b)
}
