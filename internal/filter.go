package internal

import (
	"fmt"
	"strings"
	"time"
)

// FilterCriteria selects transactions. Zero-valued fields do not restrict anything.
type FilterCriteria struct {
	From     *time.Time // inclusive
	To       *time.Time // inclusive
	Category string     // case-insensitive exact match
	Kind     Kind
}

// NewFilterCriteria builds criteria from user input. Empty strings leave a field unset.
func NewFilterCriteria(from, to, category, kind string) (FilterCriteria, error) {
	var c FilterCriteria

	if from = strings.TrimSpace(from); from != "" {
		t, err := ParseDate(from)
		if err != nil {
			return FilterCriteria{}, fmt.Errorf("invalid 'from' date: %w", err)
		}
		c.From = &t
	}
	if to = strings.TrimSpace(to); to != "" {
		t, err := ParseDate(to)
		if err != nil {
			return FilterCriteria{}, fmt.Errorf("invalid 'to' date: %w", err)
		}
		c.To = &t
	}
	if kind = strings.TrimSpace(kind); kind != "" {
		k, err := ParseKind(kind)
		if err != nil {
			return FilterCriteria{}, fmt.Errorf("invalid kind: %w", err)
		}
		c.Kind = k
	}
	c.Category = strings.TrimSpace(category)

	if err := c.Validate(); err != nil {
		return FilterCriteria{}, err
	}
	return c, nil
}

// Validate rejects a range whose lower bound is after its upper bound
func (c FilterCriteria) Validate() error {
	if c.From != nil && c.To != nil && c.From.After(*c.To) {
		return fmt.Errorf("invalid date range: %s is after %s", c.From.Format(DateLayout), c.To.Format(DateLayout))
	}
	return nil
}

// IsZero reports whether the criteria let every transaction through
func (c FilterCriteria) IsZero() bool {
	return c.From == nil && c.To == nil && c.Category == "" && c.Kind == ""
}

// Matches reports whether a single transaction passes the criteria
func (c FilterCriteria) Matches(tx Transaction) bool {
	if c.From != nil && tx.Date.Before(*c.From) {
		return false
	}
	if c.To != nil && tx.Date.After(*c.To) {
		return false
	}
	if c.Category != "" && !SameCategory(tx.Category, c.Category) {
		return false
	}
	if c.Kind != "" && tx.Kind != c.Kind {
		return false
	}
	return true
}

// String describes the criteria, e.g. "groceries expense transactions from 2025-07-01 to 2025-07-31"
func (c FilterCriteria) String() string {
	var parts []string
	if c.Category != "" {
		parts = append(parts, c.Category)
	}
	if c.Kind != "" {
		parts = append(parts, string(c.Kind))
	}
	parts = append(parts, "transactions")

	switch {
	case c.From != nil && c.To != nil && c.From.Equal(*c.To):
		parts = append(parts, "on "+c.From.Format(DateLayout))
	case c.From != nil && c.To != nil:
		parts = append(parts, "from "+c.From.Format(DateLayout), "to "+c.To.Format(DateLayout))
	case c.From != nil:
		parts = append(parts, "from "+c.From.Format(DateLayout))
	case c.To != nil:
		parts = append(parts, "until "+c.To.Format(DateLayout))
	}

	if c.IsZero() {
		return "all transactions"
	}
	return strings.Join(parts, " ")
}

// ApplyFilter returns the transactions matching c, in their original order.
// The input set is not modified. An empty result is not an error.
func ApplyFilter(set TransactionSet, c FilterCriteria) TransactionSet {
	result := TransactionSet{}
	for _, tx := range set {
		if c.Matches(tx) {
			result = append(result, tx)
		}
	}
	return result
}
