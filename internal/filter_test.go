package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSet() TransactionSet {
	return TransactionSet{
		tx("2025-07-01", KindIncome, "1000.00", "salary"),
		tx("2025-07-05", KindExpense, "50.00", "groceries"),
		tx("2025-07-20", KindExpense, "20.00", "Groceries"),
		tx("2025-08-01", KindIncome, "1000.00", "salary"),
		tx("2025-08-03", KindExpense, "300.00", "rent"),
		tx("2025-08-31", KindExpense, "12.50", "groceries"),
	}
}

func TestApplyFilter_Category(t *testing.T) {
	set := TransactionSet{
		tx("2025-07-01", KindIncome, "1000.00", "salary"),
		tx("2025-07-05", KindExpense, "50.00", "groceries"),
	}
	c, err := NewFilterCriteria("", "", "groceries", "")
	require.NoError(t, err)

	got := ApplyFilter(set, c)
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(set[1]))
}

func TestApplyFilter_Criteria(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		category string
		kind     string
		wantLen  int
	}{
		{"no criteria", "", "", "", "", 6},
		{"category ignores case", "", "", "GROCERIES", "", 3},
		{"inclusive lower bound", "2025-07-20", "", "", "", 4},
		{"inclusive upper bound", "", "2025-07-05", "", "", 2},
		{"single day", "2025-08-31", "2025-08-31", "", "", 1},
		{"month with category", "2025-08-01", "2025-08-31", "groceries", "", 1},
		{"kind only", "", "", "", "income", 2},
		{"kind and category", "", "", "salary", "expense", 0},
		{"unknown category", "", "", "travel", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewFilterCriteria(tt.from, tt.to, tt.category, tt.kind)
			require.NoError(t, err)
			assert.Len(t, ApplyFilter(sampleSet(), c), tt.wantLen)
		})
	}
}

func TestApplyFilter_Properties(t *testing.T) {
	set := sampleSet()
	original := set.With()
	c, err := NewFilterCriteria("2025-07-02", "2025-08-15", "", "expense")
	require.NoError(t, err)

	once := ApplyFilter(set, c)
	twice := ApplyFilter(once, c)

	assert.True(t, once.Equal(twice), "filter must be idempotent")
	assert.True(t, set.Equal(original), "input set must not change")

	// every result is a member of the input, in input order
	j := 0
	for _, got := range once {
		for j < len(set) && !set[j].Equal(got) {
			j++
		}
		require.Less(t, j, len(set), "%s is not in the input", got)
		j++
	}
}

func TestApplyFilter_EmptyResultIsNotNil(t *testing.T) {
	c, err := NewFilterCriteria("", "", "travel", "")
	require.NoError(t, err)

	got := ApplyFilter(sampleSet(), c)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNewFilterCriteria_Invalid(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		kind string
	}{
		{"bad from", "2025-13-01", "", ""},
		{"bad to", "", "yesterday", ""},
		{"reversed range", "2025-08-01", "2025-07-01", ""},
		{"bad kind", "", "", "transfer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFilterCriteria(tt.from, tt.to, "", tt.kind)
			assert.Error(t, err)
		})
	}
}

func TestFilterCriteria_String(t *testing.T) {
	tests := []struct {
		from, to, category, kind string
		want                     string
	}{
		{"", "", "", "", "all transactions"},
		{"", "", "groceries", "", "groceries transactions"},
		{"2025-07-01", "2025-07-31", "groceries", "expense", "groceries expense transactions from 2025-07-01 to 2025-07-31"},
		{"2025-07-01", "2025-07-01", "", "", "transactions on 2025-07-01"},
		{"2025-07-01", "", "", "", "transactions from 2025-07-01"},
		{"", "2025-07-31", "", "income", "income transactions until 2025-07-31"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			c, err := NewFilterCriteria(tt.from, tt.to, tt.category, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.String())
		})
	}
}
