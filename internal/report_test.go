package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoMonthSet() TransactionSet {
	return TransactionSet{
		tx("2025-07-01", KindIncome, "1000", "salary"),
		tx("2025-07-05", KindExpense, "50", "groceries"),
		tx("2025-08-02", KindExpense, "25.5", "Groceries"),
	}
}

func TestWriteAnalysisReport_Layout(t *testing.T) {
	got, err := BuildAnalysisReport(Aggregate(twoMonthSet()))
	require.NoError(t, err)

	want := "Monthly Summary\n" +
		"Month\tIncome\tExpense\tNet\tBalance\n" +
		"2025-07\t1000.00\t50.00\t950.00\t950.00\n" +
		"2025-08\t0.00\t25.50\t-25.50\t924.50\n" +
		"\n" +
		"Monthly Category Breakdown\n" +
		"Month\tCategory\tNet\n" +
		"2025-07\tsalary\t1000.00\n" +
		"2025-07\tgroceries\t-50.00\n" +
		"2025-08\tgroceries\t-25.50\n" +
		"\n" +
		"Category Totals\n" +
		"Category\tIncome\tExpense\tNet\n" +
		"salary\t1000.00\t0.00\t1000.00\n" +
		"groceries\t0.00\t75.50\t-75.50\n" +
		"\n" +
		"Totals\n" +
		"Total Income\t1000.00\n" +
		"Total Expense\t75.50\n" +
		"Total Net\t924.50\n" +
		"Balance\t924.50\n"

	assert.Equal(t, want, got)
}

func TestWriteAnalysisReport_Deterministic(t *testing.T) {
	first, err := BuildAnalysisReport(Aggregate(sampleSet()))
	require.NoError(t, err)
	second, err := BuildAnalysisReport(Aggregate(sampleSet()))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWriteAnalysisReport_Empty(t *testing.T) {
	got, err := BuildAnalysisReport(Aggregate(TransactionSet{}))
	require.NoError(t, err)
	assert.Contains(t, got, "Monthly Summary\nMonth\tIncome\tExpense\tNet\tBalance\n\n")
	assert.Contains(t, got, "Total Net\t0.00\n")
}

func TestBuildFilteredReport_ParsesBack(t *testing.T) {
	c, err := NewFilterCriteria("", "", "groceries", "")
	require.NoError(t, err)
	filtered := ApplyFilter(twoMonthSet(), c)

	text, err := BuildFilteredReport(filtered)
	require.NoError(t, err)

	parsed, errs, err := ParseDocument(text, DelimiterTab)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.True(t, parsed.Equal(filtered))
	assert.Len(t, parsed, 2)
}

func TestBuildReport(t *testing.T) {
	set := twoMonthSet()
	c, err := NewFilterCriteria("2025-08-01", "", "", "")
	require.NoError(t, err)

	t.Run("aggregates the full set by default", func(t *testing.T) {
		r := BuildReport(set, c, ReportOptions{})
		assert.Equal(t, 3, r.Aggregation.Count)
		assert.Len(t, r.Filtered, 1)
		assert.Empty(t, r.Warnings)
		assert.Len(t, r.Charts.Monthly, 2)
	})

	t.Run("aggregates the filtered set on request", func(t *testing.T) {
		r := BuildReport(set, c, ReportOptions{AggregateFiltered: true})
		assert.Equal(t, 1, r.Aggregation.Count)
		require.Len(t, r.Aggregation.Months, 1)
		assert.Equal(t, "2025-08", r.Aggregation.Months[0].Month.String())
	})

	t.Run("warns when the filter matches nothing", func(t *testing.T) {
		none, err := NewFilterCriteria("", "", "travel", "")
		require.NoError(t, err)

		r := BuildReport(set, none, ReportOptions{})
		require.Len(t, r.Warnings, 1)
		assert.Equal(t, WarningEmptyResult, r.Warnings[0].Kind)
		assert.Equal(t, "no travel transactions", r.Warnings[0].Message)
	})

	t.Run("warns on an empty ledger", func(t *testing.T) {
		r := BuildReport(TransactionSet{}, FilterCriteria{}, ReportOptions{})
		require.Len(t, r.Warnings, 1)
		assert.Equal(t, "empty_result: no transactions to aggregate", r.Warnings[0].String())
	})

	t.Run("does not modify the input", func(t *testing.T) {
		before := set.With()
		BuildReport(set, c, ReportOptions{AggregateFiltered: true})
		assert.True(t, set.Equal(before))
	})
}

func TestWriteReportFiles(t *testing.T) {
	dir := t.TempDir()
	agg := Aggregate(twoMonthSet())

	analysisPath := filepath.Join(dir, "out", DefaultAnalysisFile)
	require.NoError(t, WriteAnalysisFile(analysisPath, agg))

	data, err := os.ReadFile(analysisPath)
	require.NoError(t, err)
	want, err := BuildAnalysisReport(agg)
	require.NoError(t, err)
	assert.Equal(t, want, string(data))

	filterPath := filepath.Join(dir, DefaultFilterFile)
	require.NoError(t, WriteFilteredFile(filterPath, TransactionSet{}))
	data, err = os.ReadFile(filterPath)
	require.NoError(t, err)
	assert.Equal(t, "Date\tTxn Type\tAmount\tCategory\n", string(data))
}
