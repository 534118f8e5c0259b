package internal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteWorkbook(t *testing.T) {
	c, err := NewFilterCriteria("", "", "groceries", "")
	require.NoError(t, err)
	r := BuildReport(twoMonthSet(), c, ReportOptions{})

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteWorkbook(path, r))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetCategories, SheetTransactions}, f.GetSheetList())

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	require.Len(t, summary, 4, "header, two months and the total row")
	assert.Equal(t, []string{"Month", "Income", "Expense", "Net", "Balance"}, summary[0])
	assert.Equal(t, []string{"2025-08", "0.00", "25.50", "-25.50", "924.50"}, summary[2])
	assert.Equal(t, "Total", summary[3][0])

	categories, err := f.GetRows(SheetCategories)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, []string{"groceries", "0.00", "75.50", "-75.50"}, categories[2])

	rows, err := f.GetRows(SheetTransactions)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])

	var filtered TransactionSet
	for _, row := range rows[1:] {
		parsed, err := ParseTransaction(row)
		require.NoError(t, err)
		filtered = append(filtered, parsed)
	}
	assert.True(t, filtered.Equal(r.Filtered))
}
