package internal

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestPrintReportJSON(t *testing.T) {
	c, err := NewFilterCriteria("", "", "groceries", "")
	require.NoError(t, err)
	r := BuildReport(twoMonthSet(), c, ReportOptions{})
	parseErrs := []ParseError{{Line: 4, Field: FieldDate, Value: "2025-13-01", Reason: "not a valid calendar date (YYYY-MM-DD)"}}

	var buf bytes.Buffer
	require.NoError(t, PrintReportJSON(&buf, r, parseErrs, "USD"))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "groceries transactions", out.Filter)
	assert.Equal(t, JSONSummary{Count: 3, Income: "1000.00", Expense: "75.50", Net: "924.50", Balance: "924.50", Currency: "USD"}, out.Summary)

	require.Len(t, out.Months, 2)
	assert.Equal(t, "2025-07", out.Months[0].Month)
	assert.Equal(t, []JSONCategoryNet{{Category: "salary", Net: "1000.00"}, {Category: "groceries", Net: "-50.00"}}, out.Months[0].Categories)

	require.Len(t, out.Transactions, 2)
	assert.Equal(t, JSONTransaction{Date: "2025-08-02", Type: "expense", Amount: "25.50", Category: "Groceries"}, out.Transactions[1])

	require.Len(t, out.Charts.ExpenseByCategory, 1)
	assert.Equal(t, "100.00", out.Charts.ExpenseByCategory[0].Share)
	assert.Equal(t, "", out.Charts.NetByCategory[0].Share)
	assert.Equal(t, "July 2025", out.Charts.Monthly[0].Label)

	require.Len(t, out.Errors, 1)
	assert.Equal(t, 4, out.Errors[0].Line)
	assert.Empty(t, out.Warnings)

	assert.Equal(t, "2025-07-01", out.Coverage.Start)
	assert.Equal(t, []string{"2025-07"}, out.Coverage.CompleteMonths)
}

func TestPrintReportJSON_EmptyUsesArrays(t *testing.T) {
	r := BuildReport(TransactionSet{}, FilterCriteria{}, ReportOptions{})

	var buf bytes.Buffer
	require.NoError(t, PrintReportJSON(&buf, r, nil, ""))

	assert.Contains(t, buf.String(), `"months": []`)
	assert.Contains(t, buf.String(), `"transactions": []`)
	assert.Contains(t, buf.String(), `"empty_result: no transactions to aggregate"`)
	assert.NotContains(t, buf.String(), `"errors"`)
}

func TestPrintReportTable(t *testing.T) {
	resetDetectedLocale()
	c, err := NewFilterCriteria("2025-08-01", "", "", "")
	require.NoError(t, err)
	r := BuildReport(twoMonthSet(), c, ReportOptions{})

	var buf bytes.Buffer
	PrintReportTable(&buf, r, OutputOptions{
		Currency:         GetCurrencyWithLocale("USD", language.AmericanEnglish),
		ShowTransactions: true,
	})
	out := buf.String()

	assert.Contains(t, out, "Data range: 2025-07-01 to 2025-08-02")
	assert.Contains(t, out, "Showing: transactions from 2025-08-01")
	assert.Contains(t, out, "July 2025")
	assert.Contains(t, out, "August 2025")
	assert.Contains(t, out, "$1,000.00")
	assert.Contains(t, out, "$924.50")
	assert.Contains(t, out, "-$25.50")
	assert.Contains(t, out, "groceries")
	assert.Contains(t, out, "Txn Type")
}

func TestPrintParseErrors(t *testing.T) {
	var buf bytes.Buffer
	PrintParseErrors(&buf, nil)
	assert.Empty(t, buf.String())

	PrintParseErrors(&buf, []ParseError{{Line: 7, Field: FieldAmount, Value: "abc", Reason: "not a decimal number"}})
	assert.Contains(t, buf.String(), "Skipped 1 invalid rows")
	assert.Contains(t, buf.String(), "abc")
	assert.Contains(t, buf.String(), "not a decimal number")
}
