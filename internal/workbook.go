package internal

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names
const (
	SheetSummary      = "Summary"
	SheetCategories   = "Categories"
	SheetTransactions = "Transactions"
)

// amountFormat is the built-in "0.00" number format
const amountFormat = 2

// WriteWorkbook saves the report as an Excel workbook with a monthly summary,
// category totals and the filtered transactions
func WriteWorkbook(path string, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	for _, name := range []string{SheetCategories, SheetTransactions} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: amountFormat})
	if err != nil {
		return fmt.Errorf("creating amount style: %w", err)
	}

	agg := r.Aggregation

	summary := [][]any{{"Month", "Income", "Expense", "Net", "Balance"}}
	for _, b := range agg.Months {
		summary = append(summary, []any{
			b.Month.String(),
			b.Income.InexactFloat64(),
			b.Expense.InexactFloat64(),
			b.Net().InexactFloat64(),
			b.Balance.InexactFloat64(),
		})
	}
	summary = append(summary, []any{
		"Total",
		agg.Income.InexactFloat64(),
		agg.Expense.InexactFloat64(),
		agg.Net().InexactFloat64(),
		agg.Balance().InexactFloat64(),
	})
	if err := writeSheet(f, SheetSummary, summary, "B", "E", style); err != nil {
		return err
	}

	categories := [][]any{{"Category", "Income", "Expense", "Net"}}
	for _, c := range agg.Categories {
		categories = append(categories, []any{
			c.Category,
			c.Income.InexactFloat64(),
			c.Expense.InexactFloat64(),
			c.Net().InexactFloat64(),
		})
	}
	if err := writeSheet(f, SheetCategories, categories, "B", "D", style); err != nil {
		return err
	}

	txs := [][]any{{FieldDate, FieldKind, FieldAmount, FieldCategory}}
	for _, tx := range r.Filtered {
		txs = append(txs, []any{
			tx.Date.Format(DateLayout),
			string(tx.Kind),
			tx.Amount.InexactFloat64(),
			tx.Category,
		})
	}
	if err := writeSheet(f, SheetTransactions, txs, "C", "C", style); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return &IOError{Op: "writing workbook", Path: path, Err: err}
	}
	return nil
}

// writeSheet writes rows starting at A1 and applies the amount style to the
// columns firstCol..lastCol of the data rows
func writeSheet(f *excelize.File, sheet string, rows [][]any, firstCol, lastCol string, style int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("resolving cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) > 1 {
		top := fmt.Sprintf("%s2", firstCol)
		bottom := fmt.Sprintf("%s%d", lastCol, len(rows))
		if err := f.SetCellStyle(sheet, top, bottom, style); err != nil {
			return fmt.Errorf("styling %s: %w", sheet, err)
		}
	}
	return nil
}
