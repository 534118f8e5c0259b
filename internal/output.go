package internal

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"
)

// OutputOptions controls how reports are displayed
type OutputOptions struct {
	Currency Currency
	// ShowTransactions lists the filtered transactions below the summary
	ShowTransactions bool
}

// JSONOutput is the root JSON output object
type JSONOutput struct {
	Filter       string            `json:"filter"`
	Coverage     JSONCoverage      `json:"coverage"`
	Months       []JSONMonth       `json:"months"`
	Categories   []JSONCategory    `json:"categories"`
	Summary      JSONSummary       `json:"summary"`
	Charts       JSONCharts        `json:"charts"`
	Transactions []JSONTransaction `json:"transactions"`
	Errors       []JSONParseError  `json:"errors,omitempty"`
	Warnings     []string          `json:"warnings,omitempty"`
}

type JSONCoverage struct {
	Start          string   `json:"start,omitempty"`
	End            string   `json:"end,omitempty"`
	CompleteMonths []string `json:"complete_months"`
	Gaps           []string `json:"gaps"`
}

// JSONSummary contains the overall totals. Amounts are fixed two-decimal strings.
type JSONSummary struct {
	Count    int    `json:"count"`
	Income   string `json:"income"`
	Expense  string `json:"expense"`
	Net      string `json:"net"`
	Balance  string `json:"balance"`
	Currency string `json:"currency,omitempty"`
}

type JSONMonth struct {
	Month      string            `json:"month"`
	Income     string            `json:"income"`
	Expense    string            `json:"expense"`
	Net        string            `json:"net"`
	Balance    string            `json:"balance"`
	Categories []JSONCategoryNet `json:"categories"`
}

type JSONCategoryNet struct {
	Category string `json:"category"`
	Net      string `json:"net"`
}

type JSONCategory struct {
	Category string `json:"category"`
	Income   string `json:"income"`
	Expense  string `json:"expense"`
	Net      string `json:"net"`
}

type JSONCharts struct {
	NetByCategory     []JSONCategoryPoint `json:"net_by_category"`
	IncomeByCategory  []JSONCategoryPoint `json:"income_by_category"`
	ExpenseByCategory []JSONCategoryPoint `json:"expense_by_category"`
	Monthly           []JSONMonthPoint    `json:"monthly"`
	Balance           []JSONBalancePoint  `json:"balance"`
}

type JSONCategoryPoint struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Share    string `json:"share,omitempty"`
}

type JSONMonthPoint struct {
	Month   string `json:"month"`
	Label   string `json:"label"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Net     string `json:"net"`
}

type JSONBalancePoint struct {
	Month   string `json:"month"`
	Balance string `json:"balance"`
}

type JSONTransaction struct {
	Date     string `json:"date"`
	Type     string `json:"type"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
}

type JSONParseError struct {
	Line    int    `json:"line"`
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// NewJSONOutput converts a report and its parse errors into the JSON document
func NewJSONOutput(r Report, parseErrors []ParseError, currencyCode string) JSONOutput {
	agg := r.Aggregation
	out := JSONOutput{
		Filter: r.Criteria.String(),
		Coverage: JSONCoverage{
			CompleteMonths: monthStrings(r.Coverage.CompleteMonths),
			Gaps:           monthStrings(r.Coverage.Gaps),
		},
		Months:     []JSONMonth{},
		Categories: []JSONCategory{},
		Summary: JSONSummary{
			Count:    agg.Count,
			Income:   fixed(agg.Income),
			Expense:  fixed(agg.Expense),
			Net:      fixed(agg.Net()),
			Balance:  fixed(agg.Balance()),
			Currency: currencyCode,
		},
		Charts: JSONCharts{
			NetByCategory:     categoryPoints(r.Charts.NetByCategory, false),
			IncomeByCategory:  categoryPoints(r.Charts.IncomeByCategory, true),
			ExpenseByCategory: categoryPoints(r.Charts.ExpenseByCategory, true),
			Monthly:           []JSONMonthPoint{},
			Balance:           []JSONBalancePoint{},
		},
		Transactions: []JSONTransaction{},
	}

	if !r.Coverage.Range.Start.IsZero() {
		out.Coverage.Start = r.Coverage.Range.Start.Format(DateLayout)
		out.Coverage.End = r.Coverage.Range.End.Format(DateLayout)
	}

	for _, b := range agg.Months {
		m := JSONMonth{
			Month:      b.Month.String(),
			Income:     fixed(b.Income),
			Expense:    fixed(b.Expense),
			Net:        fixed(b.Net()),
			Balance:    fixed(b.Balance),
			Categories: []JSONCategoryNet{},
		}
		for _, c := range b.Categories {
			m.Categories = append(m.Categories, JSONCategoryNet{Category: c.Category, Net: fixed(c.Amount)})
		}
		out.Months = append(out.Months, m)
	}

	for _, c := range agg.Categories {
		out.Categories = append(out.Categories, JSONCategory{
			Category: c.Category,
			Income:   fixed(c.Income),
			Expense:  fixed(c.Expense),
			Net:      fixed(c.Net()),
		})
	}

	for _, p := range r.Charts.Monthly {
		out.Charts.Monthly = append(out.Charts.Monthly, JSONMonthPoint{
			Month:   p.Month.String(),
			Label:   p.Month.Label(),
			Income:  fixed(p.Income),
			Expense: fixed(p.Expense),
			Net:     fixed(p.Net),
		})
	}
	for _, p := range r.Charts.Balance {
		out.Charts.Balance = append(out.Charts.Balance, JSONBalancePoint{Month: p.Month.String(), Balance: fixed(p.Balance)})
	}

	for _, tx := range r.Filtered {
		rec := tx.Record()
		out.Transactions = append(out.Transactions, JSONTransaction{Date: rec[0], Type: rec[1], Amount: rec[2], Category: rec[3]})
	}

	for _, pe := range parseErrors {
		out.Errors = append(out.Errors, JSONParseError{Line: pe.Line, Field: pe.Field, Value: pe.Value, Message: pe.Reason})
	}
	for _, w := range r.Warnings {
		out.Warnings = append(out.Warnings, w.String())
	}

	return out
}

func monthStrings(months []MonthKey) []string {
	result := []string{}
	for _, m := range months {
		result = append(result, m.String())
	}
	return result
}

func categoryPoints(points []CategoryPoint, withShare bool) []JSONCategoryPoint {
	result := []JSONCategoryPoint{}
	for _, p := range points {
		jp := JSONCategoryPoint{Category: p.Category, Amount: fixed(p.Amount)}
		if withShare {
			jp.Share = fixed(p.Share)
		}
		result = append(result, jp)
	}
	return result
}

// PrintReportJSON outputs the report in JSON format
func PrintReportJSON(w io.Writer, r Report, parseErrors []ParseError, currencyCode string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewJSONOutput(r, parseErrors, currencyCode)); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}

// PrintReportTable outputs the coverage header, the monthly summary and the
// category totals as formatted tables
func PrintReportTable(w io.Writer, r Report, opts OutputOptions) {
	agg := r.Aggregation
	cov := r.Coverage

	if !cov.Range.Start.IsZero() {
		fmt.Fprintf(w, "Data range: %s to %s\n", cov.Range.Start.Format(DateLayout), cov.Range.End.Format(DateLayout))
		fmt.Fprintf(w, "Complete months: %d", len(cov.CompleteMonths))
		if len(cov.Gaps) > 0 {
			fmt.Fprintf(w, " (months without transactions: %d)", len(cov.Gaps))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Showing: %s\n\n", r.Criteria)

	printMonthlyTable(w, agg, opts.Currency)
	fmt.Fprintln(w)
	printCategoryTable(w, agg, opts.Currency)

	if opts.ShowTransactions {
		fmt.Fprintln(w)
		PrintTransactionsTable(w, r.Filtered, opts.Currency)
	}
}

func printMonthlyTable(w io.Writer, agg Aggregation, cur Currency) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Month", "Income", "Expense", "Net", "Balance"})

	for _, b := range agg.Months {
		t.AppendRow(table.Row{
			b.Month.Label(),
			cur.Format(b.Income),
			cur.Format(b.Expense),
			colorAmount(b.Net(), cur),
			cur.Format(b.Balance),
		})
	}

	t.AppendSeparator()
	t.AppendFooter(table.Row{
		text.Bold.Sprint("Total"),
		text.Bold.Sprint(cur.Format(agg.Income)),
		text.Bold.Sprint(cur.Format(agg.Expense)),
		text.Bold.Sprint(cur.Format(agg.Net())),
		text.Bold.Sprint(cur.Format(agg.Balance())),
	})

	styleAmountTable(t, 5)
	t.Render()
}

func printCategoryTable(w io.Writer, agg Aggregation, cur Currency) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Category", "Income", "Expense", "Net"})

	for _, c := range agg.Categories {
		t.AppendRow(table.Row{c.Category, cur.Format(c.Income), cur.Format(c.Expense), colorAmount(c.Net(), cur)})
	}

	styleAmountTable(t, 4)
	t.Render()
}

// PrintTransactionsTable lists raw transactions
func PrintTransactionsTable(w io.Writer, set TransactionSet, cur Currency) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{FieldDate, FieldKind, FieldAmount, FieldCategory})

	for _, tx := range set {
		t.AppendRow(table.Row{tx.Date.Format(DateLayout), string(tx.Kind), colorAmount(tx.Signed(), cur), tx.Category})
	}

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
}

// PrintParseErrors lists the rows that were skipped during import
func PrintParseErrors(w io.Writer, errs []ParseError) {
	if len(errs) == 0 {
		return
	}

	fmt.Fprintf(w, "Skipped %d invalid rows\n", len(errs))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Line", "Field", "Value", "Problem"})
	for _, pe := range errs {
		t.AppendRow(table.Row{pe.Line, pe.Field, pe.Value, text.FgRed.Sprint(pe.Reason)})
	}
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Render()
}

func colorAmount(d decimal.Decimal, cur Currency) string {
	s := cur.Format(d)
	if d.IsNegative() {
		return text.FgRed.Sprint(s)
	}
	return text.FgGreen.Sprint(s)
}

// styleAmountTable applies the rounded style and right-aligns all columns after the first
func styleAmountTable(t table.Writer, colCount int) {
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault

	var configs []table.ColumnConfig
	for i := 2; i <= colCount; i++ {
		configs = append(configs, table.ColumnConfig{Number: i, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)
}
