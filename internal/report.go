package internal

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// Default report file names
const (
	DefaultAnalysisFile = "Analysis.tsv"
	DefaultFilterFile   = "Filter.tsv"
)

// Analysis report section titles
const (
	sectionMonthly    = "Monthly Summary"
	sectionBreakdown  = "Monthly Category Breakdown"
	sectionCategories = "Category Totals"
	sectionTotals     = "Totals"
)

type ReportOptions struct {
	// AggregateFiltered aggregates the filtered transactions instead of the whole set
	AggregateFiltered bool
}

// Report bundles everything derived from one transaction set
type Report struct {
	Criteria    FilterCriteria
	Aggregation Aggregation
	Coverage    Coverage
	Filtered    TransactionSet
	Charts      ChartData
	Warnings    []Warning
}

// BuildReport filters and aggregates a set. The set itself is never modified.
func BuildReport(set TransactionSet, criteria FilterCriteria, opts ReportOptions) Report {
	filtered := ApplyFilter(set, criteria)

	source := set
	if opts.AggregateFiltered {
		source = filtered
	}
	agg := Aggregate(source)

	r := Report{
		Criteria:    criteria,
		Aggregation: agg,
		Coverage:    AnalyzeCoverage(source),
		Filtered:    filtered,
		Charts:      BuildChartData(agg),
	}

	if agg.IsEmpty() {
		r.Warnings = append(r.Warnings, Warning{
			Kind:    WarningEmptyResult,
			Message: "no transactions to aggregate",
		})
	}
	if !criteria.IsZero() && len(filtered) == 0 && len(set) > 0 {
		r.Warnings = append(r.Warnings, Warning{
			Kind:    WarningEmptyResult,
			Message: fmt.Sprintf("no %s", criteria),
		})
	}
	return r
}

// WriteAnalysisReport writes the tab-delimited analysis: monthly summary,
// per-month category breakdown, category totals and overall totals.
// Output depends only on agg, so equal input gives byte-identical output.
func WriteAnalysisReport(w io.Writer, agg Aggregation) error {
	cw := newRecordWriter(w, DelimiterTab)

	rows := [][]string{{sectionMonthly}, {"Month", "Income", "Expense", "Net", "Balance"}}
	for _, b := range agg.Months {
		rows = append(rows, []string{b.Month.String(), fixed(b.Income), fixed(b.Expense), fixed(b.Net()), fixed(b.Balance)})
	}

	rows = append(rows, []string{}, []string{sectionBreakdown}, []string{"Month", "Category", "Net"})
	for _, b := range agg.Months {
		for _, c := range b.Categories {
			rows = append(rows, []string{b.Month.String(), c.Category, fixed(c.Amount)})
		}
	}

	rows = append(rows, []string{}, []string{sectionCategories}, []string{"Category", "Income", "Expense", "Net"})
	for _, c := range agg.Categories {
		rows = append(rows, []string{c.Category, fixed(c.Income), fixed(c.Expense), fixed(c.Net())})
	}

	rows = append(rows,
		[]string{},
		[]string{sectionTotals},
		[]string{"Total Income", fixed(agg.Income)},
		[]string{"Total Expense", fixed(agg.Expense)},
		[]string{"Total Net", fixed(agg.Net())},
		[]string{"Balance", fixed(agg.Balance())},
	)

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing analysis report: %w", err)
	}
	return nil
}

// BuildAnalysisReport renders WriteAnalysisReport into a string
func BuildAnalysisReport(agg Aggregation) (string, error) {
	var b strings.Builder
	if err := WriteAnalysisReport(&b, agg); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteFilteredReport writes the raw filtered transactions in the tab-delimited ledger format
func WriteFilteredReport(w io.Writer, set TransactionSet) error {
	return WriteDocument(w, set, DelimiterTab)
}

// BuildFilteredReport renders WriteFilteredReport into a string
func BuildFilteredReport(set TransactionSet) (string, error) {
	return SerializeDocument(set, DelimiterTab)
}

// WriteAnalysisFile writes the analysis report to path
func WriteAnalysisFile(path string, agg Aggregation) error {
	return writeReportFile(path, func(w io.Writer) error {
		return WriteAnalysisReport(w, agg)
	})
}

// WriteFilteredFile writes the filtered view to path
func WriteFilteredFile(path string, set TransactionSet) error {
	return writeReportFile(path, func(w io.Writer) error {
		return WriteFilteredReport(w, set)
	})
}

func fixed(d decimal.Decimal) string {
	return d.StringFixed(2)
}
