package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/charmbracelet/log"
	"github.com/gigurra/ledger-report/internal"
	"github.com/joho/godotenv"
)

type Params struct {
	File            string   `descr:"Path to the ledger file (optionally prefixed with source:, e.g. xlsx:ledger.xlsx)" positional:"true"`
	Source          string   `descr:"Input source type (detected from the file extension when empty)" alts:"delimited,xlsx,simple-json" optional:"true"`
	Delimiter       string   `descr:"Field delimiter for delimited files" alts:"auto,comma,tab" optional:"true"`
	Config          string   `descr:"Path to config file (default: ~/.ledger-report/config.yaml)" optional:"true"`
	Output          string   `descr:"Output format" alts:"table,json,none" strict:"true" default:"table"`
	From            string   `descr:"Only show transactions on or after this date (YYYY-MM-DD)" optional:"true"`
	To              string   `descr:"Only show transactions on or before this date (YYYY-MM-DD)" optional:"true"`
	Category        string   `descr:"Only show transactions in this category (case-insensitive)" optional:"true"`
	Kind            string   `descr:"Only show transactions of this type" alts:"income,expense" optional:"true"`
	AnalyzeFiltered bool     `descr:"Aggregate the filtered transactions instead of the whole ledger" default:"false"`
	Add             []string `descr:"Append a row (date,type,amount,category) to the ledger before reporting" optional:"true"`
	AnalysisOut     string   `descr:"Write the analysis report to this TSV file" optional:"true"`
	FilterOut       string   `descr:"Write the filtered transactions to this TSV file" optional:"true"`
	Workbook        string   `descr:"Write an Excel workbook with the report" optional:"true"`
	Currency        string   `descr:"Display currency code (e.g., SEK, USD, EUR). Auto-detected from locale if not specified" optional:"true"`
	Workers         int      `descr:"Number of workers validating ledger rows" default:"1"`
	InitConfig      bool     `descr:"Write a config template with the observed categories and exit" default:"false"`
	Debug           bool     `descr:"Enable debug logging" default:"false"`
}

func main() {
	// locale variables such as LEDGER_REPORT_LOCALE may come from a .env file in the working directory
	_ = godotenv.Load()

	boa.NewCmdT[Params]("ledger-report").
		WithShort("Summarize a personal transaction ledger").
		WithLong("Loads a ledger of dated income and expense transactions, aggregates it by month and category, and writes analysis and filtered-view reports.").
		WithRunFunc(func(params *Params) {
			if err := run(params, os.Stdout, os.Stderr); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}).
		Run()
}

func newLogger(w io.Writer, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "ledger-report"})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// run executes one report. Results go to stdout, diagnostics to stderr.
func run(params *Params, stdout, stderr io.Writer) error {
	logger := newLogger(stderr, params.Debug)

	cfg, err := loadConfig(params.Config, params.InitConfig, logger)
	if err != nil {
		return err
	}

	delimiterName := params.Delimiter
	if delimiterName == "" {
		delimiterName = cfg.Delimiter
	}
	delim, err := internal.ParseDelimiter(delimiterName)
	if err != nil {
		return err
	}

	workers := params.Workers
	if workers <= 1 && cfg.Workers > 1 {
		workers = cfg.Workers
	}

	if len(params.Add) > 0 {
		if err := appendRows(params, delim, logger); err != nil {
			return err
		}
	}

	result, err := internal.LoadFile(params.File, params.Source, internal.ParseOptions{Delimiter: delim, Workers: workers})
	if err != nil {
		return err
	}
	for _, pe := range result.Errors {
		logger.Warn("skipping invalid row", "line", pe.Line, "field", pe.Field, "reason", pe.Reason)
	}
	logger.Debug("loaded ledger", "file", params.File, "transactions", len(result.Transactions), "errors", len(result.Errors))

	set := cfg.Apply(result.Transactions)
	if excluded := len(result.Transactions) - len(set); excluded > 0 {
		logger.Info("excluded transactions by config", "count", excluded)
	}

	currencyCode := resolveCurrency(params.Currency, cfg.Currency)
	logger.Debug("using currency", "code", currencyCode)

	if params.InitConfig {
		return writeConfigTemplate(params.Config, set, currencyCode, stdout)
	}

	criteria, err := internal.NewFilterCriteria(params.From, params.To, params.Category, params.Kind)
	if err != nil {
		return err
	}

	report := internal.BuildReport(set, criteria, internal.ReportOptions{AggregateFiltered: params.AnalyzeFiltered})
	for _, w := range report.Warnings {
		logger.Warn(w.Message, "kind", w.Kind)
	}

	if err := writeReports(params, cfg, report, logger); err != nil {
		return err
	}

	switch params.Output {
	case "json":
		return internal.PrintReportJSON(stdout, report, result.Errors, currencyCode)
	case "none":
		return nil
	default:
		internal.PrintParseErrors(stdout, result.Errors)
		internal.PrintReportTable(stdout, report, internal.OutputOptions{
			Currency:         internal.GetCurrency(currencyCode),
			ShowTransactions: !criteria.IsZero(),
		})
		return nil
	}
}

// loadConfig loads the explicit config path, or the default path when it exists.
// A missing explicit path is an error unless allowMissing is set.
func loadConfig(path string, allowMissing bool, logger *log.Logger) (*internal.Config, error) {
	if path == "" {
		path = internal.DefaultConfigPath()
		allowMissing = true
	}
	if path == "" {
		return internal.NewDefaultConfig(), nil
	}

	if allowMissing {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			logger.Debug("no config file, using defaults", "path", path)
			return internal.NewDefaultConfig(), nil
		}
	}
	logger.Debug("loading config", "path", path)
	return internal.LoadConfig(path)
}

func appendRows(params *Params, delim internal.Delimiter, logger *log.Logger) error {
	_, path := internal.ParseFileArg(params.File)
	source := params.Source
	if source == "" {
		source = internal.SourceForPath(path)
	}
	if source != internal.SourceDelimited {
		return fmt.Errorf("--add requires a delimited ledger, got source %s", source)
	}
	if delim == internal.DelimiterAuto {
		delim = internal.DelimiterForPath(path)
	}

	var txs []internal.Transaction
	for _, row := range params.Add {
		tx, err := internal.ParseRecordLine(row)
		if err != nil {
			return fmt.Errorf("invalid --add row %q: %w", row, err)
		}
		logger.Debug("appending", "transaction", tx)
		txs = append(txs, tx)
	}

	if err := internal.AppendTransactions(path, delim, txs...); err != nil {
		return err
	}
	logger.Info("appended transactions", "count", len(txs), "file", path)
	return nil
}

// resolveCurrency picks the flag, then the config, then the system locale
func resolveCurrency(flagValue, configValue string) string {
	if flagValue != "" {
		return strings.ToUpper(flagValue)
	}
	if configValue != "" {
		return strings.ToUpper(configValue)
	}
	if detected := internal.DetectSystemCurrency(); detected != "" {
		return detected
	}
	return "USD"
}

func writeReports(params *Params, cfg *internal.Config, report internal.Report, logger *log.Logger) error {
	analysisPath := firstNonEmpty(params.AnalysisOut, cfg.AnalysisFile)
	if analysisPath != "" {
		if err := internal.WriteAnalysisFile(analysisPath, report.Aggregation); err != nil {
			return err
		}
		logger.Info("wrote analysis report", "file", analysisPath)
	}

	filterPath := firstNonEmpty(params.FilterOut, cfg.FilterFile)
	if filterPath != "" {
		if err := internal.WriteFilteredFile(filterPath, report.Filtered); err != nil {
			return err
		}
		logger.Info("wrote filtered view", "file", filterPath, "transactions", len(report.Filtered))
	}

	if params.Workbook != "" {
		if err := internal.WriteWorkbook(params.Workbook, report); err != nil {
			return err
		}
		logger.Info("wrote workbook", "file", params.Workbook)
	}
	return nil
}

func writeConfigTemplate(path string, set internal.TransactionSet, currencyCode string, stdout io.Writer) error {
	if path == "" {
		path = internal.DefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	template := internal.GenerateConfigTemplate(internal.Aggregate(set), currencyCode)
	if err := template.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Config template written to %s (%d categories)\n", path, len(template.Groups))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
