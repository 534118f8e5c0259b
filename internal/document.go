package internal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Delimiter separates columns in a ledger document. DelimiterAuto detects it from the header.
type Delimiter rune

const (
	DelimiterAuto  Delimiter = 0
	DelimiterComma Delimiter = ','
	DelimiterTab   Delimiter = '\t'
)

func (d Delimiter) String() string {
	switch d {
	case DelimiterComma:
		return "comma"
	case DelimiterTab:
		return "tab"
	case DelimiterAuto:
		return "auto"
	}
	return fmt.Sprintf("%q", rune(d))
}

// ParseDelimiter accepts "auto", "comma", "tab" or the literal characters
func ParseDelimiter(s string) (Delimiter, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return DelimiterAuto, nil
	case "comma", ",", "csv":
		return DelimiterComma, nil
	case "tab", "\t", `\t`, "tsv":
		return DelimiterTab, nil
	}
	return DelimiterAuto, fmt.Errorf("unknown delimiter %q (available: auto, comma, tab)", s)
}

// ParseOptions controls document parsing
type ParseOptions struct {
	Delimiter Delimiter
	// Workers is the number of goroutines validating records. Values below 1 mean 1.
	Workers int
}

// ParseResult holds the valid transactions of a document and the rows that were skipped
type ParseResult struct {
	Transactions TransactionSet
	Errors       []ParseError
}

// ParseDocument parses a delimited ledger document.
// A bad header aborts with a FormatError before any row is read. Invalid rows
// are skipped and reported in line order; they never abort the parse.
func ParseDocument(text string, delim Delimiter) (TransactionSet, []ParseError, error) {
	result, err := ParseDocumentWithOptions(text, ParseOptions{Delimiter: delim})
	if err != nil {
		return nil, nil, err
	}
	return result.Transactions, result.Errors, nil
}

// ParseDocumentWithOptions is ParseDocument with parallel record validation
func ParseDocumentWithOptions(text string, opts ParseOptions) (ParseResult, error) {
	text = strings.TrimPrefix(text, "\ufeff")

	headerLine, _, _ := strings.Cut(text, "\n")
	headerLine = strings.TrimSuffix(headerLine, "\r")

	delim, err := resolveDelimiter(headerLine, opts.Delimiter)
	if err != nil {
		return ParseResult{}, err
	}

	records, readErrs := readRecords(text, delim)

	txs, rowErrs := validateRecords(records, opts.Workers)

	errs := append(readErrs, rowErrs...)
	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].Line < errs[j].Line
	})

	return ParseResult{Transactions: txs, Errors: errs}, nil
}

// DetectDelimiter finds the delimiter that splits the header line into the expected columns
func DetectDelimiter(headerLine string) (Delimiter, error) {
	return resolveDelimiter(headerLine, DelimiterAuto)
}

func resolveDelimiter(headerLine string, requested Delimiter) (Delimiter, error) {
	if strings.TrimSpace(headerLine) == "" {
		return DelimiterAuto, &FormatError{Reason: "missing header line"}
	}

	candidates := []Delimiter{DelimiterComma, DelimiterTab}
	if requested != DelimiterAuto {
		candidates = []Delimiter{requested}
	}

	for _, d := range candidates {
		if matchesHeader(splitLine(headerLine, d)) {
			return d, nil
		}
	}

	if requested != DelimiterAuto {
		return DelimiterAuto, &FormatError{
			Header: headerLine,
			Reason: fmt.Sprintf("header is not %s separated %s", requested, strings.Join(Header, ", ")),
		}
	}
	return DelimiterAuto, &FormatError{
		Header: headerLine,
		Reason: fmt.Sprintf("expected columns %s separated by comma or tab", strings.Join(Header, ", ")),
	}
}

func splitLine(line string, delim Delimiter) []string {
	fields, err := splitRecord(line, delim)
	if err != nil {
		return nil
	}
	return fields
}

// splitRecord tokenizes one physical line. Quotes are strict: a quote that is
// not closed on the same line, or a bare quote inside an unquoted field, is an error.
func splitRecord(line string, delim Delimiter) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = rune(delim)
	r.FieldsPerRecord = -1
	return r.Read()
}

func matchesHeader(fields []string) bool {
	if len(fields) != len(Header) {
		return false
	}
	for i, f := range fields {
		if !strings.EqualFold(strings.TrimSpace(f), Header[i]) {
			return false
		}
	}
	return true
}

type rawRecord struct {
	line   int
	fields []string
}

// readRecords tokenizes every line after the header. Each record is one physical
// line, so a broken row is reported on its own line and never swallows the rows after it.
func readRecords(text string, delim Delimiter) ([]rawRecord, []ParseError) {
	lines := strings.Split(text, "\n")

	var records []rawRecord
	var errs []ParseError
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSuffix(lines[i], "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lineNo := i + 1

		fields, err := splitRecord(line, delim)
		if err != nil {
			reason := err.Error()
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				reason = csvErr.Err.Error()
			}
			errs = append(errs, ParseError{Line: lineNo, Field: FieldRecord, Value: line, Reason: reason})
			continue
		}
		if isBlankRecord(fields) {
			continue
		}
		records = append(records, rawRecord{line: lineNo, fields: fields})
	}
	return records, errs
}

func isBlankRecord(fields []string) bool {
	return len(fields) == 0 || (len(fields) == 1 && strings.TrimSpace(fields[0]) == "")
}

type recordResult struct {
	tx  Transaction
	err *ParseError
}

// validateRecords runs ParseTransaction over all records. Work is split into
// contiguous chunks; results are collected by index so input order is kept.
func validateRecords(records []rawRecord, workers int) (TransactionSet, []ParseError) {
	if len(records) == 0 {
		return TransactionSet{}, nil
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]recordResult, len(records))
	validate := func(start, end int) {
		for i := start; i < end; i++ {
			tx, err := ParseTransaction(records[i].fields)
			if err != nil {
				var pe ParseError
				if !errors.As(err, &pe) {
					pe = ParseError{Reason: err.Error()}
				}
				pe.Line = records[i].line
				results[i].err = &pe
				continue
			}
			results[i].tx = tx
		}
	}

	if workers == 1 {
		validate(0, len(records))
	} else {
		chunk := (len(records) + workers - 1) / workers
		var g errgroup.Group
		g.SetLimit(workers)
		for start := 0; start < len(records); start += chunk {
			end := min(start+chunk, len(records))
			g.Go(func() error {
				validate(start, end)
				return nil
			})
		}
		_ = g.Wait()
	}

	txs := make(TransactionSet, 0, len(records))
	var errs []ParseError
	for _, res := range results {
		if res.err != nil {
			errs = append(errs, *res.err)
			continue
		}
		txs = append(txs, res.tx)
	}
	return txs, errs
}

// SerializeDocument renders a set in the ledger format. DelimiterAuto writes commas.
func SerializeDocument(set TransactionSet, delim Delimiter) (string, error) {
	var b strings.Builder
	if err := WriteDocument(&b, set, delim); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteDocument writes the header and one row per transaction
func WriteDocument(w io.Writer, set TransactionSet, delim Delimiter) error {
	cw := newRecordWriter(w, delim)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return writeRows(cw, set)
}

func writeRows(cw *csv.Writer, set TransactionSet) error {
	for _, tx := range set {
		if err := cw.Write(tx.Record()); err != nil {
			return fmt.Errorf("writing transaction %s: %w", tx, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing document: %w", err)
	}
	return nil
}

func newRecordWriter(w io.Writer, delim Delimiter) *csv.Writer {
	if delim == DelimiterAuto {
		delim = DelimiterComma
	}
	cw := csv.NewWriter(w)
	cw.Comma = rune(delim)
	return cw
}
