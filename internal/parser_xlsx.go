package internal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseLedgerXLSX reads transactions from the first sheet of an Excel workbook.
// The first non-empty row must be the ledger header (Date, Txn Type, Amount, Category).
// Date cells must hold YYYY-MM-DD text; Line in a ParseError is the sheet row number.
func ParseLedgerXLSX(path string, _ ParseOptions) (ParseResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ParseResult{}, &IOError{Op: "opening workbook", Path: path, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ParseResult{}, &FormatError{Reason: "no sheets found in workbook"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ParseResult{}, &IOError{Op: "reading sheet " + sheets[0], Path: path, Err: err}
	}

	// Find header row
	headerRow := -1
	for i, row := range rows {
		if isBlankRecord(row) {
			continue
		}
		if !matchesHeader(trimTrailingEmpty(row)) {
			return ParseResult{}, &FormatError{
				Header: strings.Join(row, ", "),
				Reason: fmt.Sprintf("expected columns %s", strings.Join(Header, ", ")),
			}
		}
		headerRow = i
		break
	}
	if headerRow < 0 {
		return ParseResult{}, &FormatError{Reason: "missing header row"}
	}

	result := ParseResult{Transactions: TransactionSet{}}
	for i := headerRow + 1; i < len(rows); i++ {
		row := trimTrailingEmpty(rows[i])
		if isBlankRecord(row) {
			continue
		}
		if len(row) < len(Header) {
			padded := make([]string, len(Header))
			copy(padded, row)
			row = padded
		}

		tx, err := ParseTransaction(row)
		if err != nil {
			var pe ParseError
			if !errors.As(err, &pe) {
				pe = ParseError{Reason: err.Error()}
			}
			pe.Line = i + 1
			result.Errors = append(result.Errors, pe)
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}

	return result, nil
}

// trimTrailingEmpty drops empty cells after the last value, which spreadsheets
// commonly carry beyond the used columns
func trimTrailingEmpty(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	return row[:end]
}

func init() {
	RegisterParser(SourceXLSX, ParserFunc(ParseLedgerXLSX))
}
