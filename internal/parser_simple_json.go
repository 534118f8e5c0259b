package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// SimpleJSONFormat is a minimal JSON format for importing transactions
// Example:
//
//	{
//	  "transactions": [
//	    {"date": "2025-07-01", "type": "income", "amount": 1000, "category": "salary"},
//	    {"date": "2025-07-05", "type": "expense", "amount": "50.00", "category": "groceries"}
//	  ]
//	}
//
// Entries go through the same validation as ledger rows. Line in a ParseError
// is the 1-based entry index.
type SimpleJSONFormat struct {
	Transactions []SimpleJSONTransaction `json:"transactions"`
}

type SimpleJSONTransaction struct {
	Date     string     `json:"date"`   // YYYY-MM-DD format
	Type     string     `json:"type"`   // income or expense
	Amount   jsonAmount `json:"amount"` // number or string, never negative
	Category string     `json:"category"`
}

// jsonAmount keeps the literal text of a number or string so no float rounding happens
type jsonAmount string

func (a *jsonAmount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = jsonAmount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a number or string: %w", err)
	}
	*a = jsonAmount(n.String())
	return nil
}

// ParseSimpleJSON parses a JSON file in the simple JSON format
func ParseSimpleJSON(path string, _ ParseOptions) (ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ParseResult{}, &IOError{Op: "reading ledger", Path: path, Err: err}
	}

	var jsonData SimpleJSONFormat
	if err := json.Unmarshal(data, &jsonData); err != nil {
		return ParseResult{}, &FormatError{Reason: fmt.Sprintf("parsing JSON: %v", err)}
	}

	result := ParseResult{Transactions: TransactionSet{}}
	for i, entry := range jsonData.Transactions {
		tx, err := ParseTransaction([]string{entry.Date, entry.Type, string(entry.Amount), entry.Category})
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

func init() {
	RegisterParser(SourceSimpleJSON, ParserFunc(ParseSimpleJSON))
}
