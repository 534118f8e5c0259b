package internal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ParseDelimitedFile reads a CSV or TSV ledger from disk
func ParseDelimitedFile(path string, opts ParseOptions) (ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ParseResult{}, &IOError{Op: "reading ledger", Path: path, Err: err}
	}
	result, err := ParseDocumentWithOptions(string(data), opts)
	if err != nil {
		return ParseResult{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return result, nil
}

// DelimiterForPath returns tab for .tsv files and comma otherwise
func DelimiterForPath(path string) Delimiter {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return DelimiterTab
	}
	return DelimiterComma
}

// WriteFile writes a complete ledger document, replacing any existing file
func WriteFile(path string, set TransactionSet, delim Delimiter) error {
	if delim == DelimiterAuto {
		delim = DelimiterForPath(path)
	}
	return writeReportFile(path, func(w io.Writer) error {
		return WriteDocument(w, set, delim)
	})
}

// AppendTransactions appends rows to a delimited ledger.
// A new or empty file gets the header first. For an existing file with
// DelimiterAuto, the delimiter is taken from its header.
func AppendTransactions(path string, delim Delimiter, txs ...Transaction) error {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &IOError{Op: "reading ledger", Path: path, Err: err}
	}

	isNew := len(bytes.TrimSpace(existing)) == 0
	if !isNew {
		headerLine, _, _ := strings.Cut(strings.TrimPrefix(string(existing), "\ufeff"), "\n")
		detected, err := resolveDelimiter(strings.TrimSuffix(headerLine, "\r"), delim)
		if err != nil {
			return fmt.Errorf("appending to %s: %w", path, err)
		}
		delim = detected
	} else if delim == DelimiterAuto {
		delim = DelimiterForPath(path)
	}

	var buf bytes.Buffer
	if !isNew && !bytes.HasSuffix(existing, []byte("\n")) {
		buf.WriteByte('\n')
	}
	cw := newRecordWriter(&buf, delim)
	if isNew {
		if err := cw.Write(Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := writeRows(cw, TransactionSet(txs)); err != nil {
		return err
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if isNew {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return &IOError{Op: "opening ledger", Path: path, Err: err}
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return &IOError{Op: "appending to ledger", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "closing ledger", Path: path, Err: err}
	}
	return nil
}

// writeReportFile creates parent directories and writes the file through render
func writeReportFile(path string, render func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &IOError{Op: "creating directory", Path: dir, Err: err}
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return &IOError{Op: "writing", Path: path, Err: err}
	}
	return nil
}
