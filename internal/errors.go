package internal

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSource is returned when no parser is registered for a source name
var ErrUnknownSource = errors.New("unknown source type")

// ParseError describes a single record that failed validation.
// Line is 0 when the record was parsed outside of a document.
type ParseError struct {
	Line   int
	Field  string
	Value  string
	Reason string
}

func (e ParseError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	if e.Field != "" {
		b.WriteString(e.Field)
		if e.Value != "" {
			fmt.Fprintf(&b, " %q", e.Value)
		}
		b.WriteString(": ")
	}
	b.WriteString(e.Reason)
	return b.String()
}

// FormatError means the document as a whole could not be understood.
// No rows are processed when it is returned.
type FormatError struct {
	Header string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Header == "" {
		return "invalid document format: " + e.Reason
	}
	return fmt.Sprintf("invalid document format: %s (header %q)", e.Reason, e.Header)
}

// IOError wraps a failure to read or write a ledger or report file
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

type WarningKind string

const (
	// WarningEmptyResult is reported when a filter or aggregation yields nothing
	WarningEmptyResult WarningKind = "empty_result"
)

// Warning is a non-fatal condition worth reporting to the user
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}
