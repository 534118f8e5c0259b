package internal

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Parser reads a ledger file into transactions and per-row errors
type Parser interface {
	Parse(path string, opts ParseOptions) (ParseResult, error)
}

// ParserFunc is a function that implements Parser
type ParserFunc func(path string, opts ParseOptions) (ParseResult, error)

func (f ParserFunc) Parse(path string, opts ParseOptions) (ParseResult, error) {
	return f(path, opts)
}

// Built-in source names
const (
	SourceDelimited  = "delimited"
	SourceXLSX       = "xlsx"
	SourceSimpleJSON = "simple-json"
)

// parsers is the registry of available parsers
var parsers = map[string]Parser{}

// sourceByExtension maps file extensions to registered sources
var sourceByExtension = map[string]string{
	".csv":  SourceDelimited,
	".tsv":  SourceDelimited,
	".txt":  SourceDelimited,
	".xlsx": SourceXLSX,
	".json": SourceSimpleJSON,
}

// RegisterParser registers a parser with the given name
func RegisterParser(name string, p Parser) {
	parsers[name] = p
}

// GetParser returns the parser for the given source type
func GetParser(source string) (Parser, error) {
	p, ok := parsers[source]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownSource, source, AvailableSources())
	}
	return p, nil
}

// AvailableSources returns the registered source types, sorted
func AvailableSources() []string {
	var sources []string
	for name := range parsers {
		sources = append(sources, name)
	}
	sort.Strings(sources)
	return sources
}

// IsKnownParser returns true if the name is a registered parser
func IsKnownParser(name string) bool {
	_, ok := parsers[name]
	return ok
}

// ParseFileArg parses a file argument that may have a format prefix.
// Returns (format, path). If no valid prefix, format is empty.
// Example: "simple-json:data.json" → ("simple-json", "data.json")
// Example: "data.csv" → ("", "data.csv")
// Example: "C:\path\file.xlsx" → ("", "C:\path\file.xlsx") // Windows path
func ParseFileArg(arg string) (format, path string) {
	idx := strings.Index(arg, ":")
	if idx == -1 {
		return "", arg
	}
	prefix := arg[:idx]
	if IsKnownParser(prefix) {
		return prefix, arg[idx+1:]
	}
	return "", arg // Not a known parser, treat whole thing as path
}

// SourceForPath picks a source from the file extension, defaulting to delimited text
func SourceForPath(path string) string {
	if source, ok := sourceByExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return source
	}
	return SourceDelimited
}

// LoadFile resolves the source for a file argument and parses it.
// An explicit source wins over a "format:" prefix, which wins over the extension.
func LoadFile(arg, source string, opts ParseOptions) (ParseResult, error) {
	format, path := ParseFileArg(arg)
	if source == "" {
		source = format
	}
	if source == "" {
		source = SourceForPath(path)
	}

	p, err := GetParser(source)
	if err != nil {
		return ParseResult{}, err
	}
	return p.Parse(path, opts)
}

func init() {
	// Register built-in parsers
	RegisterParser(SourceDelimited, ParserFunc(ParseDelimitedFile))
}
