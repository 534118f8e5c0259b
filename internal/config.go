package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// ExcludeRule drops transactions whose category matches Pattern,
// optionally only inside a time window
type ExcludeRule struct {
	Pattern string `yaml:"pattern"`
	Before  string `yaml:"before,omitempty"` // Exclude only before this date (YYYY-MM-DD)
	After   string `yaml:"after,omitempty"`  // Exclude only on or after this date (YYYY-MM-DD)

	// compiled fields
	regex      *regexp.Regexp `yaml:"-"`
	beforeDate time.Time      `yaml:"-"`
	afterDate  time.Time      `yaml:"-"`
}

// Group merges every category matching one of Patterns into a single category Name
type Group struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`

	// compiled patterns
	regexes []*regexp.Regexp `yaml:"-"`
}

type Config struct {
	// Currency is the display currency code (e.g. "USD"). Detected from the locale when empty.
	Currency string `yaml:"currency,omitempty"`

	// Delimiter for delimited ledgers: auto, comma or tab
	Delimiter string `yaml:"delimiter,omitempty"`

	// AnalysisFile and FilterFile are written on every run when set
	AnalysisFile string `yaml:"analysis_file,omitempty"`
	FilterFile   string `yaml:"filter_file,omitempty"`

	// Workers validating ledger rows
	Workers int `yaml:"workers,omitempty"`

	// Groups combine several categories under one name before aggregation
	Groups []Group `yaml:"groups,omitempty"`

	// Exclude is a list of exclusion rules (can be strings or objects with time bounds).
	// A rule matches either the category as written in the ledger or the group it was merged into.
	Exclude []yaml.Node `yaml:"exclude,omitempty"`

	// compiled exclusion rules (not serialized)
	excludeRules []ExcludeRule `yaml:"-"`
}

// DefaultConfigPath returns the default config file path (~/.ledger-report/config.yaml)
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ledger-report", "config.yaml")
}

// NewDefaultConfig returns the config used when no config file exists
func NewDefaultConfig() *Config {
	return &Config{}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "reading config file", Path: path, Err: err}
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML config data and compiles its patterns
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if _, err := ParseDelimiter(cfg.Delimiter); err != nil {
		return nil, fmt.Errorf("invalid delimiter in config: %w", err)
	}

	// Compile group patterns
	for i := range cfg.Groups {
		if cfg.Groups[i].Name == "" {
			return nil, fmt.Errorf("group %d has no name", i+1)
		}
		for _, pattern := range cfg.Groups[i].Patterns {
			re, err := regexp.Compile("(?i)" + pattern) // case-insensitive
			if err != nil {
				return nil, fmt.Errorf("invalid group pattern %q: %w", pattern, err)
			}
			cfg.Groups[i].regexes = append(cfg.Groups[i].regexes, re)
		}
	}

	// Parse exclude rules (supports both strings and objects)
	for _, node := range cfg.Exclude {
		var rule ExcludeRule

		switch node.Kind {
		case yaml.ScalarNode:
			rule.Pattern = node.Value
		case yaml.MappingNode:
			if err := node.Decode(&rule); err != nil {
				return nil, fmt.Errorf("parsing exclude rule: %w", err)
			}
		default:
			return nil, fmt.Errorf("invalid exclude rule format at line %d", node.Line)
		}

		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", rule.Pattern, err)
		}
		rule.regex = re

		if rule.Before != "" {
			t, err := time.Parse(DateLayout, rule.Before)
			if err != nil {
				return nil, fmt.Errorf("invalid 'before' date %q: %w", rule.Before, err)
			}
			rule.beforeDate = t
		}
		if rule.After != "" {
			t, err := time.Parse(DateLayout, rule.After)
			if err != nil {
				return nil, fmt.Errorf("invalid 'after' date %q: %w", rule.After, err)
			}
			rule.afterDate = t
		}

		cfg.excludeRules = append(cfg.excludeRules, rule)
	}

	return &cfg, nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &IOError{Op: "creating directory", Path: dir, Err: err}
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return &IOError{Op: "writing config file", Path: path, Err: err}
	}

	return nil
}

// ShouldExclude returns true if the transaction matches any exclude rule
func (c *Config) ShouldExclude(tx Transaction) bool {
	if c == nil {
		return false
	}
	for _, rule := range c.excludeRules {
		if !rule.regex.MatchString(tx.Category) {
			continue
		}
		if !rule.beforeDate.IsZero() && !tx.Date.Before(rule.beforeDate) {
			continue
		}
		if !rule.afterDate.IsZero() && tx.Date.Before(rule.afterDate) {
			continue
		}
		return true
	}
	return false
}

// GroupFor returns the group name for a category, or "" when no group matches
func (c *Config) GroupFor(category string) string {
	if c == nil {
		return ""
	}
	for _, group := range c.Groups {
		for _, re := range group.regexes {
			if re.MatchString(category) {
				return group.Name
			}
		}
	}
	return ""
}

// Apply returns a new set with exclusions and groups applied. The input is not modified.
func (c *Config) Apply(set TransactionSet) TransactionSet {
	if c == nil || (len(c.Groups) == 0 && len(c.excludeRules) == 0) {
		return set
	}

	result := make(TransactionSet, 0, len(set))
	for _, tx := range set {
		if c.ShouldExclude(tx) {
			continue
		}
		if name := c.GroupFor(tx.Category); name != "" {
			tx.Category = name
			if c.ShouldExclude(tx) {
				continue
			}
		}
		result = append(result, tx)
	}
	return result
}

// GenerateConfigTemplate creates a config listing every observed category as its own group,
// ready to be merged by editing the patterns
func GenerateConfigTemplate(agg Aggregation, currencyCode string) *Config {
	cfg := &Config{
		Currency:     currencyCode,
		Delimiter:    "auto",
		AnalysisFile: DefaultAnalysisFile,
		FilterFile:   DefaultFilterFile,
	}

	for _, cat := range agg.Categories {
		cfg.Groups = append(cfg.Groups, Group{
			Name:     cat.Category,
			Patterns: []string{"^" + regexp.QuoteMeta(cat.Category) + "$"},
		})
	}

	return cfg
}
