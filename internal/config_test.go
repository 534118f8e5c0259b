package internal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	data := []byte(`
currency: sek
delimiter: tab
analysis_file: reports/Analysis.tsv
workers: 4
groups:
  - name: Food
    patterns: ["^groceries$", "restaurant"]
exclude:
  - transfer
  - pattern: rent
    before: "2025-08-01"
`)

	cfg, err := ParseConfig(data)
	require.NoError(t, err)

	assert.Equal(t, "sek", cfg.Currency)
	assert.Equal(t, "tab", cfg.Delimiter)
	assert.Equal(t, "reports/Analysis.tsv", cfg.AnalysisFile)
	assert.Equal(t, 4, cfg.Workers)
	require.Len(t, cfg.Groups, 1)
	assert.Len(t, cfg.excludeRules, 2)
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "groups: [unclosed"},
		{"bad delimiter", "delimiter: semicolon"},
		{"group without name", "groups:\n  - patterns: [a]"},
		{"bad group pattern", "groups:\n  - name: x\n    patterns: ['(']"},
		{"bad exclude pattern", "exclude:\n  - '('"},
		{"bad before date", "exclude:\n  - pattern: a\n    before: soon"},
		{"bad exclude shape", "exclude:\n  - [a, b]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestConfig_Apply(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
groups:
  - name: Food
    patterns: ["^groceries$"]
exclude:
  - pattern: "^rent$"
    after: "2025-08-01"
`))
	require.NoError(t, err)

	set := sampleSet()
	got := cfg.Apply(set)

	require.Len(t, got, 5, "August rent is excluded")
	for _, x := range got {
		assert.NotEqual(t, "rent", x.Category)
	}
	assert.Equal(t, "Food", got[1].Category)
	assert.Equal(t, "Food", got[2].Category, "group patterns ignore case")
	assert.Equal(t, "groceries", set[1].Category, "input is not modified")

	agg := Aggregate(got)
	require.Len(t, agg.Categories, 2)
	assert.Equal(t, "Food", agg.Categories[1].Category)
}

func TestConfig_ShouldExcludeWindow(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
exclude:
  - pattern: gym
    after: "2025-03-01"
    before: "2025-06-01"
`))
	require.NoError(t, err)

	tests := []struct {
		date string
		want bool
	}{
		{"2025-02-28", false},
		{"2025-03-01", true},
		{"2025-05-31", true},
		{"2025-06-01", false},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.ShouldExclude(tx(tt.date, KindExpense, "10", "Gym")))
		})
	}
}

func TestConfig_NilIsNoop(t *testing.T) {
	var cfg *Config
	set := sampleSet()
	assert.True(t, cfg.Apply(set).Equal(set))
	assert.Equal(t, "", cfg.GroupFor("anything"))
}

func TestGenerateConfigTemplate_SaveAndLoad(t *testing.T) {
	agg := Aggregate(TransactionSet{
		tx("2025-07-01", KindIncome, "10", "salary"),
		tx("2025-07-02", KindExpense, "10", "food (take-away)"),
	})

	tmpl := GenerateConfigTemplate(agg, "EUR")
	require.Len(t, tmpl.Groups, 2)
	assert.Equal(t, DefaultAnalysisFile, tmpl.AnalysisFile)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, tmpl.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "EUR", loaded.Currency)
	assert.Equal(t, "food (take-away)", loaded.GroupFor("Food (Take-Away)"))
	assert.Equal(t, "", loaded.GroupFor("food"))
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	var ioErr *IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestConfig_ApplyExcludesBeforeAndAfterGrouping(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
groups:
  - name: Food
    patterns: ["^coffee$", "^groceries$"]
  - name: Housing
    patterns: ["^rent$"]
exclude:
  - "^coffee$"
  - "^housing$"
`))
	require.NoError(t, err)

	got := cfg.Apply(TransactionSet{
		tx("2025-07-01", KindExpense, "3.50", "coffee"),
		tx("2025-07-02", KindExpense, "40", "groceries"),
		tx("2025-07-03", KindExpense, "900", "rent"),
	})

	require.Len(t, got, 1, "coffee matches by ledger name, rent by group name")
	assert.Equal(t, "Food", got[0].Category)
	assert.Equal(t, "40.00", got[0].Amount.StringFixed(2))
}
