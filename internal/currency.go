package internal

import (
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency formats amounts for terminal display. It never converts between
// currencies; ledger amounts are unit-less and only dressed with a symbol here.
type Currency struct {
	Code    string // "SEK", "USD", "EUR"
	unit    currency.Unit
	tag     language.Tag
	printer *message.Printer
}

// symbolOverrides provides custom symbols where x/text defaults aren't ideal
var symbolOverrides = map[string]string{
	"SEK": "kr",
	"NOK": "kr",
	"DKK": "kr",
	"ISK": "kr",
}

// defaultLocaleForCurrency provides fallback locales when currency is specified
// without a system locale (e.g., --currency USD)
var defaultLocaleForCurrency = map[string]language.Tag{
	"SEK": language.Swedish,
	"USD": language.AmericanEnglish,
	"EUR": language.German,
	"GBP": language.BritishEnglish,
	"NOK": language.Norwegian,
	"DKK": language.Danish,
	"CHF": language.German,
	"JPY": language.Japanese,
	"CAD": language.CanadianFrench,
	"AUD": language.MustParse("en-AU"),
	"BRL": language.BrazilianPortuguese,
	"MXN": language.LatinAmericanSpanish,
	"INR": language.MustParse("en-IN"),
	"PLN": language.Polish,
	"CZK": language.Czech,
	"NZD": language.MustParse("en-NZ"),
}

// localeEnvVars are consulted in order. LEDGER_REPORT_LOCALE lets users pick a
// display locale without touching their shell locale.
var localeEnvVars = []string{"LEDGER_REPORT_LOCALE", "LC_MONETARY", "LC_ALL", "LANG"}

// skipSystemLocale can be set to true in tests to skip OS-level locale detection
var skipSystemLocale = false

// detectedLocale stores the system locale when auto-detected, so we can use it for formatting
var detectedLocale language.Tag

// GetCurrency returns the Currency for a given code.
// Locale priority: detected system locale > default locale for the currency > English.
func GetCurrency(code string) Currency {
	code = strings.ToUpper(code)

	tag := language.English
	if detectedLocale != language.Und {
		tag = detectedLocale
	} else if t, ok := defaultLocaleForCurrency[code]; ok {
		tag = t
	}

	return GetCurrencyWithLocale(code, tag)
}

// GetCurrencyWithLocale returns a Currency with a specific locale for formatting.
// Unknown codes are kept and shown as their own symbol.
func GetCurrencyWithLocale(code string, tag language.Tag) Currency {
	code = strings.ToUpper(code)

	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.USD // fallback unit for number formatting only
		symbolOverrides[code] = code
	}

	return Currency{
		Code:    code,
		unit:    unit,
		tag:     tag,
		printer: message.NewPrinter(tag),
	}
}

// DetectSystemCurrency attempts to detect the currency from the user's locale.
// Returns empty string if detection fails. Also sets detectedLocale for formatting.
func DetectSystemCurrency() string {
	locale := detectSystemLocale()
	if locale == "" {
		return ""
	}

	currCode, tag := parseCurrencyFromLocale(locale)
	if currCode != "" {
		detectedLocale = tag
		return currCode
	}
	return ""
}

// detectSystemLocale checks the environment first, then asks the platform
func detectSystemLocale() string {
	for _, envVar := range localeEnvVars {
		locale := os.Getenv(envVar)
		if locale != "" && locale != "C" && locale != "POSIX" {
			return locale
		}
	}
	if skipSystemLocale {
		return ""
	}
	return platformLocale()
}

// parseCurrencyFromLocale extracts currency code and language tag from a locale string.
// Examples: "sv_SE.UTF-8" -> ("SEK", sv-SE), "pt_BR.UTF-8" -> ("BRL", pt-BR)
func parseCurrencyFromLocale(locale string) (string, language.Tag) {
	base := locale
	if idx := strings.IndexAny(base, ".@"); idx != -1 {
		base = base[:idx]
	}

	// Convert to BCP 47 format: "sv_SE" -> "sv-SE"
	tag, err := language.Parse(strings.Replace(base, "_", "-", 1))
	if err != nil {
		return "", language.Und
	}

	_, _, region := tag.Raw()
	if region.String() == "" || region.String() == "ZZ" {
		return "", language.Und
	}

	unit, ok := currency.FromRegion(region)
	if !ok {
		return "", language.Und
	}

	return unit.String(), tag
}

// getSymbol returns the currency symbol, using overrides where needed
func (c Currency) getSymbol() string {
	if sym, ok := symbolOverrides[c.Code]; ok {
		return sym
	}
	return c.printer.Sprint(currency.NarrowSymbol(c.unit))
}

// isPrefix returns true if this currency symbol should be placed before the amount.
// x/text doesn't expose CLDR symbol placement, so prefix currencies are listed by hand.
func (c Currency) isPrefix() bool {
	switch c.Code {
	case "USD", "GBP", "JPY", "CAD", "AUD", "MXN", "NZD", "INR":
		return true
	default:
		return false
	}
}

// Format formats an amount with two decimals and the currency symbol.
// Negative amounts get a leading minus before the symbol: -$50.00.
func (c Currency) Format(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	formatted := c.formatNumber(amount)
	symbol := c.getSymbol()

	if c.isPrefix() {
		return sign + symbol + formatted
	}
	return sign + formatted + " " + symbol
}

// formatNumber renders a non-negative amount with exactly two decimals. The digits
// come from the decimal itself; the printer only supplies grouping and separators.
func (c Currency) formatNumber(amount decimal.Decimal) string {
	whole, frac, _ := strings.Cut(amount.StringFixed(2), ".")
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		whole = c.printer.Sprint(number.Decimal(n))
	}
	return whole + c.decimalSeparator() + frac
}

func (c Currency) decimalSeparator() string {
	s := c.printer.Sprint(number.Decimal(0.5, number.MinFractionDigits(1), number.MaxFractionDigits(1)))
	if len(s) > 2 && strings.HasPrefix(s, "0") && strings.HasSuffix(s, "5") {
		return s[1 : len(s)-1]
	}
	return "."
}
