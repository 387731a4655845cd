package render

import (
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/rshade/holdview/internal/holdings"
)

// missingValue is shown for fields that were not received.
const missingValue = "-"

// NumberFormatter turns holding amounts into display strings.
//
// Prices and percentages are grouped decimals with a fixed number of places. Market
// values are shown in the base currency when one is configured.
type NumberFormatter struct {
	currency  *money.Currency
	precision int
	printer   *message.Printer
}

// NewNumberFormatter creates a formatter for the given ISO 4217 code (empty for none)
// and decimal places.
func NewNumberFormatter(baseCurrency string, precision int) NumberFormatter {
	f := NumberFormatter{
		precision: precision,
		printer:   message.NewPrinter(language.English),
	}
	if code := strings.ToUpper(strings.TrimSpace(baseCurrency)); code != "" {
		f.currency = money.GetCurrency(code)
	}
	return f
}

// Currency returns the base currency code, or "" when values are shown as plain numbers.
func (f NumberFormatter) Currency() string {
	if f.currency == nil {
		return ""
	}
	return f.currency.Code
}

// Price formats a price field.
func (f NumberFormatter) Price(a holdings.Amount) string {
	d, ok := a.Decimal()
	if !ok {
		return textOrMissing(a)
	}
	return f.grouped(d)
}

// Percent formats the latest change percentage with an explicit sign.
func (f NumberFormatter) Percent(a holdings.Amount) string {
	d, ok := a.Decimal()
	if !ok {
		return textOrMissing(a)
	}
	s := f.grouped(d)
	if d.IsPositive() {
		return "+" + s
	}
	return s
}

// MarketValue formats a market value field in the base currency.
func (f NumberFormatter) MarketValue(a holdings.Amount) string {
	d, ok := a.Decimal()
	if !ok {
		return textOrMissing(a)
	}
	return f.Total(d)
}

// Total formats an aggregated market value in the base currency.
func (f NumberFormatter) Total(d decimal.Decimal) string {
	if f.currency == nil {
		return f.grouped(d)
	}
	fm := f.currency.Formatter()
	d = d.Round(int32(fm.Fraction))

	intPart, frac, _ := strings.Cut(d.Abs().StringFixed(int32(fm.Fraction)), ".")
	s := groupDigits(intPart, fm.Thousand)
	if frac != "" {
		s += fm.Decimal + frac
	}
	s = strings.Replace(fm.Template, "1", s, 1)
	s = strings.Replace(s, "$", fm.Grapheme, 1)
	if d.IsNegative() {
		s = "-" + s
	}
	return s
}

// grouped formats d with thousands separators and the configured decimal places.
// The integer part goes through the English printer when it fits in an int64.
func (f NumberFormatter) grouped(d decimal.Decimal) string {
	d = d.Round(int32(f.precision))

	intPart, frac, _ := strings.Cut(d.Abs().StringFixed(int32(f.precision)), ".")
	s := groupDigits(intPart, ",")
	if n, err := strconv.ParseInt(intPart, 10, 64); err == nil {
		s = f.printer.Sprint(number.Decimal(n))
	}
	if frac != "" {
		s += "." + frac
	}
	if d.IsNegative() {
		s = "-" + s
	}
	return s
}

// groupDigits inserts sep every three digits from the right.
func groupDigits(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func textOrMissing(a holdings.Amount) string {
	if a.IsEmpty() {
		return missingValue
	}
	return a.String()
}
