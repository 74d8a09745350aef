// Package money handles the donation flow's currency concerns: ISO 4217
// validation, country-based defaulting and display formatting. Amounts are
// never converted between currencies here; a donation is applied at face
// value regardless of its currency.
package money

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency pairs an ISO 4217 code with the display symbol the pages show.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

// Symbols for the currencies the donation form offers. Anything else renders
// as its code followed by a space.
var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
}

// USD is the fallback when nothing better is known.
func USD() Currency {
	return Currency{Code: "USD", Symbol: "$"}
}

// Parse validates code as an ISO 4217 currency.
func Parse(code string) (Currency, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return Currency{}, fmt.Errorf("money: invalid currency %q: %w", code, err)
	}
	return fromUnit(unit), nil
}

// ForCountry returns the currency in use in the given ISO 3166 region,
// defaulting to USD when the region is unknown or carries no tender.
func ForCountry(country string) Currency {
	region, err := language.ParseRegion(strings.TrimSpace(country))
	if err != nil {
		return USD()
	}
	unit, ok := currency.FromRegion(region)
	if !ok {
		return USD()
	}
	return fromUnit(unit)
}

func fromUnit(unit currency.Unit) Currency {
	code := unit.String()
	symbol, ok := symbols[code]
	if !ok {
		symbol = code + " "
	}
	return Currency{Code: code, Symbol: symbol}
}

var printer = message.NewPrinter(language.English)

// FormatAmount renders an amount with digit grouping, e.g. 12345.5 becomes
// "12,345.5", the counterpart of the toLocaleString calls in the pages.
func FormatAmount(v float64) string {
	return printer.Sprintf("%v", number.Decimal(v))
}

// Format renders an amount prefixed with the currency's symbol.
func (c Currency) Format(v float64) string {
	return c.Symbol + FormatAmount(v)
}
