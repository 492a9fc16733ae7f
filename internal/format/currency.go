// Package format renders monetary amounts for display.
//
// Formatting follows the locale conventions the dashboard pins per
// currency: USD uses en-US rules, MXN es-MX, EUR de-DE. Amounts always
// carry two decimal places. NaN is not treated specially and propagates
// into the output.
package format

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"finanzas/internal/core"
)

var printers = map[core.Currency]*message.Printer{
	core.USD: message.NewPrinter(language.MustParse("en-US")),
	core.MXN: message.NewPrinter(language.MustParse("es-MX")),
	core.EUR: message.NewPrinter(language.MustParse("de-DE")),
}

// Currency formats an amount as a locale-aware monetary string with two
// decimal places. Unknown currency codes fall back to USD conventions.
func Currency(amount float64, currency core.Currency) string {
	p, ok := printers[currency]
	if !ok {
		currency = core.USD
		p = printers[core.USD]
	}

	n := p.Sprint(number.Decimal(amount,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2)))

	switch currency {
	case core.EUR:
		// de-DE places the symbol after the amount.
		return n + " €"
	default:
		return "$" + n
	}
}

// Compact abbreviates large amounts: millions as $X.XM, thousands as
// $X.XK, and everything below that as a full USD string.
func Compact(amount float64) string {
	switch {
	case math.Abs(amount) >= 1_000_000:
		return "$" + strconv.FormatFloat(amount/1_000_000, 'f', 1, 64) + "M"
	case math.Abs(amount) >= 1_000:
		return "$" + strconv.FormatFloat(amount/1_000, 'f', 1, 64) + "K"
	default:
		return Currency(amount, core.USD)
	}
}
