package zformat

// Locale-aware amount formatting for chart labels. The site this feeds
// renders en-US style thousands separators, so the printer locale is fixed.

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Amount formats a ZEC amount with thousands separators. Whole values
// render without a fraction, fractional values keep two digits.
func Amount(v float64) string {
	if v == math.Trunc(v) {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.2f", v)
}
