package form

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCurrency renders v as dollars with thousands separators and two
// decimals, e.g. $192,261.83.
func FormatCurrency(v float64) string {
	return "$" + printer.Sprintf("%.2f", v)
}
