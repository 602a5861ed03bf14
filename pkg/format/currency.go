package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var usd = message.NewPrinter(language.AmericanEnglish)

// Salary renders a salary amount as US dollars. A nil salary renders as
// "N/A", never as zero.
func Salary(amount *float64) string {
	if amount == nil {
		return "N/A"
	}
	return usd.Sprintf("$%v", number.Decimal(*amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
