package ledger

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var won = message.NewPrinter(language.Korean)

// FormatWon renders an amount with thousands separators and the won suffix,
// e.g. 1500000 -> "1,500,000원".
func FormatWon(amount int64) string {
	return won.Sprintf("%d원", amount)
}

// FormatRate renders a repayment rate rounded to a whole percent.
func FormatRate(rate float64) string {
	return won.Sprintf("%.0f%%", rate)
}
