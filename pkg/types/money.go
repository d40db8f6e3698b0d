package types

import "github.com/shopspring/decimal"

// FormatMoney renders a monetary amount with a fixed two-decimal format and a
// currency symbol prefix. Single-currency display, no locale handling.
func FormatMoney(symbol string, amount decimal.Decimal) string {
	return symbol + amount.StringFixed(2)
}
