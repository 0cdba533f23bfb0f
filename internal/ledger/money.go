package ledger

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the ledger currency when none is configured.
const DefaultCurrency = money.INR

// MoneyFormatter renders decimal amounts as currency text, e.g. ₹75,495.00.
type MoneyFormatter struct {
	currency money.Currency
}

// NewMoneyFormatter returns a formatter for the ISO currency code.
// Unknown codes fall back to a plain two-decimal format.
func NewMoneyFormatter(code string) MoneyFormatter {
	// the constructor never returns a nil currency
	return MoneyFormatter{currency: *money.New(0, code).Currency()}
}

// Format rounds amount to the currency fraction and formats it.
func (f MoneyFormatter) Format(amount decimal.Decimal) string {
	minor := amount.Shift(int32(f.currency.Fraction)).Round(0)
	return f.currency.Formatter().Format(minor.IntPart())
}

// Code returns the ISO code.
func (f MoneyFormatter) Code() string {
	return f.currency.Code
}
