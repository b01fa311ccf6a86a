package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

var (
	printer = message.NewPrinter(language.English)

	// KSh is the storefront currency.
	KSh = currency.MustParseISO("KES")
)

func KES(amount int64) Money {
	return Money{
		Amount:   decimal.NewFromInt(amount),
		Currency: KSh,
	}
}

func (m Money) Add(other Money) Money {
	return Money{
		Amount:   m.Amount.Add(other.Amount),
		Currency: m.Currency,
	}
}

// String renders whole shillings the way the storefront shows them, e.g. "KSh 9,000".
func (m Money) String() string {
	if m.Currency == KSh {
		return printer.Sprintf("KSh %d", m.Amount.Round(0).IntPart())
	}
	return printer.Sprintf("%s %s", m.Currency.String(), m.Amount.StringFixed(2))
}
