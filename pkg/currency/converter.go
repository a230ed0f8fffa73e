package currency

import (
	"github.com/shopspring/decimal"

	"github.com/kmoo25z/ameriduka/pkg/enums"
)

// Converter is the single source of exchange rates for display prices. All
// catalog and order amounts are stored in USD; every converted figure is
// rounded to two decimals. Rates are fixed: the backend owns authoritative
// totals, this table only drives what the customer sees before submission.
type Converter struct {
	rates map[enums.Currency]decimal.Decimal
}

func NewConverter() *Converter {
	return &Converter{
		rates: map[enums.Currency]decimal.Decimal{
			enums.CurrencyUSD: decimal.NewFromInt(1),
			enums.CurrencyKES: decimal.NewFromFloat(129.50),
			enums.CurrencyEUR: decimal.NewFromFloat(0.92),
		},
	}
}

// Rate returns the USD multiplier for the given currency. Unrecognized
// currencies fall back to 1 so an amount is never hidden behind an error.
func (c *Converter) Rate(cur enums.Currency) decimal.Decimal {
	if rate, ok := c.rates[cur]; ok {
		return rate
	}
	return decimal.NewFromInt(1)
}

// Convert turns a USD amount into the display currency, rounded to 2 dp.
func (c *Converter) Convert(amountUSD decimal.Decimal, cur enums.Currency) decimal.Decimal {
	return amountUSD.Mul(c.Rate(cur)).Round(2)
}

// ConvertFloat is Convert for wire-format float64 amounts.
func (c *Converter) ConvertFloat(amountUSD float64, cur enums.Currency) float64 {
	converted, _ := c.Convert(decimal.NewFromFloat(amountUSD), cur).Float64()
	return converted
}
