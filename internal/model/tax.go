package model

import "github.com/shopspring/decimal"

// TaxRate is the fixed IVA surcharge applied for display. It is never stored.
var TaxRate = decimal.RequireFromString("0.15")

// TaxFields holds the display-only amounts derived from a price.
type TaxFields struct {
	Price        decimal.Decimal
	Tax          decimal.Decimal
	TotalWithTax decimal.Decimal
}

// ComputeTaxFields derives tax and total from the part's price, each
// rounded to two decimal places.
func ComputeTaxFields(p Part) TaxFields {
	tax := p.Price.Mul(TaxRate)
	return TaxFields{
		Price:        p.Price.Round(2),
		Tax:          tax.Round(2),
		TotalWithTax: p.Price.Add(tax).Round(2),
	}
}

// FormatMoney renders an amount as "$" followed by two decimals.
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
