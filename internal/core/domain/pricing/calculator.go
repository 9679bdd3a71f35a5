// Package pricing holds the financial arithmetic for order lines and
// order totals. All money flows through this package; services and
// handlers never calculate inline.
//
// Formulas per line:
//
//	taxUSD        = baseUnitPriceUSD × (taxPercent / 100)
//	commissionUSD = (baseUnitPriceUSD + taxUSD) × (commissionPercent / 100)
//	finalUnitUSD  = baseUnitPriceUSD + taxUSD + commissionUSD
//	subtotalUSD   = finalUnitUSD × quantity
//
// Commission is charged on the tax-inclusive amount, not on the base
// price alone. Per-unit figures are rounded half-up to 4 decimal
// places, line subtotals and USD totals to 2, CLP totals to 0.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ItemInput are the raw pricing fields of one order line.
type ItemInput struct {
	Quantity          int
	BaseUnitPriceUSD  decimal.Decimal
	TaxPercent        decimal.Decimal
	CommissionPercent decimal.Decimal
}

// ItemPricing are the derived figures for one order line, already
// rounded for storage.
type ItemPricing struct {
	TaxUSD            decimal.Decimal
	CommissionUSD     decimal.Decimal
	FinalUnitPriceUSD decimal.Decimal
	SubtotalUSD       decimal.Decimal
}

// Totals aggregates the order. TotalUSD equals SubtotalUSD today; the
// two fields stay separate so order-level discounts can slot in later
// without a schema change.
type Totals struct {
	SubtotalUSD decimal.Decimal
	TotalUSD    decimal.Decimal

	// TotalCLP is only meaningful when RateApplied is true. A missing
	// or zero exchange rate yields RateApplied=false rather than a
	// silent zero, so "not yet entered" is distinguishable from a
	// genuine zero-value order.
	TotalCLP    decimal.Decimal
	RateApplied bool
}

// ComputeItem derives the pricing figures for one line.
//
// Inputs are sanitised rather than rejected: quantity below 1 becomes
// 1 and a negative base price becomes 0, mirroring the lenient
// handling of hand-typed form values upstream. Zero percentages are
// normal and produce zero tax/commission.
func ComputeItem(in ItemInput) ItemPricing {
	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}
	base := in.BaseUnitPriceUSD
	if base.IsNegative() {
		base = decimal.Zero
	}

	tax := base.Mul(in.TaxPercent).Div(hundred).Round(4)
	commission := base.Add(tax).Mul(in.CommissionPercent).Div(hundred).Round(4)
	finalUnit := base.Add(tax).Add(commission).Round(4)
	subtotal := finalUnit.Mul(decimal.NewFromInt(int64(qty))).Round(2)

	return ItemPricing{
		TaxUSD:            tax,
		CommissionUSD:     commission,
		FinalUnitPriceUSD: finalUnit,
		SubtotalUSD:       subtotal,
	}
}

// ComputeOrderTotals prices every line and aggregates the order.
// Subtotals are summed left to right so rounding is reproducible, and
// the CLP total is converted with the given CLP-per-USD rate.
func ComputeOrderTotals(items []ItemInput, exchangeRate decimal.Decimal) Totals {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(ComputeItem(it).SubtotalUSD)
	}
	subtotal := sum.Round(2)

	totals := Totals{
		SubtotalUSD: subtotal,
		TotalUSD:    subtotal,
	}

	if exchangeRate.IsPositive() {
		totals.TotalCLP = subtotal.Mul(exchangeRate).Round(0)
		totals.RateApplied = true
	}
	return totals
}
