package orders

import "github.com/shopspring/decimal"

// Pricing rules.
var (
	TaxRate      = decimal.RequireFromString("0.10")
	FlatShipping = decimal.NewFromInt(15)
)

// Line is the priced part of an order line.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// Totals holds the money fields of an order.
type Totals struct {
	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	ShippingCost decimal.Decimal
	Total        decimal.Decimal
}

// Price computes order totals with exact decimal arithmetic. Nothing is
// rounded. An empty line list prices to all zeros, shipping included.
func Price(lines []Line) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	shipping := decimal.Zero
	if len(lines) > 0 {
		shipping = FlatShipping
	}
	tax := subtotal.Mul(TaxRate)

	return Totals{
		Subtotal:     subtotal,
		Tax:          tax,
		ShippingCost: shipping,
		Total:        subtotal.Add(tax).Add(shipping),
	}
}

// LinesOf extracts the priced lines of existing order items.
func LinesOf(items []OrderItem) []Line {
	lines := make([]Line, len(items))
	for i, it := range items {
		lines[i] = Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	return lines
}
