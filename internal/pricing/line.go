package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExtraLine is an extra product attached to an invoice line.
type ExtraLine struct {
	Formula   string
	Base      decimal.Decimal
	Overrides []TierPrice
}

// Line is one product on an invoice with its measurements and extras.
type Line struct {
	Sides        int
	Measurements Measurements
	Base         decimal.Decimal
	Overrides    []TierPrice
	Extras       []ExtraLine
}

type ExtraResult struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

type LineResult struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
	Extras    []ExtraResult
}

// PriceLine recomputes a line from scratch under the given price tier.
func PriceLine(line Line, tier *uuid.UUID) LineResult {
	res := LineResult{
		Quantity:  Quantity(line.Sides, line.Measurements),
		UnitPrice: ResolveUnitPrice(line.Base, line.Overrides, tier),
		Extras:    make([]ExtraResult, 0, len(line.Extras)),
	}
	for _, extra := range line.Extras {
		qty := EvaluateFormula(extra.Formula, line.Measurements)
		unit := ResolveUnitPrice(extra.Base, extra.Overrides, tier)
		res.Extras = append(res.Extras, ExtraResult{
			Quantity:  qty,
			UnitPrice: unit,
			Total:     qty.Mul(unit),
		})
	}
	res.Total = ItemTotal(res.Quantity, res.UnitPrice, res.Extras)
	return res
}

// ItemTotal is quantity × unit price plus the extras' totals.
func ItemTotal(quantity, unitPrice decimal.Decimal, extras []ExtraResult) decimal.Decimal {
	total := quantity.Mul(unitPrice)
	for _, e := range extras {
		total = total.Add(e.Total)
	}
	return total
}

// InvoiceTotal sums the line totals.
func InvoiceTotal(lines []LineResult) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total)
	}
	return total
}
