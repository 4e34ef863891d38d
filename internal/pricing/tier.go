package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TierPrice overrides an entity's base price under one price tier.
type TierPrice struct {
	PriceID uuid.UUID
	Price   decimal.Decimal
}

// ResolveUnitPrice returns the override for tier, or base when there is no
// tier or no override for it. A zero override is still an override.
func ResolveUnitPrice(base decimal.Decimal, overrides []TierPrice, tier *uuid.UUID) decimal.Decimal {
	if tier == nil {
		return base
	}
	for _, o := range overrides {
		if o.PriceID == *tier {
			return o.Price
		}
	}
	return base
}
