package model

import (
	"go-signshop-api/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExtraProduct is an add-on service (grommets, lamination, mounting) whose
// quantity is derived from the product line's measurements by CalculationType.
type ExtraProduct struct {
	BaseModel
	Name            string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_extra_products_name,where:deleted_at IS NULL" json:"name"`
	Price           decimal.Decimal `gorm:"type:numeric;not null" json:"price"`
	Measure         string          `gorm:"type:varchar(20)" json:"measure"`
	CalculationType string          `gorm:"type:varchar(255);not null" json:"calculationType"` // e.g. "a", "2*(a+b)"

	ExtraPrices []ExtraProductPrice `gorm:"foreignKey:ExtraProductID" json:"extraPrices"`
}

type ExtraProductPrice struct {
	ExtraProductID uuid.UUID       `gorm:"type:uuid;primaryKey" json:"extraProductId"`
	PriceID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"priceId"`
	Price          decimal.Decimal `gorm:"type:numeric;not null" json:"price"`
}

func (e *ExtraProduct) TierPrices() []pricing.TierPrice {
	out := make([]pricing.TierPrice, 0, len(e.ExtraPrices))
	for _, ep := range e.ExtraPrices {
		out = append(out, pricing.TierPrice{PriceID: ep.PriceID, Price: ep.Price})
	}
	return out
}
