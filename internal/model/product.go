package model

import (
	"go-signshop-api/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name         string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_products_name,where:deleted_at IS NULL" json:"name"`
	Barcode      string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_products_barcode,where:deleted_at IS NULL" json:"barcode"`
	Price        decimal.Decimal `gorm:"type:numeric;not null" json:"price"`
	Measure      string          `gorm:"type:varchar(20)" json:"measure"` // m, m2, m3 ...
	CountOfSides int             `gorm:"not null;default:1" json:"countOfSides"`

	// Relasi
	ExtraPrices   []ProductPrice `gorm:"foreignKey:ProductID" json:"extraPrices"`
	ExtraProducts []ExtraProduct `gorm:"many2many:product_extra_products;" json:"extraProducts"`
}

// ProductPrice is the product's price under one tier.
type ProductPrice struct {
	ProductID uuid.UUID       `gorm:"type:uuid;primaryKey" json:"productId"`
	PriceID   uuid.UUID       `gorm:"type:uuid;primaryKey" json:"priceId"`
	Price     decimal.Decimal `gorm:"type:numeric;not null" json:"price"`
}

// ProductExtraProduct links an extra product that may be sold on a product's lines.
type ProductExtraProduct struct {
	ProductID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	ExtraProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (ProductExtraProduct) TableName() string {
	return "product_extra_products"
}

// TierPrices converts the override rows for the pricing package.
func (p *Product) TierPrices() []pricing.TierPrice {
	out := make([]pricing.TierPrice, 0, len(p.ExtraPrices))
	for _, ep := range p.ExtraPrices {
		out = append(out, pricing.TierPrice{PriceID: ep.PriceID, Price: ep.Price})
	}
	return out
}

// LinkedExtraProduct returns the linked extra product with the given ID.
func (p *Product) LinkedExtraProduct(id uuid.UUID) (*ExtraProduct, bool) {
	for i := range p.ExtraProducts {
		if p.ExtraProducts[i].ID == id {
			return &p.ExtraProducts[i], true
		}
	}
	return nil, false
}
