package model

import (
	"go-signshop-api/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Invoice struct {
	BaseModel
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"customerId"`
	Customer       *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	DefaultPriceID *uuid.UUID      `gorm:"type:uuid;index" json:"defaultPriceId"`
	DefaultPrice   *Price          `gorm:"foreignKey:DefaultPriceID" json:"defaultPrice,omitempty"`
	TotalAmount    decimal.Decimal `gorm:"type:numeric;not null" json:"totalAmount"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

type InvoiceItem struct {
	BaseModel
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index" json:"invoiceId"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"productId"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	Measurements           datatypes.JSONType[pricing.Measurements] `json:"measurements"`
	Quantity               decimal.Decimal                          `gorm:"type:numeric;not null" json:"quantity"`
	CalculatedPricePerUnit decimal.Decimal                          `gorm:"type:numeric;not null" json:"calculatedPricePerUnit"`
	TotalItemPrice         decimal.Decimal                          `gorm:"type:numeric;not null" json:"totalItemPrice"`
	Notes                  string                                   `gorm:"type:text" json:"notes"`

	ExtraItems []InvoiceExtraItem `gorm:"foreignKey:InvoiceItemID" json:"extraItems"`
}

type InvoiceExtraItem struct {
	BaseModel
	InvoiceItemID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"invoiceItemId"`
	Position       int           `gorm:"not null;default:0" json:"position"`
	ExtraProductID uuid.UUID     `gorm:"type:uuid;not null;index" json:"extraProductId"`
	ExtraProduct   *ExtraProduct `gorm:"foreignKey:ExtraProductID" json:"extraProduct,omitempty"`

	CalculatedQuantity   decimal.Decimal `gorm:"type:numeric;not null" json:"calculatedQuantity"`
	CalculatedUnitPrice  decimal.Decimal `gorm:"type:numeric;not null" json:"calculatedUnitPrice"`
	CalculatedTotalPrice decimal.Decimal `gorm:"type:numeric;not null" json:"calculatedTotalPrice"`

	// Filled by report queries that join the owning invoice item
	InvoiceID *uuid.UUID `gorm:"->;-:migration" json:"invoiceId,omitempty"`
}
