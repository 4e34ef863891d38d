package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Prices and quantities travel as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// BaseModel handles ID (UUID), timestamps and soft delete
type BaseModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates the UUID unless the caller already assigned one
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return
}

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Price{},
		&Customer{},
		&ExtraProduct{},
		&ExtraProductPrice{},
		&Product{},
		&ProductPrice{},
		&Invoice{},
		&InvoiceItem{},
		&InvoiceExtraItem{},
	}
}
