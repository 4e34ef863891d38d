package model

import "github.com/google/uuid"

type Customer struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null;uniqueIndex:idx_customers_name,where:deleted_at IS NULL" json:"name"`
	PhoneNumber string `gorm:"type:varchar(50)" json:"phoneNumber"`
	Address     string `gorm:"type:varchar(255)" json:"address"`

	// Tier preselected on new invoices for this customer
	DefaultPriceID *uuid.UUID `gorm:"type:uuid;index" json:"defaultPriceId"`
	DefaultPrice   *Price     `gorm:"foreignKey:DefaultPriceID" json:"defaultPrice,omitempty"`
}
