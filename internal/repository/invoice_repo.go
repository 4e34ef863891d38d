package repository

import (
	"go-signshop-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvoiceRepository interface {
	Create(tx *gorm.DB, invoice *model.Invoice) error
	FindByID(id uuid.UUID) (*model.Invoice, error)
}

type invoiceRepo struct {
	db *gorm.DB
}

func NewInvoiceRepo(db *gorm.DB) InvoiceRepository {
	return &invoiceRepo{db}
}

// Create inserts the invoice, its items and their extra items with tx.
// IDs and positions are assigned here so children can reference parents.
func (r *invoiceRepo) Create(tx *gorm.DB, invoice *model.Invoice) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	if err := tx.Omit(clause.Associations).Create(invoice).Error; err != nil {
		return err
	}
	if len(invoice.Items) == 0 {
		return nil
	}

	var extras []model.InvoiceExtraItem
	for i := range invoice.Items {
		item := &invoice.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.InvoiceID = invoice.ID
		item.Position = i
		for j := range item.ExtraItems {
			extra := &item.ExtraItems[j]
			if extra.ID == uuid.Nil {
				extra.ID = uuid.New()
			}
			extra.InvoiceItemID = item.ID
			extra.Position = j
			extras = append(extras, *extra)
		}
	}

	if err := tx.Omit(clause.Associations).Create(&invoice.Items).Error; err != nil {
		return err
	}
	if len(extras) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).Create(&extras).Error
}

// FindByID loads the whole invoice. Referenced catalog rows are loaded even
// when soft deleted so old invoices keep their names.
func (r *invoiceRepo) FindByID(id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.
		Preload("Customer", unscoped).
		Preload("DefaultPrice", unscoped).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Items.Product", unscoped).
		Preload("Items.ExtraItems", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Items.ExtraItems.ExtraProduct", unscoped).
		First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}
