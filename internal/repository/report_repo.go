package repository

import (
	"time"

	"go-signshop-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DateRange bounds reports by invoice creation time. Nil ends are open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

func (d DateRange) scope(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if d.Start != nil {
			db = db.Where(column+" >= ?", *d.Start)
		}
		if d.End != nil {
			db = db.Where(column+" <= ?", *d.End)
		}
		return db
	}
}

// ProductSales aggregates one product's invoice items
type ProductSales struct {
	Quantity               decimal.Decimal
	TotalByUnit            decimal.Decimal
	TotalWithExtraProducts decimal.Decimal
}

// ExtraSales aggregates extra items, optionally per owning product
type ExtraSales struct {
	ProductID      uuid.UUID
	ExtraProductID uuid.UUID
	Name           string
	Quantity       decimal.Decimal
	Total          decimal.Decimal
}

type InvoiceFilter struct {
	Range          DateRange
	CustomerID     *uuid.UUID
	CustomerName   string
	DefaultPriceID *uuid.UUID
}

type ReportRepository interface {
	ProductSales(r DateRange) (map[uuid.UUID]ProductSales, error)
	ProductExtraSales(r DateRange) ([]ExtraSales, error)
	ProductItems(productID uuid.UUID, r DateRange) ([]model.InvoiceItem, error)
	ExtraProductSales(r DateRange) (map[uuid.UUID]ExtraSales, error)
	ExtraProductItems(extraProductID uuid.UUID, r DateRange) ([]model.InvoiceExtraItem, error)
	CustomerSales(r DateRange) (map[uuid.UUID]decimal.Decimal, error)
	Invoices(f InvoiceFilter) ([]model.Invoice, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

// liveItems is invoice_items joined to their non-deleted invoices
func (r *reportRepo) liveItems(rg DateRange) *gorm.DB {
	return r.db.Model(&model.InvoiceItem{}).
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id AND invoices.deleted_at IS NULL").
		Scopes(rg.scope("invoices.created_at"))
}

func (r *reportRepo) liveExtraItems(rg DateRange) *gorm.DB {
	return r.db.Model(&model.InvoiceExtraItem{}).
		Joins("JOIN invoice_items ON invoice_items.id = invoice_extra_items.invoice_item_id AND invoice_items.deleted_at IS NULL").
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id AND invoices.deleted_at IS NULL").
		Scopes(rg.scope("invoices.created_at"))
}

func (r *reportRepo) ProductSales(rg DateRange) (map[uuid.UUID]ProductSales, error) {
	results := make(map[uuid.UUID]ProductSales)

	rows, err := r.liveItems(rg).
		Select(`
			invoice_items.product_id,
			COALESCE(SUM(invoice_items.quantity), 0),
			COALESCE(SUM(invoice_items.quantity * invoice_items.calculated_price_per_unit), 0),
			COALESCE(SUM(invoice_items.total_item_price), 0)
		`).
		Group("invoice_items.product_id").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var data ProductSales
		if err := rows.Scan(&id, &data.Quantity, &data.TotalByUnit, &data.TotalWithExtraProducts); err != nil {
			return nil, err
		}
		results[id] = data
	}
	return results, rows.Err()
}

// ProductExtraSales totals extra items per (product, extra product) pair,
// so a product's report only counts extras sold on its own lines.
func (r *reportRepo) ProductExtraSales(rg DateRange) ([]ExtraSales, error) {
	var results []ExtraSales

	rows, err := r.liveExtraItems(rg).
		Joins("JOIN extra_products ON extra_products.id = invoice_extra_items.extra_product_id").
		Select(`
			invoice_items.product_id,
			invoice_extra_items.extra_product_id,
			extra_products.name,
			COALESCE(SUM(invoice_extra_items.calculated_quantity), 0),
			COALESCE(SUM(invoice_extra_items.calculated_total_price), 0)
		`).
		Group("invoice_items.product_id, invoice_extra_items.extra_product_id, extra_products.name").
		Order("extra_products.name ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data ExtraSales
		if err := rows.Scan(&data.ProductID, &data.ExtraProductID, &data.Name, &data.Quantity, &data.Total); err != nil {
			return nil, err
		}
		results = append(results, data)
	}
	return results, rows.Err()
}

func (r *reportRepo) ProductItems(productID uuid.UUID, rg DateRange) ([]model.InvoiceItem, error) {
	var items []model.InvoiceItem
	err := r.liveItems(rg).
		Where("invoice_items.product_id = ?", productID).
		Preload("ExtraItems", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("ExtraItems.ExtraProduct", unscoped).
		Order("invoices.created_at DESC, invoice_items.position ASC").
		Find(&items).Error
	return items, err
}

func (r *reportRepo) ExtraProductSales(rg DateRange) (map[uuid.UUID]ExtraSales, error) {
	results := make(map[uuid.UUID]ExtraSales)

	rows, err := r.liveExtraItems(rg).
		Select(`
			invoice_extra_items.extra_product_id,
			COALESCE(SUM(invoice_extra_items.calculated_quantity), 0),
			COALESCE(SUM(invoice_extra_items.calculated_total_price), 0)
		`).
		Group("invoice_extra_items.extra_product_id").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data ExtraSales
		if err := rows.Scan(&data.ExtraProductID, &data.Quantity, &data.Total); err != nil {
			return nil, err
		}
		results[data.ExtraProductID] = data
	}
	return results, rows.Err()
}

// ExtraProductItems returns extra items with the invoice they were sold on
func (r *reportRepo) ExtraProductItems(extraProductID uuid.UUID, rg DateRange) ([]model.InvoiceExtraItem, error) {
	var items []model.InvoiceExtraItem
	err := r.liveExtraItems(rg).
		Select("invoice_extra_items.*, invoice_items.invoice_id AS invoice_id").
		Where("invoice_extra_items.extra_product_id = ?", extraProductID).
		Order("invoices.created_at DESC, invoice_extra_items.position ASC").
		Find(&items).Error
	return items, err
}

func (r *reportRepo) CustomerSales(rg DateRange) (map[uuid.UUID]decimal.Decimal, error) {
	results := make(map[uuid.UUID]decimal.Decimal)

	rows, err := r.db.Model(&model.Invoice{}).
		Select("customer_id, COALESCE(SUM(total_amount), 0)").
		Scopes(rg.scope("created_at")).
		Group("customer_id").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var total decimal.Decimal
		if err := rows.Scan(&id, &total); err != nil {
			return nil, err
		}
		results[id] = total
	}
	return results, rows.Err()
}

func (r *reportRepo) Invoices(f InvoiceFilter) ([]model.Invoice, error) {
	var invoices []model.Invoice
	q := r.db.Model(&model.Invoice{}).
		Preload("Customer", unscoped).
		Preload("DefaultPrice", unscoped).
		Scopes(f.Range.scope("invoices.created_at"))

	if f.CustomerID != nil {
		q = q.Where("invoices.customer_id = ?", *f.CustomerID)
	}
	if f.DefaultPriceID != nil {
		q = q.Where("invoices.default_price_id = ?", *f.DefaultPriceID)
	}
	if f.CustomerName != "" {
		q = q.Joins("JOIN customers ON customers.id = invoices.customer_id").
			Where("LOWER(customers.name) LIKE ?", likePattern(f.CustomerName))
	}

	err := q.Order("invoices.created_at DESC").Find(&invoices).Error
	return invoices, err
}
