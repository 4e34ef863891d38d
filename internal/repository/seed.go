package repository

import (
	"go-signshop-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DemoCatalog holds the seeded rows keyed by name
type DemoCatalog struct {
	Prices        map[string]model.Price
	ExtraProducts map[string]model.ExtraProduct
	Products      map[string]model.Product
	Customers     map[string]model.Customer
}

type demoTierPrice struct {
	tier  string
	price int64
}

type demoExtraProduct struct {
	name    string
	price   int64
	measure string
	formula string
	tiers   []demoTierPrice
}

type demoProduct struct {
	name    string
	barcode string
	price   int64
	measure string
	sides   int
	tiers   []demoTierPrice
	extras  []string
}

type demoCustomer struct {
	name    string
	phone   string
	address string
	tier    string
}

var (
	demoPrices = []string{"Diller", "Adaty"}

	demoExtraProducts = []demoExtraProduct{
		{name: "Secek", price: 10, measure: "sany", formula: "a", tiers: []demoTierPrice{{"Diller", 15}, {"Adaty", 20}}},
		{name: "Selpe", price: 16, measure: "m", formula: "2*(a+b)", tiers: []demoTierPrice{{"Diller", 30}}},
	}

	demoProducts = []demoProduct{
		{name: "H-1", barcode: "1", price: 50, measure: "m", sides: 1, tiers: []demoTierPrice{{"Diller", 40}}},
		{name: "H-2", barcode: "2", price: 60, measure: "mkw", sides: 2, tiers: []demoTierPrice{{"Adaty", 70}}, extras: []string{"Secek"}},
		{name: "H-3", barcode: "3", price: 80, measure: "mkb", sides: 3, tiers: []demoTierPrice{{"Diller", 90}, {"Adaty", 100}}, extras: []string{"Selpe"}},
	}

	demoCustomers = []demoCustomer{
		{name: "Maksat", phone: "+99365000001", address: "Asgabat", tier: "Diller"},
		{name: "Aman", phone: "+99365000002", address: "Mary", tier: "Adaty"},
		{name: "Serdar", phone: "+99365000003", address: "Dasoguz"},
	}
)

// SeedDemoData loads the demo catalog. Rows are matched by name, so running
// it again leaves existing data untouched.
func SeedDemoData(db *gorm.DB) (*DemoCatalog, error) {
	catalog := &DemoCatalog{
		Prices:        make(map[string]model.Price),
		ExtraProducts: make(map[string]model.ExtraProduct),
		Products:      make(map[string]model.Product),
		Customers:     make(map[string]model.Customer),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		insertIgnore := func(row interface{}) error {
			return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
		}

		// 1. Tiers
		for _, name := range demoPrices {
			var p model.Price
			if err := tx.Where(model.Price{Name: name}).FirstOrCreate(&p).Error; err != nil {
				return err
			}
			catalog.Prices[name] = p
		}

		// 2. Extra products + tier prices
		for _, d := range demoExtraProducts {
			var e model.ExtraProduct
			err := tx.Where(model.ExtraProduct{Name: d.name}).
				Attrs(model.ExtraProduct{Price: decimal.NewFromInt(d.price), Measure: d.measure, CalculationType: d.formula}).
				FirstOrCreate(&e).Error
			if err != nil {
				return err
			}
			for _, tp := range d.tiers {
				row := model.ExtraProductPrice{ExtraProductID: e.ID, PriceID: catalog.Prices[tp.tier].ID, Price: decimal.NewFromInt(tp.price)}
				if err := insertIgnore(&row); err != nil {
					return err
				}
			}
			catalog.ExtraProducts[d.name] = e
		}

		// 3. Products + tier prices + links
		for _, d := range demoProducts {
			var p model.Product
			err := tx.Where(model.Product{Name: d.name}).
				Attrs(model.Product{Barcode: d.barcode, Price: decimal.NewFromInt(d.price), Measure: d.measure, CountOfSides: d.sides}).
				FirstOrCreate(&p).Error
			if err != nil {
				return err
			}
			for _, tp := range d.tiers {
				row := model.ProductPrice{ProductID: p.ID, PriceID: catalog.Prices[tp.tier].ID, Price: decimal.NewFromInt(tp.price)}
				if err := insertIgnore(&row); err != nil {
					return err
				}
			}
			for _, name := range d.extras {
				link := model.ProductExtraProduct{ProductID: p.ID, ExtraProductID: catalog.ExtraProducts[name].ID}
				if err := insertIgnore(&link); err != nil {
					return err
				}
			}
			catalog.Products[d.name] = p
		}

		// 4. Customers
		for _, d := range demoCustomers {
			attrs := model.Customer{PhoneNumber: d.phone, Address: d.address}
			if d.tier != "" {
				id := catalog.Prices[d.tier].ID
				attrs.DefaultPriceID = &id
			}
			var c model.Customer
			if err := tx.Where(model.Customer{Name: d.name}).Attrs(attrs).FirstOrCreate(&c).Error; err != nil {
				return err
			}
			catalog.Customers[d.name] = c
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reload products with their relations for callers that price against them
	products := NewProductRepo(db)
	for name, p := range catalog.Products {
		full, err := products.FindByID(p.ID)
		if err != nil {
			return nil, err
		}
		catalog.Products[name] = *full
	}
	extras := NewExtraProductRepo(db)
	for name, e := range catalog.ExtraProducts {
		full, err := extras.FindByID(e.ID)
		if err != nil {
			return nil, err
		}
		catalog.ExtraProducts[name] = *full
	}
	return catalog, nil
}

// PriceID is a shorthand for the ID of a seeded tier
func (c *DemoCatalog) PriceID(name string) *uuid.UUID {
	p, ok := c.Prices[name]
	if !ok {
		return nil
	}
	id := p.ID
	return &id
}
