package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"go-signshop-api/internal/model"
	"go-signshop-api/internal/pricing"
	"go-signshop-api/internal/repository"
	"go-signshop-api/internal/ws"
	"go-signshop-api/pkg/testutil"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (p *recordingPublisher) Publish(e ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type+"/"+e.Action)
	}
	return out
}

type fixture struct {
	db        *gorm.DB
	catalog   *repository.DemoCatalog
	events    *recordingPublisher
	prices    PriceService
	customers CustomerService
	products  ProductService
	extras    ExtraProductService
	invoices  InvoiceService
	reports   ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, catalog := testutil.NewSeededDB(t)
	events := &recordingPublisher{}

	priceRepo := repository.NewPriceRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	productRepo := repository.NewProductRepo(db)
	extraRepo := repository.NewExtraProductRepo(db)
	invoiceRepo := repository.NewInvoiceRepo(db)
	reportRepo := repository.NewReportRepo(db)

	return &fixture{
		db:        db,
		catalog:   catalog,
		events:    events,
		prices:    NewPriceService(priceRepo, events),
		customers: NewCustomerService(customerRepo, priceRepo, events),
		products:  NewProductService(productRepo, extraRepo, priceRepo, db, events),
		extras:    NewExtraProductService(extraRepo, priceRepo, db, events),
		invoices:  NewInvoiceService(invoiceRepo, customerRepo, productRepo, priceRepo, db, events, zerolog.Nop()),
		reports:   NewReportService(reportRepo, productRepo, extraRepo, customerRepo, invoiceRepo),
	}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertDecimal(t *testing.T, want int64, got decimal.Decimal, msg string) {
	t.Helper()
	assert.Truef(t, got.Equal(dec(want)), "%s: want %d, got %s", msg, want, got)
}

func (f *fixture) productID(name string) uuid.UUID { return f.catalog.Products[name].ID }
func (f *fixture) extraID(name string) uuid.UUID   { return f.catalog.ExtraProducts[name].ID }
func (f *fixture) customerID(name string) uuid.UUID {
	return f.catalog.Customers[name].ID
}

// --- catalog ---

func TestProductCreateWithRelations(t *testing.T) {
	f := newFixture(t)

	product, err := f.products.Create(&ProductRequest{
		Name:            "  Banner  ",
		Barcode:         "100",
		Price:           dec(25),
		Measure:         "mkw",
		CountOfSides:    2,
		ExtraPrices:     []TierPriceRequest{{PriceID: *f.catalog.PriceID("Diller"), Price: decimal.Zero}},
		ExtraProductIDs: []uuid.UUID{f.extraID("Secek"), f.extraID("Secek"), f.extraID("Selpe")},
	})
	require.NoError(t, err)

	assert.Equal(t, "Banner", product.Name)
	require.Len(t, product.ExtraPrices, 1)
	assert.True(t, product.ExtraPrices[0].Price.IsZero())
	assert.Len(t, product.ExtraProducts, 2)
	assert.Equal(t, []string{"catalog_updated/created"}, f.events.types())
}

func TestProductRules(t *testing.T) {
	f := newFixture(t)
	diller := *f.catalog.PriceID("Diller")

	valid := func() *ProductRequest {
		return &ProductRequest{Name: "New", Barcode: "900", Price: dec(1), CountOfSides: 1}
	}

	tests := []struct {
		name   string
		mutate func(r *ProductRequest)
		want   error
	}{
		{"duplicate name", func(r *ProductRequest) { r.Name = "H-1" }, ErrDuplicate},
		{"duplicate barcode", func(r *ProductRequest) { r.Barcode = "2" }, ErrDuplicate},
		{"missing name", func(r *ProductRequest) { r.Name = " " }, ErrValidation},
		{"four sides", func(r *ProductRequest) { r.CountOfSides = 4 }, ErrValidation},
		{"zero sides", func(r *ProductRequest) { r.CountOfSides = 0 }, ErrValidation},
		{"negative price", func(r *ProductRequest) { r.Price = dec(-1) }, ErrValidation},
		{"unknown tier", func(r *ProductRequest) {
			r.ExtraPrices = []TierPriceRequest{{PriceID: uuid.New(), Price: dec(1)}}
		}, ErrValidation},
		{"tier listed twice", func(r *ProductRequest) {
			r.ExtraPrices = []TierPriceRequest{{PriceID: diller, Price: dec(1)}, {PriceID: diller, Price: dec(2)}}
		}, ErrValidation},
		{"negative tier price", func(r *ProductRequest) {
			r.ExtraPrices = []TierPriceRequest{{PriceID: diller, Price: dec(-5)}}
		}, ErrValidation},
		{"unknown extra product", func(r *ProductRequest) { r.ExtraProductIDs = []uuid.UUID{uuid.New()} }, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)
			_, err := f.products.Create(req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestProductUpdateReplacesRelations(t *testing.T) {
	f := newFixture(t)
	id := f.productID("H-3")

	updated, err := f.products.Update(id, &ProductRequest{
		Name:            "H-3",
		Barcode:         "3",
		Price:           dec(85),
		CountOfSides:    3,
		ExtraPrices:     []TierPriceRequest{{PriceID: *f.catalog.PriceID("Adaty"), Price: dec(99)}},
		ExtraProductIDs: []uuid.UUID{f.extraID("Secek")},
	})
	require.NoError(t, err)

	assertDecimal(t, 85, updated.Price, "price")
	require.Len(t, updated.ExtraPrices, 1)
	assertDecimal(t, 99, updated.ExtraPrices[0].Price, "tier price")
	require.Len(t, updated.ExtraProducts, 1)
	assert.Equal(t, "Secek", updated.ExtraProducts[0].Name)
}

func TestProductDelete(t *testing.T) {
	f := newFixture(t)
	id := f.productID("H-1")

	require.NoError(t, f.products.Delete(id))
	_, err := f.products.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.products.Delete(id), ErrNotFound)

	var rows int64
	require.NoError(t, f.db.Model(&model.ProductPrice{}).Where("product_id = ?", id).Count(&rows).Error)
	assert.Zero(t, rows)

	// The name is free again
	_, err = f.products.Create(&ProductRequest{Name: "H-1", Barcode: "1", Price: dec(50), CountOfSides: 1})
	assert.NoError(t, err)
}

func TestExtraProductFormulaIsChecked(t *testing.T) {
	f := newFixture(t)

	_, err := f.extras.Create(&ExtraProductRequest{Name: "Bad", Price: dec(1), CalculationType: "a; drop table"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.extras.Create(&ExtraProductRequest{Name: "Bad", Price: dec(1), CalculationType: "a +"})
	assert.ErrorIs(t, err, ErrValidation)

	extra, err := f.extras.Create(&ExtraProductRequest{
		Name:            "Frame",
		Price:           dec(4),
		CalculationType: " 2*(A+B) ",
		ExtraPrices:     []TierPriceRequest{{PriceID: *f.catalog.PriceID("Adaty"), Price: dec(5)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "2*(a+b)", extra.CalculationType)
	assert.Len(t, extra.ExtraPrices, 1)
}

func TestExtraProductDeleteUnlinks(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.extras.Delete(f.extraID("Secek")))

	product, err := f.products.Get(f.productID("H-2"))
	require.NoError(t, err)
	assert.Empty(t, product.ExtraProducts)
}

func TestCustomerDefaultPrice(t *testing.T) {
	f := newFixture(t)

	_, err := f.customers.Create(&CustomerRequest{Name: "Ghost", DefaultPriceID: ptr(uuid.New())})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.customers.Create(&CustomerRequest{Name: "Maksat"})
	assert.ErrorIs(t, err, ErrDuplicate)

	customer, err := f.customers.Create(&CustomerRequest{Name: "Merdan", PhoneNumber: "123", DefaultPriceID: f.catalog.PriceID("Adaty")})
	require.NoError(t, err)
	require.NotNil(t, customer.DefaultPrice)
	assert.Equal(t, "Adaty", customer.DefaultPrice.Name)

	customer, err = f.customers.Update(customer.ID, &CustomerRequest{Name: "Merdan", PhoneNumber: "123"})
	require.NoError(t, err)
	assert.Nil(t, customer.DefaultPriceID)
	assert.Nil(t, customer.DefaultPrice)

	found, err := f.customers.List("12")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Merdan", found[0].Name)
}

func TestPriceDeleteClearsReferences(t *testing.T) {
	f := newFixture(t)
	adaty := *f.catalog.PriceID("Adaty")

	require.NoError(t, f.prices.Delete(adaty))

	aman, err := f.customers.Get(f.customerID("Aman"))
	require.NoError(t, err)
	assert.Nil(t, aman.DefaultPriceID)

	h3, err := f.products.Get(f.productID("H-3"))
	require.NoError(t, err)
	require.Len(t, h3.ExtraPrices, 1)
	assert.Equal(t, *f.catalog.PriceID("Diller"), h3.ExtraPrices[0].PriceID)

	_, err = f.prices.Create(&PriceRequest{Name: "Adaty"})
	assert.NoError(t, err)
	_, err = f.prices.Create(&PriceRequest{Name: "Diller"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

// --- invoices ---

func ptr[T any](v T) *T { return &v }

func (f *fixture) h2Line(a, b string, extras ...string) InvoiceItemRequest {
	item := InvoiceItemRequest{
		ProductID:    f.productID("H-2"),
		Measurements: pricing.Measurements{A: pricing.Dimension(a), B: pricing.Dimension(b)},
	}
	for _, name := range extras {
		item.ExtraItems = append(item.ExtraItems, InvoiceExtraItemRequest{ExtraProductID: f.extraID(name)})
	}
	return item
}

func TestInvoiceCreateTierOverride(t *testing.T) {
	f := newFixture(t)

	invoice, err := f.invoices.Create(&InvoiceRequest{
		CustomerID:     f.customerID("Serdar"),
		DefaultPriceID: f.catalog.PriceID("Adaty"),
		Items:          []InvoiceItemRequest{f.h2Line("3", "4")},
	})
	require.NoError(t, err)

	require.Len(t, invoice.Items, 1)
	item := invoice.Items[0]
	assertDecimal(t, 12, item.Quantity, "quantity")
	assertDecimal(t, 70, item.CalculatedPricePerUnit, "unit price")
	assertDecimal(t, 840, item.TotalItemPrice, "item total")
	assertDecimal(t, 840, invoice.TotalAmount, "invoice total")
	assert.Equal(t, "Adaty", invoice.DefaultPrice.Name)
	assert.Equal(t, []string{"invoice_created/created"}, f.events.types())
}

func TestInvoiceUsesCustomerTierAndPricesExtras(t *testing.T) {
	f := newFixture(t)

	// Aman defaults to Adaty: H-2 at 70, Secek ("a") at 20
	invoice, err := f.invoices.Create(&InvoiceRequest{
		CustomerID: f.customerID("Aman"),
		Items:      []InvoiceItemRequest{f.h2Line("3", "4", "Secek")},
	})
	require.NoError(t, err)

	require.NotNil(t, invoice.DefaultPriceID)
	assert.Equal(t, *f.catalog.PriceID("Adaty"), *invoice.DefaultPriceID)
	item := invoice.Items[0]
	require.Len(t, item.ExtraItems, 1)
	extra := item.ExtraItems[0]
	assertDecimal(t, 3, extra.CalculatedQuantity, "extra quantity")
	assertDecimal(t, 20, extra.CalculatedUnitPrice, "extra unit")
	assertDecimal(t, 60, extra.CalculatedTotalPrice, "extra total")
	assertDecimal(t, 900, item.TotalItemPrice, "item total")
	assertDecimal(t, 900, invoice.TotalAmount, "invoice total")
}

func TestInvoiceExplicitTierWinsOverCustomerDefault(t *testing.T) {
	f := newFixture(t)

	// Aman defaults to Adaty; Diller has no H-2 override so the base price applies
	invoice, err := f.invoices.Preview(&InvoiceRequest{
		CustomerID:     f.customerID("Aman"),
		DefaultPriceID: f.catalog.PriceID("Diller"),
		Items:          []InvoiceItemRequest{f.h2Line("3", "4", "Secek")},
	})
	require.NoError(t, err)

	item := invoice.Items[0]
	assertDecimal(t, 60, item.CalculatedPricePerUnit, "base price")
	assertDecimal(t, 15, item.ExtraItems[0].CalculatedUnitPrice, "Secek Diller")
	assertDecimal(t, 12*60+3*15, invoice.TotalAmount, "total")
}

func TestInvoicePreviewStoresNothing(t *testing.T) {
	f := newFixture(t)

	invoice, err := f.invoices.Preview(&InvoiceRequest{
		CustomerID: f.customerID("Serdar"),
		Items:      []InvoiceItemRequest{f.h2Line("2", "2")},
	})
	require.NoError(t, err)
	assertDecimal(t, 240, invoice.TotalAmount, "total at base price")

	var count int64
	require.NoError(t, f.db.Model(&model.Invoice{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, f.events.types())
}

func TestInvoiceTotalIgnoresItemOrder(t *testing.T) {
	f := newFixture(t)
	h1 := InvoiceItemRequest{ProductID: f.productID("H-1"), Measurements: pricing.Measurements{A: "2.5"}}
	h3 := InvoiceItemRequest{
		ProductID:    f.productID("H-3"),
		Measurements: pricing.Measurements{A: "1", B: "2", C: "3"},
		ExtraItems:   []InvoiceExtraItemRequest{{ExtraProductID: f.extraID("Selpe")}},
	}
	h2 := f.h2Line("3", "4", "Secek", "Secek")

	forward, err := f.invoices.Preview(&InvoiceRequest{CustomerID: f.customerID("Maksat"), Items: []InvoiceItemRequest{h1, h2, h3}})
	require.NoError(t, err)
	backward, err := f.invoices.Preview(&InvoiceRequest{CustomerID: f.customerID("Maksat"), Items: []InvoiceItemRequest{h3, h2, h1}})
	require.NoError(t, err)

	assert.True(t, forward.TotalAmount.Equal(backward.TotalAmount))

	// Maksat is Diller: H-1 2.5×40, H-2 12×60 + 2×(3×15), H-3 6×90 + 2×(1+2)×30
	assertDecimal(t, 100+720+90+540+180, forward.TotalAmount, "total")
}

func TestInvoiceRejects(t *testing.T) {
	f := newFixture(t)
	serdar := f.customerID("Serdar")

	tests := []struct {
		name string
		req  *InvoiceRequest
	}{
		{"no items", &InvoiceRequest{CustomerID: serdar}},
		{"missing customer", &InvoiceRequest{Items: []InvoiceItemRequest{f.h2Line("1", "1")}}},
		{"unknown customer", &InvoiceRequest{CustomerID: uuid.New(), Items: []InvoiceItemRequest{f.h2Line("1", "1")}}},
		{"unknown tier", &InvoiceRequest{CustomerID: serdar, DefaultPriceID: ptr(uuid.New()), Items: []InvoiceItemRequest{f.h2Line("1", "1")}}},
		{"unknown product", &InvoiceRequest{CustomerID: serdar, Items: []InvoiceItemRequest{{ProductID: uuid.New(), Measurements: pricing.Measurements{A: "1"}}}}},
		{"missing side", &InvoiceRequest{CustomerID: serdar, Items: []InvoiceItemRequest{f.h2Line("3", "")}}},
		{"zero side", &InvoiceRequest{CustomerID: serdar, Items: []InvoiceItemRequest{f.h2Line("0", "4")}}},
		{"text side", &InvoiceRequest{CustomerID: serdar, Items: []InvoiceItemRequest{f.h2Line("abc", "4")}}},
		{"unlinked extra", &InvoiceRequest{CustomerID: serdar, Items: []InvoiceItemRequest{f.h2Line("1", "1", "Selpe")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.invoices.Create(tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&model.Invoice{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestInvoiceRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)

	boom := errors.New("disk full")
	err := f.db.Callback().Create().Before("gorm:create").Register("test:fail_extra_items", func(tx *gorm.DB) {
		if tx.Statement.Table == "invoice_extra_items" {
			tx.AddError(boom)
		}
	})
	require.NoError(t, err)

	_, err = f.invoices.Create(&InvoiceRequest{
		CustomerID: f.customerID("Aman"),
		Items:      []InvoiceItemRequest{f.h2Line("3", "4", "Secek")},
	})
	require.ErrorIs(t, err, boom)

	for _, m := range []interface{}{&model.Invoice{}, &model.InvoiceItem{}, &model.InvoiceExtraItem{}} {
		var count int64
		require.NoError(t, f.db.Model(m).Count(&count).Error)
		assert.Zero(t, count)
	}
	assert.Empty(t, f.events.types())
}

// --- reports ---

func TestReports(t *testing.T) {
	f := newFixture(t)

	_, err := f.invoices.Create(&InvoiceRequest{CustomerID: f.customerID("Aman"), Items: []InvoiceItemRequest{f.h2Line("3", "4", "Secek")}})
	require.NoError(t, err)
	_, err = f.invoices.Create(&InvoiceRequest{CustomerID: f.customerID("Maksat"), Items: []InvoiceItemRequest{f.h2Line("1", "1", "Secek")}})
	require.NoError(t, err)

	today := time.Now().Format("2006-01-02")

	products, err := f.reports.Products(ReportFilter{StartDate: today, EndDate: today, Search: "H-2"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	h2 := products[0]
	assertDecimal(t, 13, h2.Quantity, "quantity")
	assertDecimal(t, 12*70+60, h2.TotalByUnit, "by unit")
	assertDecimal(t, 900+75, h2.TotalWithExtraProducts, "with extras")
	require.Len(t, h2.ExtraProducts, 1)
	assertDecimal(t, 4, h2.ExtraProducts[0].Quantity, "Secek quantity")
	assertDecimal(t, 75, h2.ExtraProducts[0].Total, "Secek total")

	extras, err := f.reports.ExtraProducts(ReportFilter{Search: "sec"})
	require.NoError(t, err)
	require.Len(t, extras, 1)
	assertDecimal(t, 75, extras[0].TotalPrice, "Secek report")

	customers, err := f.reports.Customers(ReportFilter{Search: "Aman"})
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assertDecimal(t, 900, customers[0].TotalSales, "Aman sales")

	detail, err := f.reports.Customer(f.customerID("Maksat"), ReportFilter{})
	require.NoError(t, err)
	require.Len(t, detail.Sales, 1)
	assertDecimal(t, 75, detail.TotalSales, "Maksat sales")

	invoices, err := f.reports.Invoices(ReportFilter{DefaultPriceID: f.catalog.PriceID("Diller").String()})
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "Maksat", invoices[0].Customer.Name)

	sales, err := f.reports.ExtraProduct(f.extraID("Secek"), ReportFilter{})
	require.NoError(t, err)
	assert.Len(t, sales.Sales, 2)

	productSales, err := f.reports.Product(f.productID("H-2"), ReportFilter{})
	require.NoError(t, err)
	assert.Len(t, productSales.Sales, 2)

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	later, err := f.reports.Customers(ReportFilter{StartDate: tomorrow, Search: "Aman"})
	require.NoError(t, err)
	assert.True(t, later[0].TotalSales.IsZero())
}

func TestReportSearchMatchesNamesOnly(t *testing.T) {
	f := newFixture(t)
	_, err := f.products.Create(&ProductRequest{Name: "Banner", Barcode: "77", Price: dec(25), Measure: "mkw", CountOfSides: 2})
	require.NoError(t, err)

	products, err := f.reports.Products(ReportFilter{Search: "77"})
	require.NoError(t, err)
	assert.Empty(t, products, "barcode is not a product name")

	products, err = f.reports.Products(ReportFilter{Search: "bann"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Banner", products[0].Name)

	for _, search := range []string{"+99365000002", "Mary"} {
		customers, err := f.reports.Customers(ReportFilter{Search: search})
		require.NoError(t, err)
		assert.Empty(t, customers, search)
	}

	customers, err := f.reports.Customers(ReportFilter{Search: "ama"})
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Aman", customers[0].Name)
}

func TestReportFilterErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.reports.Products(ReportFilter{StartDate: "yesterday"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.reports.Invoices(ReportFilter{StartDate: "2024-02-01", EndDate: "2024-01-01"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.reports.Invoices(ReportFilter{DefaultPriceID: "not-a-uuid"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.reports.Invoice(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

// racingPrices and racingCustomers answer the name check as if another
// writer had not committed yet, so the unique index has the last word.
type racingPrices struct{ repository.PriceRepository }

func (racingPrices) NameTaken(string, uuid.UUID) (bool, error) { return false, nil }

type racingCustomers struct{ repository.CustomerRepository }

func (racingCustomers) NameTaken(string, uuid.UUID) (bool, error) { return false, nil }

func TestUniqueIndexViolationIsDuplicate(t *testing.T) {
	f := newFixture(t)
	priceRepo := repository.NewPriceRepo(f.db)
	prices := NewPriceService(racingPrices{priceRepo}, nil)
	customers := NewCustomerService(racingCustomers{repository.NewCustomerRepo(f.db)}, priceRepo, nil)

	_, err := prices.Create(&PriceRequest{Name: "Diller"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.EqualError(t, err, "price 'Diller' already exists")

	bolek, err := prices.Create(&PriceRequest{Name: "Bolek"})
	require.NoError(t, err)
	_, err = prices.Update(bolek.ID, &PriceRequest{Name: "Adaty"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = customers.Create(&CustomerRequest{Name: "Serdar"})
	assert.ErrorIs(t, err, ErrDuplicate)
	_, err = customers.Update(f.customerID("Maksat"), &CustomerRequest{Name: "Serdar"})
	assert.ErrorIs(t, err, ErrDuplicate)
}
