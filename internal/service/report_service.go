package service

import (
	"strings"

	"go-signshop-api/internal/model"
	"go-signshop-api/internal/repository"
	"go-signshop-api/pkg/dateparse"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportFilter is the raw query of a report request
type ReportFilter struct {
	StartDate      string
	EndDate        string
	Search         string
	DefaultPriceID string
}

type ExtraProductTotal struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

type ProductReport struct {
	ID                     uuid.UUID           `json:"id"`
	Name                   string              `json:"name"`
	Barcode                string              `json:"barcode"`
	Measure                string              `json:"measure"`
	Price                  decimal.Decimal     `json:"price"`
	Quantity               decimal.Decimal     `json:"quantity"`
	TotalByUnit            decimal.Decimal     `json:"totalByUnit"`
	TotalWithExtraProducts decimal.Decimal     `json:"totalWithExtraProducts"`
	ExtraProducts          []ExtraProductTotal `json:"extraProducts"`
}

type ProductSalesReport struct {
	*model.Product
	Sales []model.InvoiceItem `json:"sales"`
}

type ExtraProductReport struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Measure         string          `json:"measure"`
	Price           decimal.Decimal `json:"price"`
	CalculationType string          `json:"calculationType"`
	TotalQuantity   decimal.Decimal `json:"totalQuantity"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
}

type ExtraProductSalesReport struct {
	*model.ExtraProduct
	Sales []model.InvoiceExtraItem `json:"sales"`
}

type CustomerReport struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	PhoneNumber  string          `json:"phoneNumber"`
	Address      string          `json:"address"`
	DefaultPrice *model.Price    `json:"defaultPrice"`
	TotalSales   decimal.Decimal `json:"totalSales"`
}

type CustomerSalesReport struct {
	*model.Customer
	TotalSales decimal.Decimal `json:"totalSales"`
	Sales      []model.Invoice `json:"sales"`
}

type ReportService interface {
	Products(f ReportFilter) ([]ProductReport, error)
	Product(id uuid.UUID, f ReportFilter) (*ProductSalesReport, error)
	ExtraProducts(f ReportFilter) ([]ExtraProductReport, error)
	ExtraProduct(id uuid.UUID, f ReportFilter) (*ExtraProductSalesReport, error)
	Customers(f ReportFilter) ([]CustomerReport, error)
	Customer(id uuid.UUID, f ReportFilter) (*CustomerSalesReport, error)
	Invoices(f ReportFilter) ([]model.Invoice, error)
	Invoice(id uuid.UUID) (*model.Invoice, error)
}

type reportService struct {
	reportRepo   repository.ReportRepository
	productRepo  repository.ProductRepository
	extraRepo    repository.ExtraProductRepository
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
}

func NewReportService(
	rRepo repository.ReportRepository,
	pRepo repository.ProductRepository,
	eRepo repository.ExtraProductRepository,
	cRepo repository.CustomerRepository,
	iRepo repository.InvoiceRepository,
) ReportService {
	return &reportService{
		reportRepo:   rRepo,
		productRepo:  pRepo,
		extraRepo:    eRepo,
		customerRepo: cRepo,
		invoiceRepo:  iRepo,
	}
}

// dateRange parses the filter bounds in local time
func (f ReportFilter) dateRange() (repository.DateRange, error) {
	var rg repository.DateRange
	if s := strings.TrimSpace(f.StartDate); s != "" {
		t, err := dateparse.Parse(s, nil)
		if err != nil {
			return rg, invalid("invalid startDate: %v", err)
		}
		rg.Start = &t
	}
	if s := strings.TrimSpace(f.EndDate); s != "" {
		t, err := dateparse.ParseEnd(s, nil)
		if err != nil {
			return rg, invalid("invalid endDate: %v", err)
		}
		rg.End = &t
	}
	if rg.Start != nil && rg.End != nil && rg.End.Before(*rg.Start) {
		return rg, invalid("endDate is before startDate")
	}
	return rg, nil
}

func (s *reportService) Products(f ReportFilter) ([]ProductReport, error) {
	rg, err := f.dateRange()
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindByName(strings.TrimSpace(f.Search))
	if err != nil {
		return nil, err
	}
	sales, err := s.reportRepo.ProductSales(rg)
	if err != nil {
		return nil, err
	}
	extraSales, err := s.reportRepo.ProductExtraSales(rg)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[uuid.UUID][]repository.ExtraSales)
	for _, es := range extraSales {
		byProduct[es.ProductID] = append(byProduct[es.ProductID], es)
	}

	reports := make([]ProductReport, 0, len(products))
	for _, p := range products {
		sold := sales[p.ID]
		report := ProductReport{
			ID:                     p.ID,
			Name:                   p.Name,
			Barcode:                p.Barcode,
			Measure:                p.Measure,
			Price:                  p.Price,
			Quantity:               sold.Quantity,
			TotalByUnit:            sold.TotalByUnit,
			TotalWithExtraProducts: sold.TotalWithExtraProducts,
			ExtraProducts:          extraTotals(p, byProduct[p.ID]),
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// extraTotals lists the product's linked extras with what was sold on its
// lines, followed by extras sold on it that are no longer linked.
func extraTotals(p model.Product, sold []repository.ExtraSales) []ExtraProductTotal {
	byExtra := make(map[uuid.UUID]repository.ExtraSales, len(sold))
	for _, es := range sold {
		byExtra[es.ExtraProductID] = es
	}

	totals := make([]ExtraProductTotal, 0, len(p.ExtraProducts))
	for _, extra := range p.ExtraProducts {
		es := byExtra[extra.ID]
		totals = append(totals, ExtraProductTotal{ID: extra.ID, Name: extra.Name, Quantity: es.Quantity, Total: es.Total})
		delete(byExtra, extra.ID)
	}
	for _, es := range sold {
		if _, unlinked := byExtra[es.ExtraProductID]; unlinked {
			totals = append(totals, ExtraProductTotal{ID: es.ExtraProductID, Name: es.Name, Quantity: es.Quantity, Total: es.Total})
		}
	}
	return totals
}

func (s *reportService) Product(id uuid.UUID, f ReportFilter) (*ProductSalesReport, error) {
	rg, err := f.dateRange()
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(err, "product")
	}
	items, err := s.reportRepo.ProductItems(id, rg)
	if err != nil {
		return nil, err
	}
	return &ProductSalesReport{Product: product, Sales: items}, nil
}

func (s *reportService) ExtraProducts(f ReportFilter) ([]ExtraProductReport, error) {
	rg, err := f.dateRange()
	if err != nil {
		return nil, err
	}
	extras, err := s.extraRepo.FindAll(strings.TrimSpace(f.Search))
	if err != nil {
		return nil, err
	}
	sales, err := s.reportRepo.ExtraProductSales(rg)
	if err != nil {
		return nil, err
	}

	reports := make([]ExtraProductReport, 0, len(extras))
	for _, e := range extras {
		sold := sales[e.ID]
		reports = append(reports, ExtraProductReport{
			ID:              e.ID,
			Name:            e.Name,
			Measure:         e.Measure,
			Price:           e.Price,
			CalculationType: e.CalculationType,
			TotalQuantity:   sold.Quantity,
			TotalPrice:      sold.Total,
		})
	}
	return reports, nil
}

func (s *reportService) ExtraProduct(id uuid.UUID, f ReportFilter) (*ExtraProductSalesReport, error) {
	rg, err := f.dateRange()
	if err != nil {
		return nil, err
	}
	extra, err := s.extraRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(err, "extra product")
	}
	items, err := s.reportRepo.ExtraProductItems(id, rg)
	if err != nil {
		return nil, err
	}
	return &ExtraProductSalesReport{ExtraProduct: extra, Sales: items}, nil
}

func (s *reportService) Customers(f ReportFilter) ([]CustomerReport, error) {
	rg, err := f.dateRange()
	if err != nil {
		return nil, err
	}
	customers, err := s.customerRepo.FindByName(strings.TrimSpace(f.Search))
	if err != nil {
		return nil, err
	}
	sales, err := s.reportRepo.CustomerSales(rg)
	if err != nil {
		return nil, err
	}

	reports := make([]CustomerReport, 0, len(customers))
	for _, c := range customers {
		reports = append(reports, CustomerReport{
			ID:           c.ID,
			Name:         c.Name,
			PhoneNumber:  c.PhoneNumber,
			Address:      c.Address,
			DefaultPrice: c.DefaultPrice,
			TotalSales:   sales[c.ID],
		})
	}
	return reports, nil
}

func (s *reportService) Customer(id uuid.UUID, f ReportFilter) (*CustomerSalesReport, error) {
	rg, err := f.dateRange()
	if err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(err, "customer")
	}
	invoices, err := s.reportRepo.Invoices(repository.InvoiceFilter{Range: rg, CustomerID: &id})
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, inv := range invoices {
		total = total.Add(inv.TotalAmount)
	}
	return &CustomerSalesReport{Customer: customer, TotalSales: total, Sales: invoices}, nil
}

func (s *reportService) Invoices(f ReportFilter) ([]model.Invoice, error) {
	rg, err := f.dateRange()
	if err != nil {
		return nil, err
	}
	filter := repository.InvoiceFilter{Range: rg, CustomerName: strings.TrimSpace(f.Search)}
	if raw := strings.TrimSpace(f.DefaultPriceID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, invalid("invalid defaultPriceId: %s", raw)
		}
		filter.DefaultPriceID = &id
	}
	return s.reportRepo.Invoices(filter)
}

func (s *reportService) Invoice(id uuid.UUID) (*model.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(err, "invoice")
	}
	return invoice, nil
}
