package service

import (
	"errors"
	"fmt"

	"go-signshop-api/internal/metrics"
	"go-signshop-api/internal/model"
	"go-signshop-api/internal/pricing"
	"go-signshop-api/internal/repository"
	"go-signshop-api/internal/ws"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InvoiceExtraItemRequest struct {
	ExtraProductID uuid.UUID `json:"extraProductId" validate:"uuid_required"`
}

// InvoiceItemRequest is one line as entered. Computed fields sent by the
// client are not part of it; the server prices every line itself.
type InvoiceItemRequest struct {
	ProductID    uuid.UUID                 `json:"productId" validate:"uuid_required"`
	Measurements pricing.Measurements      `json:"measurements"`
	Notes        string                    `json:"notes" validate:"max=1000"`
	ExtraItems   []InvoiceExtraItemRequest `json:"extraItems" validate:"dive"`
}

type InvoiceRequest struct {
	CustomerID     uuid.UUID            `json:"customerId" validate:"uuid_required"`
	DefaultPriceID *uuid.UUID           `json:"defaultPriceId"`
	Items          []InvoiceItemRequest `json:"items" validate:"dive"`
}

type InvoiceService interface {
	Create(req *InvoiceRequest) (*model.Invoice, error)
	Preview(req *InvoiceRequest) (*model.Invoice, error)
	Get(id uuid.UUID) (*model.Invoice, error)
}

type invoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	priceRepo    repository.PriceRepository
	db           *gorm.DB
	events       Publisher
	log          zerolog.Logger
}

func NewInvoiceService(
	iRepo repository.InvoiceRepository,
	cRepo repository.CustomerRepository,
	pRepo repository.ProductRepository,
	tRepo repository.PriceRepository,
	db *gorm.DB,
	events Publisher,
	log zerolog.Logger,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:  iRepo,
		customerRepo: cRepo,
		productRepo:  pRepo,
		priceRepo:    tRepo,
		db:           db,
		events:       events,
		log:          log.With().Str("component", "invoice").Logger(),
	}
}

func (s *invoiceService) Get(id uuid.UUID) (*model.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(err, "invoice")
	}
	return invoice, nil
}

// Preview prices the request without storing anything.
func (s *invoiceService) Preview(req *InvoiceRequest) (*model.Invoice, error) {
	return s.build(req)
}

func (s *invoiceService) Create(req *InvoiceRequest) (*model.Invoice, error) {
	// 1. Validate and price every line
	invoice, err := s.build(req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			metrics.RecordInvoiceRejected("validation")
		} else {
			metrics.RecordInvoiceRejected("lookup")
		}
		return nil, err
	}

	// 2. Invoice, items and extra items go in together or not at all
	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.invoiceRepo.Create(tx, invoice)
	})
	if err != nil {
		metrics.RecordInvoiceRejected("storage")
		s.log.Error().Err(err).Str("customer_id", req.CustomerID.String()).Msg("Failed to store invoice")
		return nil, err
	}

	metrics.RecordInvoice(invoice.TotalAmount)
	s.log.Info().
		Str("invoice_id", invoice.ID.String()).
		Str("customer_id", invoice.CustomerID.String()).
		Int("items", len(invoice.Items)).
		Str("total", invoice.TotalAmount.String()).
		Msg("Invoice created")

	// 3. Broadcast ke WebSocket
	publish(s.events, ws.Event{
		Type:    "invoice_created",
		Action:  "created",
		Entity:  "invoice",
		ID:      invoice.ID.String(),
		Message: fmt.Sprintf("Invoice for %s created, total %s", invoice.Customer.Name, invoice.TotalAmount.String()),
	})

	return s.Get(invoice.ID)
}

// build resolves the customer, tier, products and extras of a request and
// recomputes every quantity, unit price and total.
func (s *invoiceService) build(req *InvoiceRequest) (*model.Invoice, error) {
	if len(req.Items) == 0 {
		return nil, invalid("invoice must have at least one item")
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindByID(req.CustomerID)
	if err != nil {
		if isNotFound(err) {
			return nil, invalid("customer %s does not exist", req.CustomerID)
		}
		return nil, err
	}

	// The customer's default tier applies when the invoice names none
	tierID := req.DefaultPriceID
	if tierID != nil && *tierID == uuid.Nil {
		tierID = nil
	}
	if tierID == nil {
		tierID = customer.DefaultPriceID
	}
	var tier *model.Price
	if tierID != nil {
		tier, err = s.priceRepo.FindByID(*tierID)
		if err != nil {
			if isNotFound(err) {
				return nil, invalid("price tier %s does not exist", tierID)
			}
			return nil, err
		}
	}

	productIDs := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.productRepo.FindByIDs(uniqueIDs(productIDs))
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	invoice := &model.Invoice{
		CustomerID:     customer.ID,
		Customer:       customer,
		DefaultPriceID: tierID,
		DefaultPrice:   tier,
		Items:          make([]model.InvoiceItem, 0, len(req.Items)),
	}

	results := make([]pricing.LineResult, 0, len(req.Items))
	for i, itemReq := range req.Items {
		item, result, err := priceItem(i+1, itemReq, byID, tierID)
		if err != nil {
			return nil, err
		}
		invoice.Items = append(invoice.Items, item)
		results = append(results, result)
	}
	invoice.TotalAmount = pricing.InvoiceTotal(results)
	return invoice, nil
}

func priceItem(n int, req InvoiceItemRequest, products map[uuid.UUID]*model.Product, tier *uuid.UUID) (model.InvoiceItem, pricing.LineResult, error) {
	product, ok := products[req.ProductID]
	if !ok {
		return model.InvoiceItem{}, pricing.LineResult{}, invalid("item %d: product %s does not exist", n, req.ProductID)
	}
	if err := pricing.ValidateMeasurements(product.CountOfSides, req.Measurements); err != nil {
		return model.InvoiceItem{}, pricing.LineResult{}, invalid("item %d (%s): %v", n, product.Name, err)
	}

	line := pricing.Line{
		Sides:        product.CountOfSides,
		Measurements: req.Measurements,
		Base:         product.Price,
		Overrides:    product.TierPrices(),
		Extras:       make([]pricing.ExtraLine, 0, len(req.ExtraItems)),
	}
	extras := make([]*model.ExtraProduct, 0, len(req.ExtraItems))
	for _, extraReq := range req.ExtraItems {
		extra, linked := product.LinkedExtraProduct(extraReq.ExtraProductID)
		if !linked {
			return model.InvoiceItem{}, pricing.LineResult{}, invalid("item %d (%s): extra product %s is not available for this product", n, product.Name, extraReq.ExtraProductID)
		}
		extras = append(extras, extra)
		line.Extras = append(line.Extras, pricing.ExtraLine{
			Formula:   extra.CalculationType,
			Base:      extra.Price,
			Overrides: extra.TierPrices(),
		})
	}

	result := pricing.PriceLine(line, tier)

	item := model.InvoiceItem{
		Position:               n - 1,
		ProductID:              product.ID,
		Product:                product,
		Measurements:           datatypes.NewJSONType(req.Measurements),
		Quantity:               result.Quantity,
		CalculatedPricePerUnit: result.UnitPrice,
		TotalItemPrice:         result.Total,
		Notes:                  req.Notes,
		ExtraItems:             make([]model.InvoiceExtraItem, 0, len(extras)),
	}
	for j, extra := range extras {
		r := result.Extras[j]
		item.ExtraItems = append(item.ExtraItems, model.InvoiceExtraItem{
			ExtraProductID:       extra.ID,
			ExtraProduct:         extra,
			Position:             j,
			CalculatedQuantity:   r.Quantity,
			CalculatedUnitPrice:  r.UnitPrice,
			CalculatedTotalPrice: r.Total,
		})
	}
	return item, result, nil
}
