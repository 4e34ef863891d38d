package service

import (
	"strings"

	"go-signshop-api/internal/model"
	"go-signshop-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRequest struct {
	Name            string             `json:"name" validate:"required,max=255"`
	Barcode         string             `json:"barcode" validate:"required,max=100"`
	Price           decimal.Decimal    `json:"price" validate:"gte=0"`
	Measure         string             `json:"measure" validate:"max=20"`
	CountOfSides    int                `json:"countOfSides" validate:"min=1,max=3"`
	ExtraPrices     []TierPriceRequest `json:"extraPrices" validate:"dive"`
	ExtraProductIDs []uuid.UUID        `json:"extraProductIds"`
}

type ProductService interface {
	List(search string) ([]model.Product, error)
	Get(id uuid.UUID) (*model.Product, error)
	Create(req *ProductRequest) (*model.Product, error)
	Update(id uuid.UUID, req *ProductRequest) (*model.Product, error)
	Delete(id uuid.UUID) error
}

type productService struct {
	productRepo repository.ProductRepository
	extraRepo   repository.ExtraProductRepository
	priceRepo   repository.PriceRepository
	db          *gorm.DB
	events      Publisher
}

func NewProductService(
	pRepo repository.ProductRepository,
	eRepo repository.ExtraProductRepository,
	tRepo repository.PriceRepository,
	db *gorm.DB,
	events Publisher,
) ProductService {
	return &productService{
		productRepo: pRepo,
		extraRepo:   eRepo,
		priceRepo:   tRepo,
		db:          db,
		events:      events,
	}
}

func (s *productService) List(search string) ([]model.Product, error) {
	return s.productRepo.FindAll(strings.TrimSpace(search))
}

func (s *productService) Get(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(err, "product")
	}
	return product, nil
}

// check runs every rule that needs a read, so the write transaction only writes
func (s *productService) check(id uuid.UUID, req *ProductRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Barcode = strings.TrimSpace(req.Barcode)
	req.ExtraProductIDs = uniqueIDs(req.ExtraProductIDs)

	// 1. Validasi Struct Dasar
	if err := validate(req); err != nil {
		return err
	}

	// 2. Cek Duplikasi name dan barcode
	taken, err := s.productRepo.NameTaken(req.Name, id)
	if err != nil {
		return err
	}
	if taken {
		return duplicate("product", req.Name)
	}
	taken, err = s.productRepo.BarcodeTaken(req.Barcode, id)
	if err != nil {
		return err
	}
	if taken {
		return duplicate("barcode", req.Barcode)
	}

	// 3. Tier prices and linked extra products must exist
	if err := checkTierPrices(s.priceRepo, req.ExtraPrices); err != nil {
		return err
	}
	if len(req.ExtraProductIDs) > 0 {
		found, err := s.extraRepo.FindByIDs(req.ExtraProductIDs)
		if err != nil {
			return err
		}
		if len(found) != len(req.ExtraProductIDs) {
			existing := make(map[uuid.UUID]bool, len(found))
			for _, e := range found {
				existing[e.ID] = true
			}
			for _, id := range req.ExtraProductIDs {
				if !existing[id] {
					return invalid("extra product %s does not exist", id)
				}
			}
		}
	}
	return nil
}

func (s *productService) writeRelations(tx *gorm.DB, productID uuid.UUID, req *ProductRequest) error {
	prices := make([]model.ProductPrice, 0, len(req.ExtraPrices))
	for _, row := range req.ExtraPrices {
		prices = append(prices, model.ProductPrice{PriceID: row.PriceID, Price: row.Price})
	}
	if err := s.productRepo.ReplaceExtraPrices(tx, productID, prices); err != nil {
		return err
	}
	return s.productRepo.ReplaceExtraProducts(tx, productID, req.ExtraProductIDs)
}

func (s *productService) Create(req *ProductRequest) (*model.Product, error) {
	if err := s.check(uuid.Nil, req); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:         req.Name,
		Barcode:      req.Barcode,
		Price:        req.Price,
		Measure:      req.Measure,
		CountOfSides: req.CountOfSides,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.Create(tx, product); err != nil {
			return err
		}
		return s.writeRelations(tx, product.ID, req)
	})
	if err != nil {
		return nil, saveErr(err, "product", product.Name)
	}

	publish(s.events, catalogEvent("product", "created", product.ID, product.Name))
	return s.Get(product.ID)
}

func (s *productService) Update(id uuid.UUID, req *ProductRequest) (*model.Product, error) {
	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.check(id, req); err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Barcode = req.Barcode
	existing.Price = req.Price
	existing.Measure = req.Measure
	existing.CountOfSides = req.CountOfSides

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.Update(tx, existing); err != nil {
			return err
		}
		return s.writeRelations(tx, existing.ID, req)
	})
	if err != nil {
		return nil, saveErr(err, "product", existing.Name)
	}

	publish(s.events, catalogEvent("product", "updated", existing.ID, existing.Name))
	return s.Get(id)
}

func (s *productService) Delete(id uuid.UUID) error {
	existing, err := s.Get(id)
	if err != nil {
		return err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.productRepo.Delete(tx, id)
	})
	if err != nil {
		return err
	}
	publish(s.events, catalogEvent("product", "deleted", existing.ID, existing.Name))
	return nil
}
