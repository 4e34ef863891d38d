package service

import (
	"strings"

	"go-signshop-api/internal/model"
	"go-signshop-api/internal/pricing"
	"go-signshop-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExtraProductRequest struct {
	Name            string             `json:"name" validate:"required,max=255"`
	Price           decimal.Decimal    `json:"price" validate:"gte=0"`
	Measure         string             `json:"measure" validate:"max=20"`
	CalculationType string             `json:"calculationType" validate:"required,max=255"`
	ExtraPrices     []TierPriceRequest `json:"extraPrices" validate:"dive"`
}

type ExtraProductService interface {
	List(search string) ([]model.ExtraProduct, error)
	Get(id uuid.UUID) (*model.ExtraProduct, error)
	Create(req *ExtraProductRequest) (*model.ExtraProduct, error)
	Update(id uuid.UUID, req *ExtraProductRequest) (*model.ExtraProduct, error)
	Delete(id uuid.UUID) error
}

type extraProductService struct {
	extraRepo repository.ExtraProductRepository
	priceRepo repository.PriceRepository
	db        *gorm.DB
	events    Publisher
}

func NewExtraProductService(eRepo repository.ExtraProductRepository, pRepo repository.PriceRepository, db *gorm.DB, events Publisher) ExtraProductService {
	return &extraProductService{extraRepo: eRepo, priceRepo: pRepo, db: db, events: events}
}

func (s *extraProductService) List(search string) ([]model.ExtraProduct, error) {
	return s.extraRepo.FindAll(strings.TrimSpace(search))
}

func (s *extraProductService) Get(id uuid.UUID) (*model.ExtraProduct, error) {
	extra, err := s.extraRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(err, "extra product")
	}
	return extra, nil
}

func (s *extraProductService) check(id uuid.UUID, req *ExtraProductRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.CalculationType = strings.ToLower(strings.TrimSpace(req.CalculationType))

	if err := validate(req); err != nil {
		return err
	}
	if err := pricing.CheckFormula(req.CalculationType); err != nil {
		return invalid("calculation type: %v", err)
	}

	taken, err := s.extraRepo.NameTaken(req.Name, id)
	if err != nil {
		return err
	}
	if taken {
		return duplicate("extra product", req.Name)
	}
	return checkTierPrices(s.priceRepo, req.ExtraPrices)
}

func (s *extraProductService) replacePrices(tx *gorm.DB, id uuid.UUID, req *ExtraProductRequest) error {
	prices := make([]model.ExtraProductPrice, 0, len(req.ExtraPrices))
	for _, row := range req.ExtraPrices {
		prices = append(prices, model.ExtraProductPrice{PriceID: row.PriceID, Price: row.Price})
	}
	return s.extraRepo.ReplaceExtraPrices(tx, id, prices)
}

func (s *extraProductService) Create(req *ExtraProductRequest) (*model.ExtraProduct, error) {
	if err := s.check(uuid.Nil, req); err != nil {
		return nil, err
	}

	extra := &model.ExtraProduct{
		Name:            req.Name,
		Price:           req.Price,
		Measure:         req.Measure,
		CalculationType: req.CalculationType,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.extraRepo.Create(tx, extra); err != nil {
			return err
		}
		return s.replacePrices(tx, extra.ID, req)
	})
	if err != nil {
		return nil, saveErr(err, "extra product", extra.Name)
	}

	publish(s.events, catalogEvent("extra product", "created", extra.ID, extra.Name))
	return s.Get(extra.ID)
}

func (s *extraProductService) Update(id uuid.UUID, req *ExtraProductRequest) (*model.ExtraProduct, error) {
	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.check(id, req); err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Price = req.Price
	existing.Measure = req.Measure
	existing.CalculationType = req.CalculationType

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.extraRepo.Update(tx, existing); err != nil {
			return err
		}
		return s.replacePrices(tx, existing.ID, req)
	})
	if err != nil {
		return nil, saveErr(err, "extra product", existing.Name)
	}

	publish(s.events, catalogEvent("extra product", "updated", existing.ID, existing.Name))
	return s.Get(id)
}

func (s *extraProductService) Delete(id uuid.UUID) error {
	existing, err := s.Get(id)
	if err != nil {
		return err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.extraRepo.Delete(tx, id)
	})
	if err != nil {
		return err
	}
	publish(s.events, catalogEvent("extra product", "deleted", existing.ID, existing.Name))
	return nil
}
