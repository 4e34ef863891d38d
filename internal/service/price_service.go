package service

import (
	"strings"

	"go-signshop-api/internal/model"
	"go-signshop-api/internal/repository"
	"go-signshop-api/internal/ws"

	"github.com/google/uuid"
)

type PriceRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type PriceService interface {
	List(search string) ([]model.Price, error)
	Get(id uuid.UUID) (*model.Price, error)
	Create(req *PriceRequest) (*model.Price, error)
	Update(id uuid.UUID, req *PriceRequest) (*model.Price, error)
	Delete(id uuid.UUID) error
}

type priceService struct {
	priceRepo repository.PriceRepository
	events    Publisher
}

func NewPriceService(pRepo repository.PriceRepository, events Publisher) PriceService {
	return &priceService{priceRepo: pRepo, events: events}
}

func (s *priceService) List(search string) ([]model.Price, error) {
	return s.priceRepo.FindAll(search)
}

func (s *priceService) Get(id uuid.UUID) (*model.Price, error) {
	price, err := s.priceRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(err, "price")
	}
	return price, nil
}

func (s *priceService) check(id uuid.UUID, req *PriceRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return err
	}
	taken, err := s.priceRepo.NameTaken(req.Name, id)
	if err != nil {
		return err
	}
	if taken {
		return duplicate("price", req.Name)
	}
	return nil
}

func (s *priceService) Create(req *PriceRequest) (*model.Price, error) {
	if err := s.check(uuid.Nil, req); err != nil {
		return nil, err
	}
	price := &model.Price{Name: req.Name}
	if err := s.priceRepo.Create(price); err != nil {
		return nil, saveErr(err, "price", price.Name)
	}
	publish(s.events, catalogEvent("price", "created", price.ID, price.Name))
	return price, nil
}

func (s *priceService) Update(id uuid.UUID, req *PriceRequest) (*model.Price, error) {
	price, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.check(id, req); err != nil {
		return nil, err
	}
	price.Name = req.Name
	if err := s.priceRepo.Update(price); err != nil {
		return nil, saveErr(err, "price", price.Name)
	}
	publish(s.events, catalogEvent("price", "updated", price.ID, price.Name))
	return price, nil
}

func (s *priceService) Delete(id uuid.UUID) error {
	price, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.priceRepo.Delete(id); err != nil {
		return err
	}
	publish(s.events, catalogEvent("price", "deleted", price.ID, price.Name))
	return nil
}

func catalogEvent(entity, action string, id uuid.UUID, name string) ws.Event {
	return ws.Event{
		Type:    "catalog_updated",
		Action:  action,
		Entity:  entity,
		ID:      id.String(),
		Message: entity + " '" + name + "' " + action,
	}
}
