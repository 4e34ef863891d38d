package service

import (
	"strings"

	"go-signshop-api/internal/model"
	"go-signshop-api/internal/repository"

	"github.com/google/uuid"
)

type CustomerRequest struct {
	Name           string     `json:"name" validate:"required,max=255"`
	PhoneNumber    string     `json:"phoneNumber" validate:"max=50"`
	Address        string     `json:"address" validate:"max=255"`
	DefaultPriceID *uuid.UUID `json:"defaultPriceId"`
}

type CustomerService interface {
	List(search string) ([]model.Customer, error)
	Get(id uuid.UUID) (*model.Customer, error)
	Create(req *CustomerRequest) (*model.Customer, error)
	Update(id uuid.UUID, req *CustomerRequest) (*model.Customer, error)
	Delete(id uuid.UUID) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
	priceRepo    repository.PriceRepository
	events       Publisher
}

func NewCustomerService(cRepo repository.CustomerRepository, pRepo repository.PriceRepository, events Publisher) CustomerService {
	return &customerService{customerRepo: cRepo, priceRepo: pRepo, events: events}
}

func (s *customerService) List(search string) ([]model.Customer, error) {
	return s.customerRepo.FindAll(search)
}

func (s *customerService) Get(id uuid.UUID) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(err, "customer")
	}
	return customer, nil
}

func (s *customerService) check(id uuid.UUID, req *CustomerRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return err
	}

	taken, err := s.customerRepo.NameTaken(req.Name, id)
	if err != nil {
		return err
	}
	if taken {
		return duplicate("customer", req.Name)
	}

	if req.DefaultPriceID != nil && *req.DefaultPriceID == uuid.Nil {
		req.DefaultPriceID = nil
	}
	if req.DefaultPriceID != nil {
		if _, err := s.priceRepo.FindByID(*req.DefaultPriceID); err != nil {
			if isNotFound(err) {
				return invalid("default price %s does not exist", req.DefaultPriceID)
			}
			return err
		}
	}
	return nil
}

func (s *customerService) Create(req *CustomerRequest) (*model.Customer, error) {
	if err := s.check(uuid.Nil, req); err != nil {
		return nil, err
	}
	customer := &model.Customer{
		Name:           req.Name,
		PhoneNumber:    req.PhoneNumber,
		Address:        req.Address,
		DefaultPriceID: req.DefaultPriceID,
	}
	if err := s.customerRepo.Create(customer); err != nil {
		return nil, saveErr(err, "customer", customer.Name)
	}
	publish(s.events, catalogEvent("customer", "created", customer.ID, customer.Name))
	return s.Get(customer.ID)
}

func (s *customerService) Update(id uuid.UUID, req *CustomerRequest) (*model.Customer, error) {
	customer, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.check(id, req); err != nil {
		return nil, err
	}

	customer.Name = req.Name
	customer.PhoneNumber = req.PhoneNumber
	customer.Address = req.Address
	customer.DefaultPriceID = req.DefaultPriceID
	customer.DefaultPrice = nil

	if err := s.customerRepo.Update(customer); err != nil {
		return nil, saveErr(err, "customer", customer.Name)
	}
	publish(s.events, catalogEvent("customer", "updated", customer.ID, customer.Name))
	return s.Get(customer.ID)
}

func (s *customerService) Delete(id uuid.UUID) error {
	customer, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.customerRepo.Delete(id); err != nil {
		return err
	}
	publish(s.events, catalogEvent("customer", "deleted", customer.ID, customer.Name))
	return nil
}
