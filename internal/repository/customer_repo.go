package repository

import (
	"go-signshop-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	FindAll(search string) ([]model.Customer, error)
	FindByName(name string) ([]model.Customer, error)
	FindByID(id uuid.UUID) (*model.Customer, error)
	NameTaken(name string, exceptID uuid.UUID) (bool, error)
	Update(customer *model.Customer) error
	Delete(id uuid.UUID) error
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(customer *model.Customer) error {
	return r.db.Omit(clause.Associations).Create(customer).Error
}

// FindAll matches the search term against name, phone number and address
func (r *customerRepo) FindAll(search string) ([]model.Customer, error) {
	var customers []model.Customer
	q := r.db.Preload("DefaultPrice").Order("name ASC")
	if search != "" {
		p := likePattern(search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(phone_number) LIKE ? OR LOWER(address) LIKE ?", p, p, p)
	}
	err := q.Find(&customers).Error
	return customers, err
}

func (r *customerRepo) FindByName(name string) ([]model.Customer, error) {
	var customers []model.Customer
	q := r.db.Preload("DefaultPrice").Order("name ASC")
	if name != "" {
		q = q.Where("LOWER(name) LIKE ?", likePattern(name))
	}
	err := q.Find(&customers).Error
	return customers, err
}

func (r *customerRepo) FindByID(id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.Preload("DefaultPrice").First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) NameTaken(name string, exceptID uuid.UUID) (bool, error) {
	return valueTaken(r.db, &model.Customer{}, "name", name, exceptID)
}

func (r *customerRepo) Update(customer *model.Customer) error {
	return r.db.Omit(clause.Associations).Save(customer).Error
}

func (r *customerRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Customer{}, "id = ?", id).Error
}
