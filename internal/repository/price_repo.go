package repository

import (
	"go-signshop-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PriceRepository interface {
	Create(price *model.Price) error
	FindAll(search string) ([]model.Price, error)
	FindByID(id uuid.UUID) (*model.Price, error)
	FindByIDs(ids []uuid.UUID) ([]model.Price, error)
	NameTaken(name string, exceptID uuid.UUID) (bool, error)
	Update(price *model.Price) error
	Delete(id uuid.UUID) error
}

type priceRepo struct {
	db *gorm.DB
}

func NewPriceRepo(db *gorm.DB) PriceRepository {
	return &priceRepo{db}
}

func (r *priceRepo) Create(price *model.Price) error {
	return r.db.Create(price).Error
}

func (r *priceRepo) FindAll(search string) ([]model.Price, error) {
	var prices []model.Price
	q := r.db.Order("name ASC")
	if search != "" {
		q = q.Where("LOWER(name) LIKE ?", likePattern(search))
	}
	err := q.Find(&prices).Error
	return prices, err
}

func (r *priceRepo) FindByID(id uuid.UUID) (*model.Price, error) {
	var price model.Price
	if err := r.db.First(&price, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &price, nil
}

func (r *priceRepo) FindByIDs(ids []uuid.UUID) ([]model.Price, error) {
	var prices []model.Price
	if len(ids) == 0 {
		return prices, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&prices).Error
	return prices, err
}

func (r *priceRepo) NameTaken(name string, exceptID uuid.UUID) (bool, error) {
	return valueTaken(r.db, &model.Price{}, "name", name, exceptID)
}

func (r *priceRepo) Update(price *model.Price) error {
	return r.db.Save(price).Error
}

// Delete drops the tier's override rows and clears it as a customer default
func (r *priceRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("price_id = ?", id).Delete(&model.ProductPrice{}).Error; err != nil {
			return err
		}
		if err := tx.Where("price_id = ?", id).Delete(&model.ExtraProductPrice{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Customer{}).Where("default_price_id = ?", id).Update("default_price_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Price{}, "id = ?", id).Error
	})
}
