package repository

import (
	"go-signshop-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExtraProductRepository interface {
	Create(tx *gorm.DB, extra *model.ExtraProduct) error
	Update(tx *gorm.DB, extra *model.ExtraProduct) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	ReplaceExtraPrices(tx *gorm.DB, extraProductID uuid.UUID, prices []model.ExtraProductPrice) error
	FindAll(search string) ([]model.ExtraProduct, error)
	FindByID(id uuid.UUID) (*model.ExtraProduct, error)
	FindByIDs(ids []uuid.UUID) ([]model.ExtraProduct, error)
	NameTaken(name string, exceptID uuid.UUID) (bool, error)
}

type extraProductRepo struct {
	db *gorm.DB
}

func NewExtraProductRepo(db *gorm.DB) ExtraProductRepository {
	return &extraProductRepo{db}
}

func (r *extraProductRepo) Create(tx *gorm.DB, extra *model.ExtraProduct) error {
	return tx.Omit(clause.Associations).Create(extra).Error
}

func (r *extraProductRepo) Update(tx *gorm.DB, extra *model.ExtraProduct) error {
	return tx.Omit(clause.Associations).Save(extra).Error
}

// Delete also unlinks the extra product from every product
func (r *extraProductRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("extra_product_id = ?", id).Delete(&model.ExtraProductPrice{}).Error; err != nil {
		return err
	}
	if err := tx.Where("extra_product_id = ?", id).Delete(&model.ProductExtraProduct{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.ExtraProduct{}, "id = ?", id).Error
}

func (r *extraProductRepo) ReplaceExtraPrices(tx *gorm.DB, extraProductID uuid.UUID, prices []model.ExtraProductPrice) error {
	if err := tx.Where("extra_product_id = ?", extraProductID).Delete(&model.ExtraProductPrice{}).Error; err != nil {
		return err
	}
	if len(prices) == 0 {
		return nil
	}
	for i := range prices {
		prices[i].ExtraProductID = extraProductID
	}
	return tx.Create(&prices).Error
}

func (r *extraProductRepo) FindAll(search string) ([]model.ExtraProduct, error) {
	var extras []model.ExtraProduct
	q := r.db.Preload("ExtraPrices").Order("name ASC")
	if search != "" {
		q = q.Where("LOWER(name) LIKE ?", likePattern(search))
	}
	err := q.Find(&extras).Error
	return extras, err
}

func (r *extraProductRepo) FindByID(id uuid.UUID) (*model.ExtraProduct, error) {
	var extra model.ExtraProduct
	if err := r.db.Preload("ExtraPrices").First(&extra, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &extra, nil
}

func (r *extraProductRepo) FindByIDs(ids []uuid.UUID) ([]model.ExtraProduct, error) {
	var extras []model.ExtraProduct
	if len(ids) == 0 {
		return extras, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&extras).Error
	return extras, err
}

func (r *extraProductRepo) NameTaken(name string, exceptID uuid.UUID) (bool, error) {
	return valueTaken(r.db, &model.ExtraProduct{}, "name", name, exceptID)
}
