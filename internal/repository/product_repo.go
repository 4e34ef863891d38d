package repository

import (
	"go-signshop-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	Update(tx *gorm.DB, product *model.Product) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	ReplaceExtraPrices(tx *gorm.DB, productID uuid.UUID, prices []model.ProductPrice) error
	ReplaceExtraProducts(tx *gorm.DB, productID uuid.UUID, extraProductIDs []uuid.UUID) error
	FindAll(search string) ([]model.Product, error)
	FindByName(name string) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByIDs(ids []uuid.UUID) ([]model.Product, error)
	NameTaken(name string, exceptID uuid.UUID) (bool, error)
	BarcodeTaken(barcode string, exceptID uuid.UUID) (bool, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("ExtraPrices").
		Preload("ExtraProducts", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("ExtraProducts.ExtraPrices")
}

// Create, Update dan Delete menerima tx agar price rows dan links ikut transaksi yang sama
func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Omit(clause.Associations).Create(product).Error
}

func (r *productRepo) Update(tx *gorm.DB, product *model.Product) error {
	return tx.Omit(clause.Associations).Save(product).Error
}

func (r *productRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("product_id = ?", id).Delete(&model.ProductPrice{}).Error; err != nil {
		return err
	}
	if err := tx.Where("product_id = ?", id).Delete(&model.ProductExtraProduct{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) ReplaceExtraPrices(tx *gorm.DB, productID uuid.UUID, prices []model.ProductPrice) error {
	if err := tx.Where("product_id = ?", productID).Delete(&model.ProductPrice{}).Error; err != nil {
		return err
	}
	if len(prices) == 0 {
		return nil
	}
	for i := range prices {
		prices[i].ProductID = productID
	}
	return tx.Create(&prices).Error
}

func (r *productRepo) ReplaceExtraProducts(tx *gorm.DB, productID uuid.UUID, extraProductIDs []uuid.UUID) error {
	if err := tx.Where("product_id = ?", productID).Delete(&model.ProductExtraProduct{}).Error; err != nil {
		return err
	}
	if len(extraProductIDs) == 0 {
		return nil
	}
	links := make([]model.ProductExtraProduct, 0, len(extraProductIDs))
	for _, id := range extraProductIDs {
		links = append(links, model.ProductExtraProduct{ProductID: productID, ExtraProductID: id})
	}
	return tx.Create(&links).Error
}

// FindAll matches name by substring or barcode exactly
func (r *productRepo) FindAll(search string) ([]model.Product, error) {
	var products []model.Product
	q := r.withRelations(r.db).Order("name ASC")
	if search != "" {
		q = q.Where("LOWER(name) LIKE ? OR barcode = ?", likePattern(search), search)
	}
	err := q.Find(&products).Error
	return products, err
}

// FindByName matches the name by substring only
func (r *productRepo) FindByName(name string) ([]model.Product, error) {
	var products []model.Product
	q := r.withRelations(r.db).Order("name ASC")
	if name != "" {
		q = q.Where("LOWER(name) LIKE ?", likePattern(name))
	}
	err := q.Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.withRelations(r.db).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByIDs(ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.withRelations(r.db).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepo) NameTaken(name string, exceptID uuid.UUID) (bool, error) {
	return valueTaken(r.db, &model.Product{}, "name", name, exceptID)
}

func (r *productRepo) BarcodeTaken(barcode string, exceptID uuid.UUID) (bool, error) {
	return valueTaken(r.db, &model.Product{}, "barcode", barcode, exceptID)
}
