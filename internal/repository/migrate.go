package repository

import (
	"go-signshop-api/internal/model"

	"gorm.io/gorm"
)

// Migrate registers the product/extra product link model and brings the
// schema up to date.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&model.Product{}, "ExtraProducts", &model.ProductExtraProduct{}); err != nil {
		return err
	}
	return db.AutoMigrate(model.All()...)
}
