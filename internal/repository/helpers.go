package repository

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// likePattern lowercases and wraps a search term for `LOWER(col) LIKE ?`.
func likePattern(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}

// valueTaken reports whether a live row other than exceptID already holds value in column.
func valueTaken(db *gorm.DB, model interface{}, column, value string, exceptID uuid.UUID) (bool, error) {
	var count int64
	q := db.Model(model).Where(column+" = ?", value)
	if exceptID != uuid.Nil {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func unscoped(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}
