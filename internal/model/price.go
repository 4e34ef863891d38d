package model

// Price is a named pricing tier ("dealer", "retail"). Products and extra
// products may carry an override price per tier.
type Price struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null;uniqueIndex:idx_prices_name,where:deleted_at IS NULL" json:"name"`
}
