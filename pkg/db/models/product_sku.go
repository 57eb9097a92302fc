package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductSKU carries per-variant packaging metadata, notably units_per_case
// used to derive case-count increments on receive.
type ProductSKU struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VariantID    uuid.UUID  `gorm:"column:variant_id;type:uuid;not null;index"`
	SKU          string     `gorm:"column:sku;not null"`
	UnitsPerCase *int       `gorm:"column:units_per_case"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the production table naming.
func (ProductSKU) TableName() string {
	return "product_skus"
}
