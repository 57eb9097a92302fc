package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is one ordered variant line used as the fallback tally source for
// cases that carry no child codes.
type OrderItem struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	VariantID *uuid.UUID `gorm:"column:variant_id;type:uuid"`
	Quantity  int        `gorm:"column:quantity;not null;default:0"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the production table naming.
func (OrderItem) TableName() string {
	return "order_items"
}
