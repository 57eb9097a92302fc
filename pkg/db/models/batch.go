package models

import (
	"time"

	"github.com/google/uuid"
)

// Batch groups master cases produced in one manufacturing run. A batch may be
// linked to zero or one order.
type Batch struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BatchNo   string     `gorm:"column:batch_no;not null"`
	OrderID   *uuid.UUID `gorm:"column:order_id;type:uuid"`
	Order     *Order     `gorm:"foreignKey:OrderID"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the production table naming.
func (Batch) TableName() string {
	return "qr_batches"
}
