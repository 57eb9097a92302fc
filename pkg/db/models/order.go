package models

import (
	"time"

	"github.com/google/uuid"
)

// Order carries the buyer/seller organizations a case's receiving is
// attributed to. Read-only from the warehouse workflow's perspective.
type Order struct {
	ID          uuid.UUID   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNo     string      `gorm:"column:order_no;not null"`
	CompanyID   *uuid.UUID  `gorm:"column:company_id;type:uuid"`
	BuyerOrgID  *uuid.UUID  `gorm:"column:buyer_org_id;type:uuid"`
	SellerOrgID *uuid.UUID  `gorm:"column:seller_org_id;type:uuid"`
	Items       []OrderItem `gorm:"foreignKey:OrderID"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the production table naming.
func (Order) TableName() string {
	return "orders"
}
