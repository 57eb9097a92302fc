package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductInventory is the cached on-hand/available rollup per variant and
// organization. It is a projection maintained by the inventory stored
// procedures, never the system of record.
type ProductInventory struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VariantID         uuid.UUID       `gorm:"column:variant_id;type:uuid;not null;index:idx_product_inventory_variant_org,unique"`
	OrgID             uuid.UUID       `gorm:"column:org_id;type:uuid;not null;index:idx_product_inventory_variant_org,unique"`
	QuantityOnHand    decimal.Decimal `gorm:"column:quantity_on_hand;type:numeric(14,2);not null"`
	QuantityAvailable decimal.Decimal `gorm:"column:quantity_available;type:numeric(14,2);not null"`
	CasesOnHand       int             `gorm:"column:cases_on_hand;not null;default:0"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the production table naming.
func (ProductInventory) TableName() string {
	return "product_inventory"
}
