package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jasperlim/tracelink-backend/pkg/enums"
)

// StockMovement is one immutable ledger row recording a quantity change for a
// variant at an organization. Rows are inserted by the record_stock_movement
// stored procedure; this model only serves reads and reporting.
type StockMovement struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VariantID    uuid.UUID            `gorm:"column:variant_id;type:uuid;not null"`
	OrgID        uuid.UUID            `gorm:"column:org_id;type:uuid;not null"`
	MovementType enums.MovementType   `gorm:"column:movement_type;type:text;not null"`
	Reason       enums.MovementReason `gorm:"column:reason;type:text;not null"`
	Quantity     decimal.Decimal      `gorm:"column:quantity;type:numeric(14,2);not null"`
	FromOrgID    *uuid.UUID           `gorm:"column:from_org_id;type:uuid"`
	RefOrderID   *uuid.UUID           `gorm:"column:ref_order_id;type:uuid"`
	RefOrderNo   *string              `gorm:"column:ref_order_no"`
	CompanyID    *uuid.UUID           `gorm:"column:company_id;type:uuid"`
	CreatedBy    *uuid.UUID           `gorm:"column:created_by;type:uuid"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the production table naming.
func (StockMovement) TableName() string {
	return "stock_movements"
}
