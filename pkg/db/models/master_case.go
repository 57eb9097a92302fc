package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jasperlim/tracelink-backend/pkg/enums"
)

// MasterCase is one physical shipping case identified by a scannable code.
// Receiving mutates it exactly once; status only ever moves forward.
type MasterCase struct {
	ID                  uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code                string           `gorm:"column:code;not null;uniqueIndex"`
	Status              enums.CaseStatus `gorm:"column:status;type:text;not null"`
	CaseNumber          int              `gorm:"column:case_number;not null;default:0"`
	ExpectedUnits       int              `gorm:"column:expected_units;not null;default:0"`
	ActualUnits         int              `gorm:"column:actual_units;not null;default:0"`
	BatchID             *uuid.UUID       `gorm:"column:batch_id;type:uuid"`
	CompanyID           *uuid.UUID       `gorm:"column:company_id;type:uuid"`
	WarehouseOrgID      *uuid.UUID       `gorm:"column:warehouse_org_id;type:uuid"`
	ManufacturerOrgID   *uuid.UUID       `gorm:"column:manufacturer_org_id;type:uuid"`
	WarehouseReceivedAt *time.Time       `gorm:"column:warehouse_received_at"`
	WarehouseReceivedBy *uuid.UUID       `gorm:"column:warehouse_received_by;type:uuid"`
	Batch               *Batch           `gorm:"foreignKey:BatchID"`
	CreatedAt           time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the production table naming.
func (MasterCase) TableName() string {
	return "qr_master_codes"
}
