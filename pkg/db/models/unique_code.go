package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jasperlim/tracelink-backend/pkg/enums"
)

// UniqueCode is the per-unit code nested under a master case. Its status
// mirrors the parent case's receiving transition.
type UniqueCode struct {
	ID                   uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code                 string           `gorm:"column:code;not null;uniqueIndex"`
	VariantID            *uuid.UUID       `gorm:"column:variant_id;type:uuid"`
	MasterCaseID         *uuid.UUID       `gorm:"column:master_case_id;type:uuid;index"`
	Status               enums.CaseStatus `gorm:"column:status;type:text;not null"`
	CurrentLocationOrgID *uuid.UUID       `gorm:"column:current_location_org_id;type:uuid"`
	LastScannedAt        *time.Time       `gorm:"column:last_scanned_at"`
	LastScannedBy        *uuid.UUID       `gorm:"column:last_scanned_by;type:uuid"`
	CreatedAt            time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the production table naming.
func (UniqueCode) TableName() string {
	return "qr_codes"
}
