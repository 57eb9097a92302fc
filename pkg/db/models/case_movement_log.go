package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jasperlim/tracelink-backend/pkg/enums"
)

// CaseMovementLog is the audit row summarizing one physical case movement
// (manufacturer to warehouse on receive). Append-only.
type CaseMovementLog struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MasterCaseID  uuid.UUID          `gorm:"column:master_case_id;type:uuid;not null;index"`
	MasterCode    string             `gorm:"column:master_code;not null"`
	MovementType  enums.MovementType `gorm:"column:movement_type;type:text;not null"`
	FromOrgID     *uuid.UUID         `gorm:"column:from_org_id;type:uuid"`
	ToOrgID       *uuid.UUID         `gorm:"column:to_org_id;type:uuid"`
	TotalProducts int                `gorm:"column:total_products;not null;default:0"`
	CreatedBy     *uuid.UUID         `gorm:"column:created_by;type:uuid"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the production table naming.
func (CaseMovementLog) TableName() string {
	return "qr_movements"
}
