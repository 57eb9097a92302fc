package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jasperlim/tracelink-backend/pkg/enums"
)

// Organization is one party in the traceability chain.
type Organization struct {
	ID        uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string        `gorm:"column:name;not null"`
	Type      enums.OrgType `gorm:"column:type;type:text;not null"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the production table naming.
func (Organization) TableName() string {
	return "organizations"
}
