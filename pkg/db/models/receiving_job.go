package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jasperlim/tracelink-backend/pkg/enums"
)

// ReceivingJob tracks one asynchronous batch receiving run. The diagnostic
// endpoint reads these rows; workers maintain the heartbeat.
type ReceivingJob struct {
	ID             uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BatchID        uuid.UUID                `gorm:"column:batch_id;type:uuid;not null;index"`
	Status         enums.ReceivingJobStatus `gorm:"column:status;type:text;not null"`
	TotalCodes     int                      `gorm:"column:total_codes;not null;default:0"`
	ProcessedCodes int                      `gorm:"column:processed_codes;not null;default:0"`
	FailedCodes    int                      `gorm:"column:failed_codes;not null;default:0"`
	HeartbeatAt    *time.Time               `gorm:"column:heartbeat_at"`
	StartedAt      *time.Time               `gorm:"column:started_at"`
	FinishedAt     *time.Time               `gorm:"column:finished_at"`
	LastError      *string                  `gorm:"column:last_error"`
	CreatedAt      time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the production table naming.
func (ReceivingJob) TableName() string {
	return "qr_reverse_jobs"
}
