package receiving

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jasperlim/tracelink-backend/pkg/db/models"
	"github.com/jasperlim/tracelink-backend/pkg/enums"
)

// Repository exposes the persistence operations behind warehouse receiving.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a receiving repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindCaseByCode loads a master case by exact code with its batch/order lineage.
func (r *Repository) FindCaseByCode(ctx context.Context, code string) (*models.MasterCase, error) {
	var kase models.MasterCase
	err := r.db.WithContext(ctx).
		Preload("Batch").
		Preload("Batch.Order").
		Where("code = ?", code).
		First(&kase).Error
	if err != nil {
		return nil, err
	}
	return &kase, nil
}

// ReloadCase re-reads a master case row by id without preloads.
func (r *Repository) ReloadCase(ctx context.Context, id uuid.UUID) (*models.MasterCase, error) {
	var kase models.MasterCase
	if err := r.db.WithContext(ctx).First(&kase, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &kase, nil
}

// LoadChildCodes returns the unit codes nested under a master case.
func (r *Repository) LoadChildCodes(ctx context.Context, caseID uuid.UUID) ([]models.UniqueCode, error) {
	var children []models.UniqueCode
	err := r.db.WithContext(ctx).
		Select("id", "code", "variant_id").
		Where("master_case_id = ?", caseID).
		Order("created_at ASC").
		Find(&children).Error
	return children, err
}

// MarkCaseReceived performs the conditional status transition. The status
// filter is the only guard against two concurrent receives of the same case;
// callers must treat zero affected rows as "another request won".
func (r *Repository) MarkCaseReceived(ctx context.Context, caseID, warehouseOrgID uuid.UUID, receivedAt time.Time, receivedBy *uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.MasterCase{}).
		Where("id = ? AND status IN ?", caseID, enums.ReceivableCaseStatuses).
		Updates(map[string]any{
			"status":                enums.CaseStatusReceivedWarehouse,
			"warehouse_org_id":      warehouseOrgID,
			"warehouse_received_at": receivedAt,
			"warehouse_received_by": receivedBy,
		})
	return res.RowsAffected, res.Error
}

// UpdateChildCodes moves every child code with its parent case.
func (r *Repository) UpdateChildCodes(ctx context.Context, caseID, warehouseOrgID uuid.UUID, at time.Time, by *uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.UniqueCode{}).
		Where("master_case_id = ?", caseID).
		Updates(map[string]any{
			"status":                  enums.CaseStatusReceivedWarehouse,
			"current_location_org_id": warehouseOrgID,
			"last_scanned_at":         at,
			"last_scanned_by":         by,
		}).Error
}

// FindOrderItems returns the order's item lines for the zero-children fallback tally.
func (r *Repository) FindOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&items).Error
	return items, err
}

// InsertCaseMovementLog appends the audit row summarizing one physical case movement.
func (r *Repository) InsertCaseMovementLog(ctx context.Context, entry models.CaseMovementLog) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

// ListReceivingJobs returns the most recent receiving jobs for diagnostics.
func (r *Repository) ListReceivingJobs(ctx context.Context, limit int) ([]models.ReceivingJob, error) {
	if limit <= 0 {
		limit = 50
	}
	var jobs []models.ReceivingJob
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}
