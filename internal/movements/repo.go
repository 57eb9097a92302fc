package movements

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jasperlim/tracelink-backend/pkg/db/models"
)

// ListFilter narrows the stock movement export. Zero values mean "no filter".
type ListFilter struct {
	OrgID     *uuid.UUID
	VariantID *uuid.UUID
	Limit     int
}

// Repository reads the immutable stock movement ledger.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a movements repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListRecent returns the newest ledger rows matching the filter.
func (r *Repository) ListRecent(ctx context.Context, filter ListFilter) ([]models.StockMovement, error) {
	query := r.db.WithContext(ctx).Model(&models.StockMovement{})
	if filter.OrgID != nil {
		query = query.Where("org_id = ?", *filter.OrgID)
	}
	if filter.VariantID != nil {
		query = query.Where("variant_id = ?", *filter.VariantID)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var rows []models.StockMovement
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
