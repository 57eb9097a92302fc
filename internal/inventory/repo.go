package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jasperlim/tracelink-backend/pkg/db/models"
	"github.com/jasperlim/tracelink-backend/pkg/enums"
)

// MovementParams carries the attribution for one stock movement ledger row.
type MovementParams struct {
	VariantID  uuid.UUID
	OrgID      uuid.UUID
	Quantity   decimal.Decimal
	FromOrgID  *uuid.UUID
	RefOrderID *uuid.UUID
	RefOrderNo *string
	CompanyID  *uuid.UUID
	CreatedBy  *uuid.UUID
}

// Repository wraps the inventory stored procedures and lookup queries.
// The ledger and aggregate writes live in the database so that every caller
// (this service, back office tooling, reconciliation scripts) shares one
// implementation of the accounting rules.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an inventory repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// RecordReceiveMovement inserts an addition/warehouse_receive ledger row via
// the record_stock_movement procedure and returns the movement id.
func (r *Repository) RecordReceiveMovement(ctx context.Context, p MovementParams) (uuid.UUID, error) {
	var id uuid.UUID
	row := r.db.WithContext(ctx).Raw(
		`SELECT record_stock_movement(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.VariantID,
		p.OrgID,
		enums.MovementTypeAddition.String(),
		enums.MovementReasonWarehouseReceive.String(),
		p.Quantity,
		p.FromOrgID,
		p.RefOrderID,
		p.RefOrderNo,
		p.CompanyID,
		p.CreatedBy,
	).Row()
	if row == nil {
		return uuid.Nil, errors.New("record_stock_movement returned no row")
	}
	if err := row.Scan(&id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// ApplyReceiveAdjustment upserts the cached on-hand/available rollup via the
// apply_inventory_receive_adjustment procedure.
func (r *Repository) ApplyReceiveAdjustment(ctx context.Context, variantID, orgID uuid.UUID, quantity decimal.Decimal, casesIncrement int) error {
	return r.db.WithContext(ctx).Exec(
		`SELECT apply_inventory_receive_adjustment(?, ?, ?, ?)`,
		variantID,
		orgID,
		quantity,
		casesIncrement,
	).Error
}

// UnitsPerCase returns the known positive units_per_case per variant.
// Variants without SKU metadata are simply absent from the map.
func (r *Repository) UnitsPerCase(ctx context.Context, variantIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	result := make(map[uuid.UUID]int, len(variantIDs))
	if len(variantIDs) == 0 {
		return result, nil
	}
	var rows []models.ProductSKU
	err := r.db.WithContext(ctx).
		Where("variant_id IN ?", variantIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.UnitsPerCase != nil && *row.UnitsPerCase > 0 {
			result[row.VariantID] = *row.UnitsPerCase
		}
	}
	return result, nil
}

// Snapshot reads the post-update inventory rollup for one variant at an org.
func (r *Repository) Snapshot(ctx context.Context, variantID, orgID uuid.UUID) (*models.ProductInventory, error) {
	var snap models.ProductInventory
	err := r.db.WithContext(ctx).
		Where("variant_id = ? AND org_id = ?", variantID, orgID).
		First(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snap, nil
}
