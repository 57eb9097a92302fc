package receiving

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jasperlim/tracelink-backend/pkg/db/models"
	"github.com/jasperlim/tracelink-backend/pkg/enums"
)

func setupReceivingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_no TEXT NOT NULL,
  company_id TEXT,
  buyer_org_id TEXT,
  seller_org_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  variant_id TEXT,
  quantity INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	batches := `
CREATE TABLE IF NOT EXISTS qr_batches (
  id TEXT PRIMARY KEY,
  batch_no TEXT NOT NULL,
  order_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	masterCodes := `
CREATE TABLE IF NOT EXISTS qr_master_codes (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  status TEXT NOT NULL,
  case_number INTEGER NOT NULL DEFAULT 0,
  expected_units INTEGER NOT NULL DEFAULT 0,
  actual_units INTEGER NOT NULL DEFAULT 0,
  batch_id TEXT,
  company_id TEXT,
  warehouse_org_id TEXT,
  manufacturer_org_id TEXT,
  warehouse_received_at DATETIME,
  warehouse_received_by TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	uniqueCodes := `
CREATE TABLE IF NOT EXISTS qr_codes (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  variant_id TEXT,
  master_case_id TEXT,
  status TEXT NOT NULL,
  current_location_org_id TEXT,
  last_scanned_at DATETIME,
  last_scanned_by TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	movements := `
CREATE TABLE IF NOT EXISTS qr_movements (
  id TEXT PRIMARY KEY,
  master_case_id TEXT NOT NULL,
  master_code TEXT NOT NULL,
  movement_type TEXT NOT NULL,
  from_org_id TEXT,
  to_org_id TEXT,
  total_products INTEGER NOT NULL DEFAULT 0,
  created_by TEXT,
  created_at DATETIME
);`
	jobs := `
CREATE TABLE IF NOT EXISTS qr_reverse_jobs (
  id TEXT PRIMARY KEY,
  batch_id TEXT NOT NULL,
  status TEXT NOT NULL,
  total_codes INTEGER NOT NULL DEFAULT 0,
  processed_codes INTEGER NOT NULL DEFAULT 0,
  failed_codes INTEGER NOT NULL DEFAULT 0,
  heartbeat_at DATETIME,
  started_at DATETIME,
  finished_at DATETIME,
  last_error TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	for _, ddl := range []string{orders, orderItems, batches, masterCodes, uniqueCodes, movements, jobs} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func seedCase(t *testing.T, db *gorm.DB, code string, status enums.CaseStatus) *models.MasterCase {
	t.Helper()

	kase := &models.MasterCase{
		ID:            uuid.New(),
		Code:          code,
		Status:        status,
		CaseNumber:    1,
		ExpectedUnits: 4,
		ActualUnits:   4,
	}
	require.NoError(t, db.Create(kase).Error)
	return kase
}

func seedChildren(t *testing.T, db *gorm.DB, caseID uuid.UUID, variantID uuid.UUID, count int) {
	t.Helper()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < count; i++ {
		v := variantID
		child := &models.UniqueCode{
			ID:           uuid.New(),
			Code:         fmt.Sprintf("%s-unit-%d", caseID, i),
			VariantID:    &v,
			MasterCaseID: &caseID,
			Status:       enums.CaseStatusPacked,
			CreatedAt:    base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, db.Create(child).Error)
	}
}

func TestRepositoryFindCaseByCodePreloadsLineage(t *testing.T) {
	db := setupReceivingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := &models.Order{ID: uuid.New(), OrderNo: "ORD-100"}
	require.NoError(t, db.Create(order).Error)
	batch := &models.Batch{ID: uuid.New(), BatchNo: "B-1", OrderID: &order.ID}
	require.NoError(t, db.Create(batch).Error)

	kase := seedCase(t, db, "CASE-FIND-1", enums.CaseStatusPacked)
	require.NoError(t, db.Model(kase).Update("batch_id", batch.ID).Error)

	found, err := repo.FindCaseByCode(ctx, "CASE-FIND-1")
	require.NoError(t, err)
	require.NotNil(t, found.Batch)
	require.NotNil(t, found.Batch.Order)
	assert.Equal(t, "ORD-100", found.Batch.Order.OrderNo)

	_, err = repo.FindCaseByCode(ctx, "CASE-FIND-MISSING")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryMarkCaseReceivedIsConditional(t *testing.T) {
	db := setupReceivingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	kase := seedCase(t, db, "CASE-MARK-1", enums.CaseStatusPacked)
	warehouseOrg := uuid.New()
	userID := uuid.New()
	receivedAt := time.Now().UTC()

	affected, err := repo.MarkCaseReceived(ctx, kase.ID, warehouseOrg, receivedAt, &userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	reloaded, err := repo.ReloadCase(ctx, kase.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.CaseStatusReceivedWarehouse, reloaded.Status)
	require.NotNil(t, reloaded.WarehouseOrgID)
	assert.Equal(t, warehouseOrg, *reloaded.WarehouseOrgID)
	require.NotNil(t, reloaded.WarehouseReceivedAt)

	// Second attempt loses the conditional update.
	affected, err = repo.MarkCaseReceived(ctx, kase.ID, uuid.New(), time.Now().UTC(), &userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	unchanged, err := repo.ReloadCase(ctx, kase.ID)
	require.NoError(t, err)
	assert.Equal(t, warehouseOrg, *unchanged.WarehouseOrgID)
}

func TestRepositoryMarkCaseReceivedRejectsNonReceivableStatus(t *testing.T) {
	db := setupReceivingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	kase := seedCase(t, db, "CASE-MARK-SOLD", enums.CaseStatusSold)

	affected, err := repo.MarkCaseReceived(ctx, kase.ID, uuid.New(), time.Now().UTC(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	reloaded, err := repo.ReloadCase(ctx, kase.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.CaseStatusSold, reloaded.Status)
}

func TestRepositoryChildCodesFollowCase(t *testing.T) {
	db := setupReceivingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	kase := seedCase(t, db, "CASE-CHILD-1", enums.CaseStatusReadyToShip)
	variantID := uuid.New()
	seedChildren(t, db, kase.ID, variantID, 3)

	children, err := repo.LoadChildCodes(ctx, kase.ID)
	require.NoError(t, err)
	require.Len(t, children, 3)
	for i := 1; i < len(children); i++ {
		assert.True(t, children[i-1].Code < children[i].Code, "children ordered by creation")
	}

	warehouseOrg := uuid.New()
	userID := uuid.New()
	scannedAt := time.Now().UTC()
	require.NoError(t, repo.UpdateChildCodes(ctx, kase.ID, warehouseOrg, scannedAt, &userID))

	var moved []models.UniqueCode
	require.NoError(t, db.Where("master_case_id = ?", kase.ID).Find(&moved).Error)
	for _, child := range moved {
		assert.Equal(t, enums.CaseStatusReceivedWarehouse, child.Status)
		require.NotNil(t, child.CurrentLocationOrgID)
		assert.Equal(t, warehouseOrg, *child.CurrentLocationOrgID)
		require.NotNil(t, child.LastScannedBy)
		assert.Equal(t, userID, *child.LastScannedBy)
	}
}

func TestRepositoryFindOrderItems(t *testing.T) {
	db := setupReceivingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	orderID := uuid.New()
	variantID := uuid.New()
	require.NoError(t, db.Create(&models.OrderItem{ID: uuid.New(), OrderID: orderID, VariantID: &variantID, Quantity: 24}).Error)
	require.NoError(t, db.Create(&models.OrderItem{ID: uuid.New(), OrderID: uuid.New(), VariantID: &variantID, Quantity: 6}).Error)

	items, err := repo.FindOrderItems(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 24, items[0].Quantity)
}

func TestRepositoryInsertCaseMovementLog(t *testing.T) {
	db := setupReceivingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	caseID := uuid.New()
	toOrg := uuid.New()
	require.NoError(t, repo.InsertCaseMovementLog(ctx, models.CaseMovementLog{
		ID:            uuid.New(),
		MasterCaseID:  caseID,
		MasterCode:    "CASE-LOG-1",
		MovementType:  enums.MovementTypeAddition,
		ToOrgID:       &toOrg,
		TotalProducts: 4,
	}))

	var logs []models.CaseMovementLog
	require.NoError(t, db.Where("master_case_id = ?", caseID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, enums.MovementTypeAddition, logs[0].MovementType)
}

func TestRepositoryListReceivingJobs(t *testing.T) {
	db := setupReceivingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	batchID := uuid.New()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		job := &models.ReceivingJob{
			ID:        uuid.New(),
			BatchID:   batchID,
			Status:    enums.ReceivingJobStatusQueued,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(job).Error)
	}

	jobs, err := repo.ListReceivingJobs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.False(t, jobs[0].CreatedAt.Before(jobs[1].CreatedAt))
}
