package movements

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jasperlim/tracelink-backend/pkg/db/models"
	"github.com/jasperlim/tracelink-backend/pkg/enums"
)

type stubLister struct {
	rows       []models.StockMovement
	lastFilter ListFilter
}

func (s *stubLister) ListRecent(ctx context.Context, filter ListFilter) ([]models.StockMovement, error) {
	s.lastFilter = filter
	limit := filter.Limit
	if limit > len(s.rows) {
		limit = len(s.rows)
	}
	return s.rows[:limit], nil
}

func sampleMovement(orderNo string) models.StockMovement {
	fromOrg := uuid.New()
	no := orderNo
	return models.StockMovement{
		ID:           uuid.New(),
		VariantID:    uuid.New(),
		OrgID:        uuid.New(),
		MovementType: enums.MovementTypeAddition,
		Reason:       enums.MovementReasonWarehouseReceive,
		Quantity:     decimal.NewFromInt(24),
		FromOrgID:    &fromOrg,
		RefOrderNo:   &no,
		CreatedAt:    time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestExportWritesWorkbook(t *testing.T) {
	lister := &stubLister{rows: []models.StockMovement{sampleMovement("ORD-1"), sampleMovement("ORD-2")}}
	svc, err := NewExportService(lister, 5000)
	require.NoError(t, err)

	var buf bytes.Buffer
	count, err := svc.Export(context.Background(), &buf, ExportFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, "ORD-1", rows[1][7])
	assert.Equal(t, "2026-03-14T09:30:00Z", rows[1][8])
}

func TestExportCapsLimitAtMaxRows(t *testing.T) {
	rows := make([]models.StockMovement, 0, 10)
	for i := 0; i < 10; i++ {
		rows = append(rows, sampleMovement("ORD-CAP"))
	}
	lister := &stubLister{rows: rows}
	svc, err := NewExportService(lister, 3)
	require.NoError(t, err)

	var buf bytes.Buffer
	count, err := svc.Export(context.Background(), &buf, ExportFilter{Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 3, lister.lastFilter.Limit)
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 5, 0, time.UTC)
	assert.Equal(t, "stock-movements-20260314-093005.xlsx", Filename(now))
}
