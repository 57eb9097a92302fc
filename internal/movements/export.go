package movements

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/jasperlim/tracelink-backend/pkg/db/models"
)

const exportSheet = "Stock Movements"

var exportHeaders = []string{
	"Movement ID",
	"Variant ID",
	"Org ID",
	"Type",
	"Reason",
	"Quantity",
	"From Org",
	"Order No",
	"Created At",
}

type movementLister interface {
	ListRecent(ctx context.Context, filter ListFilter) ([]models.StockMovement, error)
}

// ExportService renders the stock movement ledger as an xlsx workbook.
type ExportService struct {
	repo    movementLister
	maxRows int
}

// NewExportService builds an export service capped at maxRows ledger rows per file.
func NewExportService(repo movementLister, maxRows int) (*ExportService, error) {
	if repo == nil {
		return nil, fmt.Errorf("movements repository is required")
	}
	if maxRows <= 0 {
		maxRows = 5000
	}
	return &ExportService{repo: repo, maxRows: maxRows}, nil
}

// ExportFilter scopes an export request.
type ExportFilter struct {
	OrgID     *uuid.UUID
	VariantID *uuid.UUID
	Limit     int
}

// Export writes the workbook to w and returns the number of data rows written.
func (s *ExportService) Export(ctx context.Context, w io.Writer, filter ExportFilter) (int, error) {
	limit := filter.Limit
	if limit <= 0 || limit > s.maxRows {
		limit = s.maxRows
	}

	rows, err := s.repo.ListRecent(ctx, ListFilter{
		OrgID:     filter.OrgID,
		VariantID: filter.VariantID,
		Limit:     limit,
	})
	if err != nil {
		return 0, fmt.Errorf("list stock movements: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return 0, fmt.Errorf("create export sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return 0, fmt.Errorf("drop default sheet: %w", err)
	}

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return 0, err
		}
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return 0, err
		}
	}

	for i, row := range rows {
		values := []any{
			row.ID.String(),
			row.VariantID.String(),
			row.OrgID.String(),
			string(row.MovementType),
			string(row.Reason),
			row.Quantity.String(),
			uuidOrBlank(row.FromOrgID),
			stringOrBlank(row.RefOrderNo),
			row.CreatedAt.UTC().Format(time.RFC3339),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return 0, err
			}
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return 0, err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}
	return len(rows), nil
}

// Filename returns the attachment name for an export generated now.
func Filename(now time.Time) string {
	return fmt.Sprintf("stock-movements-%s.xlsx", now.UTC().Format("20060102-150405"))
}

func uuidOrBlank(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func stringOrBlank(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
