package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CaseReceivedEvent is emitted when a master case completes warehouse receiving.
// Downstream loyalty and traceability consumers key off this event.
type CaseReceivedEvent struct {
	MasterCaseID   uuid.UUID             `json:"master_case_id"`
	MasterCode     string                `json:"master_code"`
	BatchID        *uuid.UUID            `json:"batch_id,omitempty"`
	OrderID        *uuid.UUID            `json:"order_id,omitempty"`
	OrderNo        string                `json:"order_no,omitempty"`
	WarehouseOrgID *uuid.UUID            `json:"warehouse_org_id,omitempty"`
	ReceivedAt     time.Time             `json:"received_at"`
	ReceivedBy     *uuid.UUID            `json:"received_by,omitempty"`
	TotalProducts  int                   `json:"total_products"`
	Variants       []CaseReceivedVariant `json:"variants,omitempty"`
}

// CaseReceivedVariant is one variant-level inventory effect inside a receive.
type CaseReceivedVariant struct {
	VariantID      uuid.UUID       `json:"variant_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	CasesIncrement int             `json:"cases_increment"`
}
